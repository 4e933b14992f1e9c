package orderview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"order-console/internal/domain"
)

// DateLayout is the wire format of the start/end date controls.
const DateLayout = "2006-01-02"

var (
	ErrMalformedDate = errors.New("orderview: malformed date")
	ErrFilterFailed  = errors.New("orderview: filter failed")
)

// FilterParams are the filter controls. Dates are calendar days in the
// console's timezone.
type FilterParams struct {
	Status    domain.PaymentStatus `json:"status,omitempty"`
	StartDate string               `json:"startDate,omitempty"`
	EndDate   string               `json:"endDate,omitempty"`
}

// FetchParams converts the controls into the parameters sent to the order
// service.
func (p FilterParams) FetchParams() domain.FetchParams {
	return domain.FetchParams{Status: p.Status, StartDate: p.StartDate, EndDate: p.EndDate}
}

// dayBounds returns the inclusive range covered by the params. A zero time
// means the bound is unset.
func (p FilterParams) dayBounds(loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time
	if p.StartDate != "" {
		day, err := time.ParseInLocation(DateLayout, p.StartDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q", ErrMalformedDate, p.StartDate)
		}
		start = day
	}
	if p.EndDate != "" {
		day, err := time.ParseInLocation(DateLayout, p.EndDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q", ErrMalformedDate, p.EndDate)
		}
		end = day.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return start, end, nil
}

// Filter narrows raw by status, date range and free-text query, keeping the
// input order. On any failure it returns a copy of raw together with the
// error so the caller can log it and keep rendering.
func Filter(raw []*domain.Order, params FilterParams, query string, loc *time.Location) (result []*domain.Order, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = clone(raw)
			err = fmt.Errorf("%w: %v", ErrFilterFailed, r)
		}
	}()

	if loc == nil {
		loc = time.Local
	}

	start, end, err := params.dayBounds(loc)
	if err != nil {
		return clone(raw), err
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		start, end = time.Time{}, time.Time{}
	}

	needle := normalizeQuery(query)

	result = make([]*domain.Order, 0, len(raw))
	for _, o := range raw {
		if o == nil {
			continue
		}
		if params.Status != "" && o.PaymentStatus != params.Status {
			continue
		}
		if !start.IsZero() && (o.CreatedAt.IsZero() || o.CreatedAt.Before(start)) {
			continue
		}
		if !end.IsZero() && (o.CreatedAt.IsZero() || o.CreatedAt.After(end)) {
			continue
		}
		if needle != "" && !Matches(o, needle) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Matches reports whether any searchable field of o contains the already
// normalized needle.
func Matches(o *domain.Order, needle string) bool {
	for _, field := range SearchFields(o) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

var searchPaths = []string{
	"orderId",
	"userId.name",
	"userId.email",
	"userId.mobile",
	"delivery_address.mobile",
	"payment_status",
	"delivery_address.city",
	"delivery_address.district",
	"delivery_address.ward",
	"delivery_address.address",
}

var mobilePaths = []string{"userId.mobile", "delivery_address.mobile"}

var productFields = []string{"name", "sku", "brand", "category"}

var detailPaths = []string{"product_details.name", "product_details.brand", "product_details.category"}

// SearchFields lists the present candidate fields of an order that free-text
// search is matched against.
func SearchFields(o *domain.Order) []string {
	fields := make([]string, 0, len(searchPaths)+len(mobilePaths)+len(detailPaths))
	add := func(path string) {
		if v, ok := Lookup(o, path); ok {
			fields = append(fields, v.String())
		}
	}

	for _, path := range searchPaths {
		add(path)
	}
	for _, path := range mobilePaths {
		if v, ok := Lookup(o, path); ok {
			if compact := strings.Join(strings.Fields(v.String()), ""); compact != "" {
				fields = append(fields, compact)
			}
		}
	}

	switch items := o.Items.(type) {
	case domain.ItemizedProducts:
		for i := range items {
			for _, f := range productFields {
				add("products." + strconv.Itoa(i) + "." + f)
			}
		}
	case domain.SingleProduct:
		for _, path := range detailPaths {
			add(path)
		}
	}
	return fields
}

func clone(in []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(in))
	copy(out, in)
	return out
}
