// Package export renders the filtered-and-sorted order collection into
// downloadable artifacts: a spreadsheet, a list PDF and a printable invoice.
package export

import (
	"errors"
	"time"

	"order-console/internal/domain"
)

// ErrRenderUnavailable is returned when an exporter lacks what it needs to
// produce the artifact, for example a configured font that cannot be loaded.
var ErrRenderUnavailable = errors.New("export: rendering capability unavailable")

const (
	GuestPlaceholder        = "Khách vãng lai"
	UndeterminedPlaceholder = "Chưa xác định"

	dateTimeLayout = "02/01/2006 15:04"
	dateLayout     = "02/01/2006"
)

// Artifact is a rendered, write-once export.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}

func buyerName(o *domain.Order) string {
	if o.Buyer == nil || o.Buyer.Name == "" {
		return GuestPlaceholder
	}
	return o.Buyer.Name
}

func buyerMobile(o *domain.Order) string {
	if o.Buyer == nil {
		return ""
	}
	return o.Buyer.Mobile
}

func statusLabel(o *domain.Order) string {
	if o.PaymentStatus == "" {
		return UndeterminedPlaceholder
	}
	return string(o.PaymentStatus)
}

func street(o *domain.Order) string {
	if o.Delivery == nil {
		return ""
	}
	return o.Delivery.Street
}

func city(o *domain.Order) string {
	if o.Delivery == nil {
		return ""
	}
	return o.Delivery.City
}

// formatTime renders t in loc; a missing creation time renders empty.
func formatTime(t time.Time, layout string, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(layout)
}
