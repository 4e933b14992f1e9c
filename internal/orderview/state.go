package orderview

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"order-console/internal/domain"
)

// DateRangeMessage is shown inline when the start date is after the end date.
const DateRangeMessage = "Ngày bắt đầu phải nhỏ hơn hoặc bằng ngày kết thúc"

var (
	ErrInvalidDateRange = errors.New("orderview: start date is after end date")
	ErrInvalidPageSize  = errors.New("orderview: unsupported page size")
	ErrInvalidPage      = errors.New("orderview: invalid page")
	ErrUnknownIntent    = errors.New("orderview: unknown intent")
)

// State is every operator control of the order view. It is a value; Reduce
// returns a new one for each intent.
type State struct {
	Filters   FilterParams `json:"filters"`
	Query     string       `json:"query"`
	Sort      SortConfig   `json:"sort"`
	Page      int          `json:"page"`
	PageSize  int          `json:"pageSize"`
	DateError string       `json:"dateError,omitempty"`
}

// DefaultState is the view an operator lands on: newest orders first.
func DefaultState() State {
	return State{
		Sort:     SortConfig{Key: SortKeyCreatedAt, Direction: SortDesc},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

type IntentType string

const (
	IntentSetQuery     IntentType = "set_query"
	IntentSetStatus    IntentType = "set_status"
	IntentSetStartDate IntentType = "set_start_date"
	IntentSetEndDate   IntentType = "set_end_date"
	IntentResetFilters IntentType = "reset_filters"
	IntentSort         IntentType = "sort"
	IntentGoToPage     IntentType = "go_to_page"
	IntentSetPageSize  IntentType = "set_page_size"
)

// Intent is one operator action dispatched against a State.
type Intent struct {
	Type  IntentType `json:"type" binding:"required"`
	Value string     `json:"value"`
}

// Reduce applies in to s. A rejected intent returns s unchanged apart from
// DateError, together with the reason.
func Reduce(s State, in Intent) (State, error) {
	next := s
	switch in.Type {
	case IntentSetQuery:
		next.Query = in.Value
		next.Page = 1
	case IntentSetStatus:
		next.Filters.Status = domain.PaymentStatus(strings.TrimSpace(in.Value))
		next.Page = 1
	case IntentSetStartDate, IntentSetEndDate:
		params := s.Filters
		if in.Type == IntentSetStartDate {
			params.StartDate = strings.TrimSpace(in.Value)
		} else {
			params.EndDate = strings.TrimSpace(in.Value)
		}
		if err := ValidateDateRange(params); err != nil {
			s.DateError = DateRangeMessage
			return s, err
		}
		next.Filters = params
		next.DateError = ""
		next.Page = 1
	case IntentResetFilters:
		next.Filters = FilterParams{}
		next.Query = ""
		next.DateError = ""
		next.Page = 1
	case IntentSort:
		key := strings.TrimSpace(in.Value)
		if key == "" {
			return s, fmt.Errorf("%w: sort key required", ErrUnknownIntent)
		}
		next.Sort = s.Sort.Toggle(key)
	case IntentGoToPage:
		page, err := strconv.Atoi(strings.TrimSpace(in.Value))
		if err != nil {
			return s, fmt.Errorf("%w: %q", ErrInvalidPage, in.Value)
		}
		next.Page = max(page, 1)
	case IntentSetPageSize:
		size, err := strconv.Atoi(strings.TrimSpace(in.Value))
		if err != nil || !ValidPageSize(size) {
			return s, fmt.Errorf("%w: %q", ErrInvalidPageSize, in.Value)
		}
		next.PageSize = size
		next.Page = 1
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}
	return next, nil
}

// ValidateDateRange rejects a pair where both dates parse and start > end.
// Unparseable dates are left to Filter, which falls back to the raw
// collection.
func ValidateDateRange(p FilterParams) error {
	if p.StartDate == "" || p.EndDate == "" {
		return nil
	}
	start, errStart := time.Parse(DateLayout, p.StartDate)
	end, errEnd := time.Parse(DateLayout, p.EndDate)
	if errStart != nil || errEnd != nil {
		return nil
	}
	if start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}

// FiltersChanged reports whether the remote fetch parameters differ, which
// means the raw collection has to be reloaded.
func FiltersChanged(prev, next State) bool {
	return prev.Filters != next.Filters
}
