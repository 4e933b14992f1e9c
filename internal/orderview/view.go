package orderview

import (
	"time"

	"order-console/internal/domain"
)

// View is everything the order table renders for one State.
type View struct {
	Orders        []*domain.Order `json:"orders"`
	Page          int             `json:"page"`
	PageSize      int             `json:"pageSize"`
	TotalPages    int             `json:"totalPages"`
	TotalFiltered int             `json:"totalFiltered"`
	RawCount      int             `json:"rawCount"`
	RangeStart    int             `json:"rangeStart"`
	RangeEnd      int             `json:"rangeEnd"`
	PageIndex     []PageMarker    `json:"pageIndex"`
	Summary       Summary         `json:"summary"`
	State         State           `json:"state"`
	Degraded      bool            `json:"degraded,omitempty"`

	// Sorted is the full filtered-and-sorted collection that exports consume.
	Sorted []*domain.Order `json:"-"`
}

// Derive runs filter, sort, aggregate and paginate over raw for s. It never
// mutates raw or the records. A filter failure still yields a usable view
// over the unfiltered collection; the error is returned for logging.
func Derive(raw []*domain.Order, s State, loc *time.Location) (View, error) {
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}

	filtered, filterErr := Filter(raw, s.Filters, s.Query, loc)
	sorted := Sort(filtered, s.Sort)

	total := len(sorted)
	totalPages := TotalPages(total, s.PageSize)
	s.Page = ClampPage(s.Page, totalPages)

	v := View{
		Orders:        Paginate(sorted, s.Page, s.PageSize),
		Page:          s.Page,
		PageSize:      s.PageSize,
		TotalPages:    totalPages,
		TotalFiltered: total,
		RawCount:      len(raw),
		PageIndex:     PageIndex(s.Page, totalPages),
		Summary:       Aggregate(sorted),
		State:         s,
		Degraded:      filterErr != nil,
		Sorted:        sorted,
	}
	if total > 0 {
		v.RangeStart = (s.Page-1)*s.PageSize + 1
		v.RangeEnd = min(s.Page*s.PageSize, total)
	}
	return v, filterErr
}
