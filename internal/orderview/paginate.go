package orderview

import (
	"slices"

	"order-console/internal/domain"
)

// DefaultPageSize is the page size of a fresh view.
const DefaultPageSize = 10

// PageSizes are the page sizes an operator may pick.
var PageSizes = []int{5, 10, 25, 50}

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	return slices.Contains(PageSizes, size)
}

// TotalPages returns ceil(count/size); zero for an empty collection.
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage keeps page inside [1, totalPages]. An empty result is page 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate returns the window [(page-1)*size, page*size) clipped to the
// collection. Pages past the end are empty.
func Paginate(sorted []*domain.Order, page, size int) []*domain.Order {
	if page < 1 || size <= 0 {
		return []*domain.Order{}
	}
	start := (page - 1) * size
	if start >= len(sorted) {
		return []*domain.Order{}
	}
	end := min(start+size, len(sorted))
	return clone(sorted[start:end])
}

// PageMarker is one entry of the compressed page index: a page number or an
// ellipsis standing in for a gap.
type PageMarker struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageIndex shows the first and last page, the current page with its
// neighbours, page 2 when current > 3 and the second-to-last page when
// current < total-2. Gaps collapse into one ellipsis.
func PageIndex(current, total int) []PageMarker {
	if total <= 0 {
		return []PageMarker{}
	}
	current = ClampPage(current, total)

	shown := func(p int) bool {
		switch {
		case p == 1, p == total:
			return true
		case p >= current-1 && p <= current+1:
			return true
		case p == 2 && current > 3:
			return true
		case p == total-1 && current < total-2:
			return true
		}
		return false
	}

	markers := make([]PageMarker, 0, 9)
	prev := 0
	for p := 1; p <= total; p++ {
		if !shown(p) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			markers = append(markers, PageMarker{Ellipsis: true})
		}
		markers = append(markers, PageMarker{Page: p, Current: p == current})
		prev = p
	}
	return markers
}
