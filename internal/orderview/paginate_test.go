package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPaginateWindow(t *testing.T) {
	sorted := numbered(25)

	page3 := Paginate(sorted, 3, 10)
	assert.Len(t, page3, 5)
	assert.Equal(t, sorted[20:], page3)

	for _, size := range PageSizes {
		total := TotalPages(len(sorted), size)
		for page := 1; page <= total+1; page++ {
			want := min(size, len(sorted)-(page-1)*size)
			if want < 0 || page > total {
				want = 0
			}
			assert.Len(t, Paginate(sorted, page, size), want, "page %d size %d", page, size)
		}
	}

	assert.Empty(t, Paginate(sorted, 0, 10))
	assert.Empty(t, Paginate(nil, 1, 10))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(5, 0))
	assert.Equal(t, 1, ClampPage(-2, 4))
	assert.Equal(t, 4, ClampPage(9, 4))
	assert.Equal(t, 2, ClampPage(2, 4))
}

func render(markers []PageMarker) []any {
	out := make([]any, 0, len(markers))
	for _, m := range markers {
		if m.Ellipsis {
			out = append(out, "…")
			continue
		}
		out = append(out, m.Page)
	}
	return out
}

func TestPageIndex(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []any
	}{
		{name: "empty", current: 1, total: 0, want: []any{}},
		{name: "single page", current: 1, total: 1, want: []any{1}},
		{name: "few pages", current: 2, total: 3, want: []any{1, 2, 3}},
		{name: "first of many", current: 1, total: 10, want: []any{1, 2, "…", 9, 10}},
		{name: "middle", current: 5, total: 10, want: []any{1, 2, "…", 4, 5, 6, "…", 9, 10}},
		{name: "near start", current: 3, total: 10, want: []any{1, 2, 3, 4, "…", 9, 10}},
		{name: "page four shows page two", current: 4, total: 10, want: []any{1, 2, 3, 4, 5, "…", 9, 10}},
		{name: "near end", current: 8, total: 10, want: []any{1, 2, "…", 7, 8, 9, 10}},
		{name: "last", current: 10, total: 10, want: []any{1, 2, "…", 9, 10}},
		{name: "current beyond total is clamped", current: 12, total: 10, want: []any{1, 2, "…", 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(PageIndex(tt.current, tt.total)))
		})
	}
}

func TestPageIndexMarksCurrent(t *testing.T) {
	var current []int
	for _, m := range PageIndex(5, 10) {
		if m.Current {
			current = append(current, m.Page)
		}
	}
	assert.Equal(t, []int{5}, current)
}
