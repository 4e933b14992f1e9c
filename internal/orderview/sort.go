package orderview

import (
	"slices"
	"strings"

	"order-console/internal/domain"
)

// SortDirection describes the requested ordering.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	SortKeyOrderID   = "orderId"
	SortKeyAmount    = "totalAmt"
	SortKeyCreatedAt = "createdAt"
)

// SortConfig is the single active sort key and its direction.
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// Toggle applies a click on the sort control for key: the active key flips
// direction, any other key becomes active ascending.
func (c SortConfig) Toggle(key string) SortConfig {
	if c.Key == key && c.Direction == SortAsc {
		return SortConfig{Key: key, Direction: SortDesc}
	}
	return SortConfig{Key: key, Direction: SortAsc}
}

// Sort returns a new slice ordered by cfg. Equal keys keep their input order.
func Sort(in []*domain.Order, cfg SortConfig) []*domain.Order {
	out := clone(in)
	if cfg.Key == "" {
		return out
	}

	cmp := func(a, b *domain.Order) int {
		av, _ := Lookup(a, cfg.Key)
		bv, _ := Lookup(b, cfg.Key)
		if cfg.Key == SortKeyCreatedAt {
			return av.Time().Compare(bv.Time())
		}
		return compareValues(av, bv)
	}
	if cfg.Direction == SortDesc {
		asc := cmp
		cmp = func(a, b *domain.Order) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// compareValues orders absent values (treated as the empty string) first,
// then compares like kinds naturally.
func compareValues(a, b Value) int {
	switch {
	case !a.Present() && !b.Present():
		return 0
	case !a.Present():
		return -1
	case !b.Present():
		return 1
	}
	if a.kind != b.kind {
		return strings.Compare(a.String(), b.String())
	}
	switch a.kind {
	case KindNumber:
		return a.num.Cmp(b.num)
	case KindTime:
		return a.ts.Compare(b.ts)
	default:
		return strings.Compare(a.str, b.str)
	}
}
