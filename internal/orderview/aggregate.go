package orderview

import (
	"github.com/shopspring/decimal"

	"order-console/internal/domain"
)

// Summary holds the totals shown above the table and in export footers.
type Summary struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Aggregate sums the whole filtered-and-sorted collection; a missing amount
// counts as zero and nil entries are skipped, as the exporters skip them.
func Aggregate(orders []*domain.Order) Summary {
	sum := Summary{Revenue: decimal.Zero}
	for _, o := range orders {
		if o == nil {
			continue
		}
		sum.Count++
		sum.Revenue = sum.Revenue.Add(o.Amount())
	}
	return sum
}
