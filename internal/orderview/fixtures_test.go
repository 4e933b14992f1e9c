package orderview

import (
	"time"

	"github.com/shopspring/decimal"

	"order-console/internal/domain"
)

var testLoc = time.FixedZone("ICT", 7*60*60)

func at(day string, hour int) time.Time {
	d, err := time.ParseInLocation(DateLayout, day, testLoc)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func amount(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func newOrder(id string, created time.Time, status domain.PaymentStatus, total int64) *domain.Order {
	return &domain.Order{
		ID:            "db-" + id,
		OrderID:       id,
		CreatedAt:     created,
		PaymentStatus: status,
		TotalAmt:      amount(total),
		Quantity:      1,
	}
}

// twelveOrders has three paid orders in March 2024 and nine others spread
// across statuses and months.
func twelveOrders() []*domain.Order {
	return []*domain.Order{
		newOrder("ORD-01", at("2024-03-02", 9), domain.StatusPaid, 100000),
		newOrder("ORD-02", at("2024-03-02", 10), domain.StatusPending, 50000),
		newOrder("ORD-03", at("2024-02-28", 23), domain.StatusPaid, 70000),
		newOrder("ORD-04", at("2024-03-15", 12), domain.StatusPaid, 250000),
		newOrder("ORD-05", at("2024-03-20", 8), domain.StatusCancelled, 90000),
		newOrder("ORD-06", at("2024-04-01", 0), domain.StatusPaid, 30000),
		newOrder("ORD-07", at("2024-03-31", 23), domain.StatusPaid, 45000),
		newOrder("ORD-08", at("2024-01-10", 14), domain.StatusPending, 15000),
		newOrder("ORD-09", at("2024-03-11", 16), domain.StatusPending, 60000),
		newOrder("ORD-10", at("2024-05-05", 11), domain.StatusCancelled, 20000),
		newOrder("ORD-11", at("2024-03-25", 7), domain.StatusPending, 80000),
		newOrder("ORD-12", at("2024-02-01", 18), domain.StatusPaid, 10000),
	}
}

func numbered(n int) []*domain.Order {
	out := make([]*domain.Order, 0, n)
	base := at("2024-06-01", 0)
	for i := 1; i <= n; i++ {
		out = append(out, newOrder(
			"N-"+string(rune('A'+(i-1)/26))+string(rune('A'+(i-1)%26)),
			base.Add(time.Duration(i)*time.Hour),
			domain.StatusPending,
			int64(i*1000),
		))
	}
	return out
}

func ids(orders []*domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.OrderID)
	}
	return out
}
