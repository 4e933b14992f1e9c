package services

import (
	"time"

	"github.com/shopspring/decimal"

	"order-console/internal/domain"
	"order-console/internal/export"
	"order-console/internal/metrics"
	"order-console/internal/mocks"
)

const (
	TestSession = "session-1"
	TestToken   = "token-1"
)

var testLoc = time.FixedZone("ICT", 7*60*60)

func CreateMockOrder(id string, created string, status domain.PaymentStatus, total int64) *domain.Order {
	ts, err := time.ParseInLocation("2006-01-02 15:04", created, testLoc)
	if err != nil {
		panic(err)
	}
	return &domain.Order{
		ID:            "db-" + id,
		OrderID:       id,
		CreatedAt:     ts,
		PaymentStatus: status,
		TotalAmt:      decimal.NullDecimal{Decimal: decimal.NewFromInt(total), Valid: true},
		Quantity:      1,
		Buyer:         &domain.Buyer{Name: "Khách " + id},
		Items:         domain.SingleProduct{Detail: domain.ProductDetail{Name: "Sản phẩm " + id}},
	}
}

func CreateMockOrders() []*domain.Order {
	return []*domain.Order{
		CreateMockOrder("HD-01", "2024-03-02 09:00", domain.StatusPaid, 100000),
		CreateMockOrder("HD-02", "2024-03-05 10:00", domain.StatusPending, 50000),
		CreateMockOrder("HD-03", "2024-03-15 12:00", domain.StatusPaid, 250000),
		CreateMockOrder("HD-04", "2024-04-01 08:00", domain.StatusCancelled, 90000),
	}
}

type testDeps struct {
	source    *mocks.MockOrderSource
	cache     *mocks.MockSnapshotCache
	publisher *mocks.MockPublisher
	exports   *mocks.MockExportRepository
	metrics   *metrics.Metrics
}

func newTestConsole(fontPath string) (*OrderConsole, *testDeps) {
	deps := &testDeps{
		source:    new(mocks.MockOrderSource),
		cache:     new(mocks.MockSnapshotCache),
		publisher: new(mocks.MockPublisher),
		exports:   new(mocks.MockExportRepository),
		metrics:   metrics.New(),
	}
	console := NewOrderConsole(
		deps.source,
		deps.publisher,
		deps.exports,
		export.NewRenderer(testLoc, fontPath),
		deps.metrics,
		nil,
		testLoc,
	)
	return console, deps
}
