package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order-console/internal/domain"
)

func TestLookup(t *testing.T) {
	full := newOrder("ORD-1", at("2024-03-02", 9), domain.StatusPaid, 120000)
	full.Buyer = &domain.Buyer{Name: "Nguyễn Văn A", Email: "a@example.com", Mobile: "0901 234 567"}
	full.Delivery = &domain.Address{City: "Hà Nội", Street: "12 Lý Thường Kiệt"}
	full.Items = domain.ItemizedProducts{
		{Name: "Áo thun", SKU: "TS-01", Brand: "Coolmate", Category: "Thời trang"},
		{Name: "Quần jean", SKU: "JN-02"},
	}

	single := newOrder("ORD-2", at("2024-03-03", 9), domain.StatusPending, 0)
	single.Items = domain.SingleProduct{Detail: domain.ProductDetail{Name: "Ấm trà", Brand: "Minh Long"}}

	guest := &domain.Order{OrderID: "ORD-3"}

	tests := []struct {
		name    string
		order   *domain.Order
		path    string
		want    string
		present bool
	}{
		{name: "top level", order: full, path: "orderId", want: "ORD-1", present: true},
		{name: "nested buyer", order: full, path: "userId.name", want: "Nguyễn Văn A", present: true},
		{name: "address street", order: full, path: "delivery_address.address", want: "12 Lý Thường Kiệt", present: true},
		{name: "indexed product", order: full, path: "products.1.sku", want: "JN-02", present: true},
		{name: "product index out of range", order: full, path: "products.5.sku"},
		{name: "product detail on itemized order", order: full, path: "product_details.name"},
		{name: "product detail", order: single, path: "product_details.brand", want: "Minh Long", present: true},
		{name: "products on single order", order: single, path: "products.0.name"},
		{name: "missing buyer", order: guest, path: "userId.name"},
		{name: "missing address", order: guest, path: "delivery_address.city"},
		{name: "missing amount", order: guest, path: "totalAmt"},
		{name: "missing created at", order: guest, path: "createdAt"},
		{name: "empty string is absent", order: full, path: "delivery_address.ward"},
		{name: "too deep", order: full, path: "orderId.value"},
		{name: "unknown field", order: full, path: "userId.password"},
		{name: "amount", order: full, path: "totalAmt", want: "120000", present: true},
		{name: "nil order", order: nil, path: "orderId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Lookup(tt.order, tt.path)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.present, v.Present())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestLookupKinds(t *testing.T) {
	o := newOrder("ORD-1", at("2024-03-02", 9), domain.StatusPaid, 5)

	v, _ := Lookup(o, "createdAt")
	assert.Equal(t, KindTime, v.Kind())
	assert.True(t, v.Time().Equal(at("2024-03-02", 9)))

	v, _ = Lookup(o, "totalAmt")
	assert.Equal(t, KindNumber, v.Kind())

	v, _ = Lookup(o, "payment_status")
	assert.Equal(t, KindString, v.Kind())
}
