package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment state stored by the order service. Values are
// kept in the storefront's single locale.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "Đang chờ thanh toán"
	StatusPaid      PaymentStatus = "Đã thanh toán"
	StatusCancelled PaymentStatus = "Đã hủy"
)

// Buyer is the customer attached to an order. A nil *Buyer on an order means
// the order was placed by a guest.
type Buyer struct {
	ID     string
	Name   string
	Email  string
	Mobile string
}

type Address struct {
	City     string
	District string
	Ward     string
	Street   string
	Mobile   string
}

type Product struct {
	Name     string
	SKU      string
	Brand    string
	Category string
}

type ProductDetail struct {
	Name     string
	Brand    string
	Category string
	Images   []string
}

// Merchandise is what an order bought. It is either an ItemizedProducts list
// or a single flattened ProductDetail, never both.
type Merchandise interface {
	// Primary returns the name shown in single-line displays and exports.
	Primary() string
	isMerchandise()
}

// ItemizedProducts is the product-list shape of Merchandise.
type ItemizedProducts []Product

func (p ItemizedProducts) Primary() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].Name
}

func (ItemizedProducts) isMerchandise() {}

// SingleProduct is the product-detail shape of Merchandise.
type SingleProduct struct {
	Detail ProductDetail
}

func (s SingleProduct) Primary() string {
	return s.Detail.Name
}

func (SingleProduct) isMerchandise() {}

// Order is a read-only record received from the order service.
type Order struct {
	ID            string
	OrderID       string
	CreatedAt     time.Time
	PaymentStatus PaymentStatus
	TotalAmt      decimal.NullDecimal
	Quantity      int
	Buyer         *Buyer
	Delivery      *Address
	Items         Merchandise
}

// Amount returns the order total, treating a missing amount as zero.
func (o *Order) Amount() decimal.Decimal {
	if o == nil || !o.TotalAmt.Valid {
		return decimal.Zero
	}
	return o.TotalAmt.Decimal
}

// ProductName returns the primary product name or "" when nothing is attached.
func (o *Order) ProductName() string {
	if o == nil || o.Items == nil {
		return ""
	}
	return o.Items.Primary()
}

// FetchParams are the filter parameters forwarded to the order service when
// the raw collection is loaded.
type FetchParams struct {
	Status    PaymentStatus `json:"status,omitempty"`
	StartDate string        `json:"startDate,omitempty"`
	EndDate   string        `json:"endDate,omitempty"`
}

// StatusUpdate is the outbound mutation sent to the order service.
type StatusUpdate struct {
	OrderID      string        `json:"orderId"`
	Status       PaymentStatus `json:"status"`
	CancelReason string        `json:"cancelReason,omitempty"`
}
