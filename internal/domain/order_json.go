package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// looseString decodes a JSON string, number or null into a string. Mobile
// numbers arrive as either.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = looseString(n.String())
	return nil
}

// categoryName decodes a category given as a plain string, a {"name": ...}
// object or a list of either.
type categoryName string

func (c *categoryName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = categoryName(v)
	case '{':
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = categoryName(v.Name)
	case '[':
		var list []categoryName
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		names := make([]string, 0, len(list))
		for _, item := range list {
			if item != "" {
				names = append(names, string(item))
			}
		}
		*c = categoryName(strings.Join(names, ", "))
	default:
		return fmt.Errorf("unsupported category value %s", data)
	}
	return nil
}

type buyerWire struct {
	ID     string      `json:"_id,omitempty"`
	Name   string      `json:"name,omitempty"`
	Email  string      `json:"email,omitempty"`
	Mobile looseString `json:"mobile,omitempty"`
}

// buyerRef accepts a populated user object or a bare user id.
type buyerRef struct {
	buyerWire
}

func (b *buyerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.ID)
	}
	return json.Unmarshal(data, &b.buyerWire)
}

func (b buyerRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.buyerWire)
}

type addressWire struct {
	City     string      `json:"city,omitempty"`
	District string      `json:"district,omitempty"`
	Ward     string      `json:"ward,omitempty"`
	Street   string      `json:"address,omitempty"`
	Mobile   looseString `json:"mobile,omitempty"`
}

type productWire struct {
	Name     string       `json:"name,omitempty"`
	SKU      string       `json:"sku,omitempty"`
	Brand    string       `json:"brand,omitempty"`
	Category categoryName `json:"category,omitempty"`
}

type productDetailWire struct {
	Name     string       `json:"name,omitempty"`
	Brand    string       `json:"brand,omitempty"`
	Category categoryName `json:"category,omitempty"`
	Images   []string     `json:"image,omitempty"`
}

// timestampLayouts are tried in order. Naive layouts are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp returns the zero time for an empty or unreadable value. An
// order without a usable createdAt is kept and fails every date bound.
func parseTimestamp(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}

type orderWire struct {
	ID             string              `json:"_id,omitempty"`
	OrderID        string              `json:"orderId"`
	CreatedAt      looseString         `json:"createdAt,omitempty"`
	PaymentStatus  string              `json:"payment_status,omitempty"`
	TotalAmt       decimal.NullDecimal `json:"totalAmt"`
	Quantity       json.Number         `json:"quantity,omitempty"`
	User           *buyerRef           `json:"userId,omitempty"`
	Delivery       *addressWire        `json:"delivery_address,omitempty"`
	Products       []productWire       `json:"products,omitempty"`
	ProductDetails *productDetailWire  `json:"product_details,omitempty"`
}

// UnmarshalJSON decodes the order service's document shape. Missing
// sub-objects stay nil; a non-empty products list wins over product_details.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w orderWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Order{
		ID:            w.ID,
		OrderID:       w.OrderID,
		PaymentStatus: PaymentStatus(w.PaymentStatus),
		TotalAmt:      w.TotalAmt,
	}

	out.CreatedAt = parseTimestamp(string(w.CreatedAt))

	if w.Quantity != "" {
		if q, err := strconv.ParseFloat(w.Quantity.String(), 64); err == nil {
			out.Quantity = int(q)
		}
	}

	if w.User != nil {
		out.Buyer = &Buyer{
			ID:     w.User.ID,
			Name:   w.User.Name,
			Email:  w.User.Email,
			Mobile: string(w.User.Mobile),
		}
	}

	if w.Delivery != nil {
		out.Delivery = &Address{
			City:     w.Delivery.City,
			District: w.Delivery.District,
			Ward:     w.Delivery.Ward,
			Street:   w.Delivery.Street,
			Mobile:   string(w.Delivery.Mobile),
		}
	}

	switch {
	case len(w.Products) > 0:
		items := make(ItemizedProducts, 0, len(w.Products))
		for _, p := range w.Products {
			items = append(items, Product{
				Name:     p.Name,
				SKU:      p.SKU,
				Brand:    p.Brand,
				Category: string(p.Category),
			})
		}
		out.Items = items
	case w.ProductDetails != nil:
		out.Items = SingleProduct{Detail: ProductDetail{
			Name:     w.ProductDetails.Name,
			Brand:    w.ProductDetails.Brand,
			Category: string(w.ProductDetails.Category),
			Images:   w.ProductDetails.Images,
		}}
	}

	*o = out
	return nil
}

// MarshalJSON writes the same document shape UnmarshalJSON reads.
func (o Order) MarshalJSON() ([]byte, error) {
	w := orderWire{
		ID:            o.ID,
		OrderID:       o.OrderID,
		PaymentStatus: string(o.PaymentStatus),
		TotalAmt:      o.TotalAmt,
	}
	if !o.CreatedAt.IsZero() {
		w.CreatedAt = looseString(o.CreatedAt.Format(time.RFC3339Nano))
	}
	if o.Quantity != 0 {
		w.Quantity = json.Number(strconv.Itoa(o.Quantity))
	}
	if o.Buyer != nil {
		w.User = &buyerRef{buyerWire{
			ID:     o.Buyer.ID,
			Name:   o.Buyer.Name,
			Email:  o.Buyer.Email,
			Mobile: looseString(o.Buyer.Mobile),
		}}
	}
	if o.Delivery != nil {
		w.Delivery = &addressWire{
			City:     o.Delivery.City,
			District: o.Delivery.District,
			Ward:     o.Delivery.Ward,
			Street:   o.Delivery.Street,
			Mobile:   looseString(o.Delivery.Mobile),
		}
	}
	switch items := o.Items.(type) {
	case ItemizedProducts:
		for _, p := range items {
			w.Products = append(w.Products, productWire{
				Name:     p.Name,
				SKU:      p.SKU,
				Brand:    p.Brand,
				Category: categoryName(p.Category),
			})
		}
	case SingleProduct:
		w.ProductDetails = &productDetailWire{
			Name:     items.Detail.Name,
			Brand:    items.Detail.Brand,
			Category: categoryName(items.Detail.Category),
			Images:   items.Detail.Images,
		}
	}
	return json.Marshal(w)
}
