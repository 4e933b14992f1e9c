package orderview

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"order-console/internal/domain"
)

// Kind tags the dynamic type held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindTime
)

// Value is a single field extracted from an order by Lookup.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
	ts   time.Time
}

func stringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

func numberValue(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

func timeValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: KindTime, ts: t}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Present() bool { return v.kind != KindAbsent }

// Time returns the instant for KindTime values and the zero time otherwise.
func (v Value) Time() time.Time { return v.ts }

// String renders the value the way search compares it.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindTime:
		return v.ts.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Lookup resolves a dotted path such as "userId.name" or "products.0.sku"
// against an order. Any missing segment yields an absent value and false.
func Lookup(o *domain.Order, path string) (Value, bool) {
	if o == nil || path == "" {
		return Value{}, false
	}
	segs := strings.Split(path, ".")
	v := lookupOrder(o, segs[0], segs[1:])
	return v, v.Present()
}

func leaf(v Value, rest []string) Value {
	if len(rest) != 0 {
		return Value{}
	}
	return v
}

func lookupOrder(o *domain.Order, head string, rest []string) Value {
	switch head {
	case "_id":
		return leaf(stringValue(o.ID), rest)
	case "orderId":
		return leaf(stringValue(o.OrderID), rest)
	case "createdAt":
		return leaf(timeValue(o.CreatedAt), rest)
	case "payment_status":
		return leaf(stringValue(string(o.PaymentStatus)), rest)
	case "totalAmt":
		if !o.TotalAmt.Valid {
			return Value{}
		}
		return leaf(numberValue(o.TotalAmt.Decimal), rest)
	case "quantity":
		return leaf(numberValue(decimal.NewFromInt(int64(o.Quantity))), rest)
	case "userId":
		if o.Buyer == nil || len(rest) != 1 {
			return Value{}
		}
		return lookupBuyer(o.Buyer, rest[0])
	case "delivery_address":
		if o.Delivery == nil || len(rest) != 1 {
			return Value{}
		}
		return lookupAddress(o.Delivery, rest[0])
	case "products":
		items, ok := o.Items.(domain.ItemizedProducts)
		if !ok || len(rest) != 2 {
			return Value{}
		}
		idx, err := strconv.Atoi(rest[0])
		if err != nil || idx < 0 || idx >= len(items) {
			return Value{}
		}
		return lookupProduct(items[idx], rest[1])
	case "product_details":
		single, ok := o.Items.(domain.SingleProduct)
		if !ok || len(rest) != 1 {
			return Value{}
		}
		return lookupDetail(single.Detail, rest[0])
	}
	return Value{}
}

func lookupBuyer(b *domain.Buyer, field string) Value {
	switch field {
	case "_id":
		return stringValue(b.ID)
	case "name":
		return stringValue(b.Name)
	case "email":
		return stringValue(b.Email)
	case "mobile":
		return stringValue(b.Mobile)
	}
	return Value{}
}

func lookupAddress(a *domain.Address, field string) Value {
	switch field {
	case "city":
		return stringValue(a.City)
	case "district":
		return stringValue(a.District)
	case "ward":
		return stringValue(a.Ward)
	case "address":
		return stringValue(a.Street)
	case "mobile":
		return stringValue(a.Mobile)
	}
	return Value{}
}

func lookupProduct(p domain.Product, field string) Value {
	switch field {
	case "name":
		return stringValue(p.Name)
	case "sku":
		return stringValue(p.SKU)
	case "brand":
		return stringValue(p.Brand)
	case "category":
		return stringValue(p.Category)
	}
	return Value{}
}

func lookupDetail(d domain.ProductDetail, field string) Value {
	switch field {
	case "name":
		return stringValue(d.Name)
	case "brand":
		return stringValue(d.Brand)
	case "category":
		return stringValue(d.Category)
	}
	return Value{}
}
