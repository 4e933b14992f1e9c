package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"order-console/internal/domain"
)

const HTMLType = "text/html; charset=utf-8"

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="vi"><head><meta charset="utf-8"><title>Hóa đơn {{.OrderID}}</title>
<style>
body { font-family: Arial; font-size: 12px; padding: 20px; }
.header, .info, .table, .signature { margin-bottom: 20px; }
.title { font-size: 18px; font-weight: bold; text-align: center; }
.info-row { display: flex; margin-bottom: 5px; }
.info-label { font-weight: bold; width: 120px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background: #f2f2f2; }
.text-right { text-align: right; }
</style>
</head><body onload="window.print()">
<div class="title">HÓA ĐƠN BÁN HÀNG</div>
<div style="text-align:center">Ngày: {{.Date}}</div>
<div class="info">
<div class="info-row"><div class="info-label">Mã HD:</div><div>{{.OrderID}}</div></div>
<div class="info-row"><div class="info-label">Khách:</div><div>{{.Buyer}}<br>{{.Mobile}}</div></div>
<div class="info-row"><div class="info-label">Địa chỉ:</div><div>{{.City}}</div></div>
</div>
<table>
<tr><th>STT</th><th>Sản phẩm</th><th>Đơn giá</th><th>SL</th><th>Thành tiền</th></tr>
<tr><td>1</td><td>{{.Product}}</td><td>{{.UnitPrice}}</td><td>{{.Quantity}}</td><td class="text-right">{{.Total}}</td></tr>
<tfoot><tr><td colspan="4" class="text-right"><strong>Tổng:</strong></td><td class="text-right"><strong>{{.Total}}</strong></td></tr></tfoot>
</table>
<div class="signature" style="display:flex; justify-content: space-between; margin-top: 50px;">
<div>Người lập<br>(Ký, ghi rõ họ tên)</div>
<div>Khách hàng<br>(Ký, ghi rõ họ tên)</div>
</div>
</body></html>
`))

type invoice struct {
	OrderID   string
	Date      string
	Buyer     string
	Mobile    string
	City      string
	Product   string
	UnitPrice string
	Quantity  int
	Total     string
}

// PrintDocument renders a self-contained invoice for one order that opens
// the print dialog as soon as it loads. A zero quantity is billed as one
// unit.
func (r *Renderer) PrintDocument(o *domain.Order) (Artifact, error) {
	if o == nil {
		return Artifact{}, fmt.Errorf("%w: no order to print", ErrRenderUnavailable)
	}
	qty := o.Quantity
	if qty <= 0 {
		qty = 1
	}
	total := o.Amount()

	var buf bytes.Buffer
	err := invoiceTmpl.Execute(&buf, invoice{
		OrderID:   o.OrderID,
		Date:      formatTime(o.CreatedAt, dateTimeLayout, r.loc),
		Buyer:     buyerName(o),
		Mobile:    buyerMobile(o),
		City:      city(o),
		Product:   o.ProductName(),
		UnitPrice: FormatVND(total.Div(decimal.NewFromInt(int64(qty)))),
		Quantity:  qty,
		Total:     FormatVND(total),
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	return Artifact{
		FileName:    "invoice-" + o.OrderID + "-" + r.stamp("2006-01-02-15-04-05") + ".html",
		ContentType: HTMLType,
		Body:        buf.Bytes(),
		Rows:        1,
	}, nil
}
