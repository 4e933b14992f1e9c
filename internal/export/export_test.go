package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"order-console/internal/domain"
)

var testLoc = time.FixedZone("ICT", 7*60*60)

func testRenderer(fontPath string) *Renderer {
	r := NewRenderer(testLoc, fontPath)
	r.now = func() time.Time { return time.Date(2024, 3, 31, 18, 5, 9, 0, time.UTC) }
	return r
}

func sampleOrders() []*domain.Order {
	paid := &domain.Order{
		ID:            "a1",
		OrderID:       "HD-1001",
		CreatedAt:     time.Date(2024, 3, 2, 2, 30, 0, 0, time.UTC),
		PaymentStatus: domain.StatusPaid,
		TotalAmt:      decimal.NullDecimal{Decimal: decimal.NewFromInt(1250000), Valid: true},
		Quantity:      3,
		Buyer:         &domain.Buyer{Name: "Trần Thị Bình", Mobile: "0912345678"},
		Delivery:      &domain.Address{City: "Đà Nẵng", Street: "5 Bạch Đằng"},
		Items:         domain.SingleProduct{Detail: domain.ProductDetail{Name: "Nồi cơm điện cao tần Sunhouse 1.8L"}},
	}
	guest := &domain.Order{
		ID:       "a2",
		OrderID:  "HD-1002",
		Quantity: 0,
	}
	return []*domain.Order{paid, guest}
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "0 ₫", FormatVND(decimal.Zero))
	assert.Equal(t, "1.250.000 ₫", FormatVND(decimal.NewFromInt(1250000)))
	assert.Equal(t, "416.667 ₫", FormatVND(decimal.RequireFromString("416666.67")))
}

func TestSpreadsheet(t *testing.T) {
	art, err := testRenderer("").Spreadsheet(sampleOrders())
	require.NoError(t, err)
	assert.Equal(t, "order-list-2024-04-01.xlsx", art.FileName)
	assert.Equal(t, SpreadsheetType, art.ContentType)
	assert.Equal(t, 2, art.Rows)

	f, err := excelize.OpenReader(bytes.NewReader(art.Body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, SpreadsheetHeaders, rows[0])
	assert.Equal(t, []string{
		"HD-1001", "02/03/2024 09:30", "Trần Thị Bình", "Nồi cơm điện cao tần Sunhouse 1.8L",
		"3", "1250000", string(domain.StatusPaid), "5 Bạch Đằng",
	}, rows[1])
	assert.Equal(t, "HD-1002", rows[2][0])
	assert.Equal(t, "", rows[2][1])
	assert.Equal(t, GuestPlaceholder, rows[2][2])
	assert.Equal(t, UndeterminedPlaceholder, rows[2][6])
}

func TestSpreadsheetEmpty(t *testing.T) {
	art, err := testRenderer("").Spreadsheet(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, art.Rows)

	f, err := excelize.OpenReader(bytes.NewReader(art.Body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{SpreadsheetHeaders}, rows)
}

func TestListPDF(t *testing.T) {
	orders := sampleOrders()
	for i := 0; i < 60; i++ {
		orders = append(orders, sampleOrders()[0])
	}

	art, err := testRenderer("").ListPDF(orders)
	require.NoError(t, err)
	assert.Equal(t, "order-list-2024-04-01-01-05-09.pdf", art.FileName)
	assert.Equal(t, PDFType, art.ContentType)
	assert.Equal(t, 62, art.Rows)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
}

func TestListPDFEmpty(t *testing.T) {
	art, err := testRenderer("").ListPDF(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, art.Rows)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
}

func TestListPDFMissingFont(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.ttf")
	_, err := testRenderer(missing).ListPDF(sampleOrders())
	assert.ErrorIs(t, err, ErrRenderUnavailable)
}

func TestFoldASCII(t *testing.T) {
	assert.Equal(t, "DANH SACH HOA DON", foldASCII("DANH SÁCH HÓA ĐƠN"))
	assert.Equal(t, "Tong doanh thu: 1.000 VND", foldASCII("Tổng doanh thu: 1.000 ₫"))
}

func TestTruncateProduct(t *testing.T) {
	assert.Equal(t, "Bàn phím", truncateProduct("Bàn phím"))
	assert.Equal(t, "Nồi cơm điện cao tần...", truncateProduct("Nồi cơm điện cao tần Sunhouse"))
	assert.Equal(t, "", truncateProduct(""))
}

func TestPrintDocument(t *testing.T) {
	art, err := testRenderer("").PrintDocument(sampleOrders()[0])
	require.NoError(t, err)
	assert.Equal(t, HTMLType, art.ContentType)
	assert.True(t, strings.HasPrefix(art.FileName, "invoice-HD-1001-"))

	html := string(art.Body)
	assert.Contains(t, html, `onload="window.print()"`)
	assert.Contains(t, html, "Ngày: 02/03/2024 09:30")
	assert.Contains(t, html, "Trần Thị Bình<br>0912345678")
	assert.Contains(t, html, "Đà Nẵng")
	assert.Contains(t, html, "<td>416.667 ₫</td>")
	assert.Contains(t, html, "<td>3</td>")
	assert.Contains(t, html, "<strong>1.250.000 ₫</strong>")
	assert.Contains(t, html, "Người lập")
	assert.Contains(t, html, "Khách hàng<br>")
}

func TestPrintDocumentGuestDefaultsToOneUnit(t *testing.T) {
	art, err := testRenderer("").PrintDocument(sampleOrders()[1])
	require.NoError(t, err)

	html := string(art.Body)
	assert.Contains(t, html, GuestPlaceholder)
	assert.Contains(t, html, "<td>1</td><td>")
	assert.Contains(t, html, "<td>0 ₫</td>")
}

func TestPrintDocumentEscapesFields(t *testing.T) {
	o := sampleOrders()[0]
	o.Buyer = &domain.Buyer{Name: "<script>alert(1)</script>"}

	art, err := testRenderer("").PrintDocument(o)
	require.NoError(t, err)
	assert.NotContains(t, string(art.Body), "<script>alert(1)</script>")
}
