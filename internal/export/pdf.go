package export

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"order-console/internal/domain"
	"order-console/internal/orderview"
)

const (
	PDFType = "application/pdf"

	pdfTitle       = "DANH SÁCH HÓA ĐƠN"
	productMaxLen  = 20
	pdfMargin      = 14.0
	pdfRowHeight   = 7.0
	pdfFontFamily  = "console"
	coreFontFamily = "Helvetica"
)

type pdfColumn struct {
	label string
	width float64
	align string
}

// A zero width takes whatever the landscape page has left.
var pdfColumns = []pdfColumn{
	{label: "Mã Đơn", width: 24, align: "L"},
	{label: "Ngày tạo", width: 25, align: "L"},
	{label: "Khách hàng", width: 45, align: "L"},
	{label: "Sản phẩm", width: 0, align: "L"},
	{label: "SL", width: 12, align: "C"},
	{label: "Tổng tiền", width: 32, align: "R"},
	{label: "Trạng thái", width: 40, align: "L"},
}

var asciiFold = strings.NewReplacer("đ", "d", "Đ", "D", "₫", "VND", "…", "...")

// foldASCII strips Vietnamese diacritics so text survives the cp1252 core
// fonts. Anything still outside ASCII is dropped.
func foldASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, asciiFold.Replace(s))
	if err != nil {
		return asciiFold.Replace(s)
	}
	return out
}

func truncateProduct(name string) string {
	if utf8.RuneCountInString(name) <= productMaxLen {
		return name
	}
	return string([]rune(name)[:productMaxLen]) + "..."
}

type pdfDoc struct {
	*fpdf.Fpdf
	family string
	text   func(string) string
}

func (r *Renderer) newPDF() (*pdfDoc, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	if r.fontPath == "" {
		return &pdfDoc{Fpdf: pdf, family: coreFontFamily, text: foldASCII}, nil
	}
	if _, err := os.Stat(r.fontPath); err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", ErrRenderUnavailable, r.fontPath, err)
	}
	pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
	pdf.AddUTF8Font(pdfFontFamily, "B", r.fontPath)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, pdf.Error())
	}
	return &pdfDoc{Fpdf: pdf, family: pdfFontFamily, text: func(s string) string { return s }}, nil
}

func (d *pdfDoc) tableHeader(widths []float64) {
	d.SetFont(d.family, "B", 9)
	d.SetFillColor(41, 128, 185)
	d.SetTextColor(255, 255, 255)
	for i, c := range pdfColumns {
		d.CellFormat(widths[i], pdfRowHeight, d.text(c.label), "1", 0, "C", true, 0, "")
	}
	d.Ln(-1)
	d.SetFont(d.family, "", 8)
	d.SetTextColor(0, 0, 0)
}

// ListPDF renders the whole collection as a landscape A4 table followed by
// the order count and revenue. The table header repeats on every page.
func (r *Renderer) ListPDF(orders []*domain.Order) (Artifact, error) {
	doc, err := r.newPDF()
	if err != nil {
		return Artifact{}, err
	}
	doc.SetTitle(pdfTitle, true)
	doc.SetCreator("order-console", true)

	pageW, pageH := doc.GetPageSize()
	widths := make([]float64, len(pdfColumns))
	fixed := 0.0
	for i, c := range pdfColumns {
		widths[i] = c.width
		fixed += c.width
	}
	for i, c := range pdfColumns {
		if c.width == 0 {
			widths[i] = pageW - 2*pdfMargin - fixed
		}
	}

	doc.AddPage()
	doc.SetFont(doc.family, "B", 18)
	doc.CellFormat(0, 10, doc.text(pdfTitle), "", 1, "C", false, 0, "")
	doc.SetFont(doc.family, "", 10)
	doc.CellFormat(0, 8, doc.text("Ngày xuất: "+r.stamp(dateTimeLayout)), "", 1, "L", false, 0, "")
	doc.tableHeader(widths)

	rows := 0
	for _, o := range orders {
		if o == nil {
			continue
		}
		if doc.GetY()+pdfRowHeight > pageH-pdfMargin {
			doc.AddPage()
			doc.tableHeader(widths)
		}
		cells := []string{
			o.OrderID,
			formatTime(o.CreatedAt, dateLayout, r.loc),
			buyerName(o),
			truncateProduct(o.ProductName()),
			strconv.Itoa(o.Quantity),
			FormatVND(o.Amount()),
			statusLabel(o),
		}
		for i, c := range cells {
			doc.CellFormat(widths[i], pdfRowHeight, doc.text(c), "1", 0, pdfColumns[i].align, false, 0, "")
		}
		doc.Ln(-1)
		rows++
	}

	sum := orderview.Aggregate(orders)
	if doc.GetY()+3*pdfRowHeight > pageH-pdfMargin {
		doc.AddPage()
	}
	doc.Ln(pdfRowHeight / 2)
	doc.SetFont(doc.family, "", 10)
	doc.CellFormat(0, pdfRowHeight, doc.text(fmt.Sprintf("Tổng số hóa đơn: %d", sum.Count)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, pdfRowHeight, doc.text("Tổng doanh thu: "+FormatVND(sum.Revenue)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("export: encode pdf: %w", err)
	}
	return Artifact{
		FileName:    "order-list-" + r.stamp("2006-01-02-15-04-05") + ".pdf",
		ContentType: PDFType,
		Body:        buf.Bytes(),
		Rows:        rows,
	}, nil
}
