package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"order-console/internal/domain"
)

const (
	SheetName       = "Danh sách hóa đơn"
	SpreadsheetType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SpreadsheetHeaders are the column labels of the spreadsheet export.
var SpreadsheetHeaders = []string{
	"Mã hóa đơn",
	"Ngày tạo",
	"Khách hàng",
	"Sản phẩm",
	"Số lượng",
	"Tổng tiền",
	"Trạng thái thanh toán",
	"Địa chỉ giao hàng",
}

var spreadsheetWidths = []float64{16, 18, 24, 32, 10, 14, 22, 40}

// Spreadsheet writes every order into a single-sheet workbook, one row per
// order under a header row. An empty collection yields the header row only.
func (r *Renderer) Spreadsheet(orders []*domain.Order) (Artifact, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return Artifact{}, fmt.Errorf("export: name sheet: %w", err)
	}

	header := make([]any, len(SpreadsheetHeaders))
	for i, h := range SpreadsheetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return Artifact{}, fmt.Errorf("export: write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Artifact{}, fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "H1", bold); err != nil {
		return Artifact{}, fmt.Errorf("export: header style: %w", err)
	}
	for i, w := range spreadsheetWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return Artifact{}, fmt.Errorf("export: column width: %w", err)
		}
	}

	rows := 0
	for _, o := range orders {
		if o == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, rows+2)
		row := []any{
			o.OrderID,
			formatTime(o.CreatedAt, dateTimeLayout, r.loc),
			buyerName(o),
			o.ProductName(),
			o.Quantity,
			o.Amount().InexactFloat64(),
			statusLabel(o),
			street(o),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return Artifact{}, fmt.Errorf("export: write row %d: %w", rows+2, err)
		}
		rows++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("export: encode workbook: %w", err)
	}
	return Artifact{
		FileName:    "order-list-" + r.stamp("2006-01-02") + ".xlsx",
		ContentType: SpreadsheetType,
		Body:        buf.Bytes(),
		Rows:        rows,
	}, nil
}
