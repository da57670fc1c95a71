package report

import (
	"fmt"
	"io"

	"github.com/360EntSecGroup-Skylar/excelize"
)

const SalesSheet = "Sales Data"

var xlsxColumns = []struct {
	col    string
	header string
	width  float64
}{
	{"A", "Order ID", 38},
	{"B", "Date", 20},
	{"C", "Cashier", 20},
	{"D", "Total ($)", 15},
	{"E", "Payment", 15},
}

const headerStyle = `{"font":{"bold":true,"color":"#FFFFFF"},"fill":{"type":"pattern","color":["#2563EB"],"pattern":1}}`

// WriteXLSX writes a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SalesSheet)

	for _, c := range xlsxColumns {
		f.SetCellValue(SalesSheet, c.col+"1", c.header)
		f.SetColWidth(SalesSheet, c.col, c.col, c.width)
	}
	style, err := f.NewStyle(headerStyle)
	if err != nil {
		return err
	}
	f.SetCellStyle(SalesSheet, "A1", "E1", style)

	for i, r := range rows {
		n := i + 2
		total, _ := r.Total.Float64()
		f.SetCellValue(SalesSheet, fmt.Sprintf("A%d", n), r.ID)
		f.SetCellValue(SalesSheet, fmt.Sprintf("B%d", n), r.Date)
		f.SetCellValue(SalesSheet, fmt.Sprintf("C%d", n), r.Cashier)
		f.SetCellValue(SalesSheet, fmt.Sprintf("D%d", n), total)
		f.SetCellValue(SalesSheet, fmt.Sprintf("E%d", n), r.Method)
	}
	return f.Write(w)
}
