package report

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// WritePDF writes a one-table sales summary. Order ids are shortened to 8 characters.
func WritePDF(w io.Writer, rows []Row, generated time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetTextColor(0x25, 0x63, 0xEB)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "POS SALES REPORT", "", 1, "C", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, "Generated: "+generated.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 7, "Order ID", "B", 0, "L", false, 0, "")
		pdf.CellFormat(75, 7, "Date", "B", 0, "L", false, 0, "")
		pdf.CellFormat(44, 7, "Total", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	for _, r := range rows {
		id := r.ID
		if len(id) > 8 {
			id = id[:8] + "..."
		}
		date := r.Date
		if date == "" {
			date = "-"
		}
		pdf.CellFormat(55, 7, id, "", 0, "L", false, 0, "")
		pdf.CellFormat(75, 7, date, "", 0, "L", false, 0, "")
		pdf.CellFormat(44, 7, "$"+r.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}
	return pdf.Output(w)
}
