package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"counterpos/internal/domain"
	"counterpos/internal/report"
	"counterpos/internal/repos"
)

type ReportFormat string

const (
	FormatXLSX ReportFormat = "excel"
	FormatPDF  ReportFormat = "pdf"
	FormatCSV  ReportFormat = "csv"
)

// pdfLimit caps the PDF export to the most recent sales.
const pdfLimit = 100

type ReportService struct {
	Sales    *repos.SaleRepo
	Location *time.Location
	Now      func() time.Time
}

func NewReportService(sales *repos.SaleRepo, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{Sales: sales, Location: loc, Now: time.Now}
}

// Rows reads sales newest first. limit <= 0 reads the whole collection.
func (s *ReportService) Rows(ctx context.Context, limit int) ([]report.Row, error) {
	rows := []report.Row{}
	err := s.Sales.Each(ctx, limit, func(sale domain.Sale) error {
		rows = append(rows, report.FromSale(sale))
		return nil
	})
	return rows, err
}

// Export renders the sales report in the given format.
func (s *ReportService) Export(ctx context.Context, f ReportFormat, w io.Writer) error {
	switch f {
	case FormatXLSX:
		rows, err := s.Rows(ctx, 0)
		if err != nil {
			return err
		}
		return report.WriteXLSX(w, rows)
	case FormatPDF:
		rows, err := s.Rows(ctx, pdfLimit)
		if err != nil {
			return err
		}
		return report.WritePDF(w, rows, s.Now().In(s.Location))
	case FormatCSV:
		rows, err := s.Rows(ctx, 0)
		if err != nil {
			return err
		}
		return report.WriteCSV(w, rows)
	}
	return fmt.Errorf("%w: unknown report format %q", ErrInvalidRequest, f)
}
