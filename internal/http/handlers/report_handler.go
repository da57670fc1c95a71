package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

var exportTypes = map[services.ReportFormat]struct{ mime, file string }{
	services.FormatXLSX: {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "Sales_Report.xlsx"},
	services.FormatPDF:  {"application/pdf", "Sales_Report.pdf"},
	services.FormatCSV:  {"text/csv; charset=utf-8", "Sales_Report.csv"},
}

// GET /export/:format
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	f := services.ReportFormat(c.Params("format"))
	t, ok := exportTypes[f]
	if !ok {
		return notFound(c, "Unknown report format")
	}
	// Render fully before sending so a failure never yields a truncated file.
	var buf bytes.Buffer
	if err := h.Reports.Export(c.UserContext(), f, &buf); err != nil {
		applog.Error(c, "report.export.fail", err, map[string]any{"format": string(f)})
		return c.Status(fiber.StatusInternalServerError).SendString("Error exporting report")
	}
	applog.Audit(c, "report.export", map[string]any{"format": string(f), "bytes": buf.Len()})
	c.Set(fiber.HeaderContentType, t.mime)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+t.file)
	return c.Send(buf.Bytes())
}
