package handler

import (
	"errors"
	"fmt"
	"time"

	"sinfoni-api/internal/service"
	"sinfoni-api/pkg/slug"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
	codec         *slug.Codec
}

func NewReportHandler(reportService service.ReportService, codec *slug.Codec) *ReportHandler {
	return &ReportHandler{reportService: reportService, codec: codec}
}

// Export streams all transactions as an xlsx workbook.
// GET /api/v1/reports/transactions/export
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	data, err := h.reportService.ExportTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error generating export"})
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}

// Print streams one transaction as a PDF invoice.
// GET /api/v1/reports/transactions/:slug/print
func (h *ReportHandler) Print(c *fiber.Ctx) error {
	id, ok := h.codec.DecodeID(c.Params("slug"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"message": "Transaction not found"})
	}

	data, filename, err := h.reportService.PrintTransaction(id)
	if err != nil {
		if errors.Is(err, service.ErrTrxNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"message": "Error generating invoice"})
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(data)
}
