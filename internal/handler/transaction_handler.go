package handler

import (
	"errors"
	"strconv"

	"sinfoni-api/internal/service"
	"sinfoni-api/pkg/slug"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	txService service.TransactionService
	codec     *slug.Codec
}

func NewTransactionHandler(txService service.TransactionService, codec *slug.Codec) *TransactionHandler {
	return &TransactionHandler{txService: txService, codec: codec}
}

// Create submits a new transaction note.
// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req service.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	result, err := h.txService.Submit(&req, currentActor(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateInvoice):
			return c.Status(409).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, service.ErrAmountMismatch):
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Transaction submitted successfully",
		"data":    result,
	})
}

// List pages through transactions with optional filters.
// GET /api/v1/transactions
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	filters := service.ListFilters{
		Status:    c.Query("status"),
		StartDate: c.Query("start_date", c.Query("startDate")),
		EndDate:   c.Query("end_date", c.Query("endDate")),
		Query:     c.Query("q"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}
	if raw := c.Query("dealer_id", c.Query("dealerId")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid dealer ID"})
		}
		filters.DealerID = uint(parsed)
	}

	result, err := h.txService.List(filters, currentActor(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching transactions"})
	}
	return c.JSON(result)
}

// Get returns one transaction detail addressed by slug. An undecodable
// slug is indistinguishable from a missing row.
// GET /api/v1/transactions/:slug
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, ok := h.codec.DecodeID(c.Params("slug"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"message": "Transaction not found"})
	}

	detail, err := h.txService.Detail(id)
	if err != nil {
		if errors.Is(err, service.ErrTrxNotFound) {
			return c.Status(404).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching transaction"})
	}
	return c.JSON(detail)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus moves a transaction to a new status and appends history.
// PUT /api/v1/transactions/:slug/status
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := h.codec.DecodeID(c.Params("slug"))
	if !ok {
		return c.Status(404).JSON(fiber.Map{"message": "Transaction not found"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	if err := h.txService.UpdateStatus(id, req.Status, req.Notes, currentActor(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrTrxNotFound):
			return c.Status(404).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"message": "Error updating status"})
		}
	}

	return c.JSON(fiber.Map{"message": "Status updated successfully"})
}
