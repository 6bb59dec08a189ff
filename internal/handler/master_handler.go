package handler

import (
	"errors"
	"strconv"

	"sinfoni-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MasterHandler struct {
	masterService service.MasterService
}

func NewMasterHandler(masterService service.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// GetBarang lists the item catalog.
// GET /api/v1/master/barang
func (h *MasterHandler) GetBarang(c *fiber.Ctx) error {
	items, err := h.masterService.ListBarang()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching items"})
	}
	return c.JSON(items)
}

// CreateBarang adds a catalog item.
// POST /api/v1/master/barang
func (h *MasterHandler) CreateBarang(c *fiber.Ctx) error {
	var req service.CreateBarangRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	barang, err := h.masterService.CreateBarang(&req)
	if err != nil {
		if errors.Is(err, service.ErrCodeTaken) {
			return c.Status(400).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(201).JSON(barang)
}

// GetDealers lists dealers visible to the caller.
// GET /api/v1/master/dealers
func (h *MasterHandler) GetDealers(c *fiber.Ctx) error {
	dealers, err := h.masterService.ListDealers(currentActor(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching dealers"})
	}
	return c.JSON(dealers)
}

// CreateDealer adds a dealer.
// POST /api/v1/master/dealers
func (h *MasterHandler) CreateDealer(c *fiber.Ctx) error {
	var req service.CreateDealerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	dealer, err := h.masterService.CreateDealer(&req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(201).JSON(dealer)
}

// GetPrices lists price history, optionally for one item.
// GET /api/v1/master/prices?barangId=N
func (h *MasterHandler) GetPrices(c *fiber.Ctx) error {
	var barangID uint
	if raw := c.Query("barangId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid barang ID"})
		}
		barangID = uint(parsed)
	}

	prices, err := h.masterService.ListPrices(barangID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching prices"})
	}
	return c.JSON(prices)
}

// CreatePrice records a new effective-dated price for an item.
// POST /api/v1/master/prices
func (h *MasterHandler) CreatePrice(c *fiber.Ctx) error {
	var req service.CreatePriceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	price, err := h.masterService.CreatePrice(&req)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(201).JSON(price)
}

type SuggestionRequest struct {
	Guesses []service.OCRGuess `json:"guesses"`
}

// SuggestItems matches OCR guesses against the catalog.
// POST /api/v1/ocr/suggestions
func (h *MasterHandler) SuggestItems(c *fiber.Ctx) error {
	var req SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid JSON"})
	}

	suggestions, err := h.masterService.SuggestItems(req.Guesses)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error building suggestions"})
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}
