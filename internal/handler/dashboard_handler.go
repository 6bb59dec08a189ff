package handler

import (
	"sinfoni-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns status widgets, the monthly trend, and recent notes
// scoped to the caller.
// GET /api/v1/dashboard
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	data, err := h.dashboardService.Overview(currentActor(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Error fetching dashboard"})
	}
	return c.JSON(data)
}
