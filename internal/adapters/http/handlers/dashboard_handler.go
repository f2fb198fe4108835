package handlers

import (
	"log"

	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin overview and maintenance endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	sweepService     *services.SweepService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, sweepService *services.SweepService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		sweepService:     sweepService,
	}
}

// Overview returns per-department complaint flow and SLA counts
// @Summary Operations dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.Overview(c.Context())
	if err != nil {
		log.Printf("❌ Dashboard overview failed: %v", err)
		return response.InternalServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved", overview)
}

// TriggerSweep runs one SLA escalation sweep on demand
// @Summary Run SLA sweep now
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/sweep [post]
func (h *DashboardHandler) TriggerSweep(c *fiber.Ctx) error {
	result, err := h.sweepService.Sweep(c.Context())
	if err != nil {
		log.Printf("❌ Manual sweep failed: %v", err)
		return response.InternalServerError(c, "Sweep failed")
	}
	return response.Success(c, "Sweep completed", result)
}
