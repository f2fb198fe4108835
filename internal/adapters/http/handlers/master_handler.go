package handlers

import (
	"errors"

	"civicsaathi/internal/core/domain"
	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints
type MasterHandler struct {
	masterService *services.MasterService
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(masterService *services.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// ListDepartments returns all active departments
// @Summary List departments
// @Tags Masters
// @Produce json
// @Success 200 {object} response.Response
// @Router /departments [get]
func (h *MasterHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.masterService.ListDepartments(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load departments")
	}
	return response.Success(c, "Departments retrieved", departments)
}

// ListCategories returns all active complaint categories
// @Summary List complaint categories
// @Tags Masters
// @Produce json
// @Success 200 {object} response.Response
// @Router /categories [get]
func (h *MasterHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.masterService.ListCategories(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load categories")
	}
	return response.Success(c, "Categories retrieved", categories)
}

// SLAConfigRequest carries SLA thresholds for a category
type SLAConfigRequest struct {
	CategoryID      uint `json:"category_id"`
	ResolutionHours int  `json:"resolution_hours"`
	EscalationHours int  `json:"escalation_hours"`
}

// SaveSLAConfig creates or replaces a category's SLA config
// @Summary Configure category SLA
// @Tags Masters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SLAConfigRequest true "SLA thresholds"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/sla-configs [put]
func (h *MasterHandler) SaveSLAConfig(c *fiber.Ctx) error {
	var req SLAConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CategoryID == 0 {
		return response.BadRequest(c, "Category ID is required")
	}

	sla, err := h.masterService.SaveSLAConfig(c.Context(), &services.SLAConfigInput{
		CategoryID:      req.CategoryID,
		ResolutionHours: req.ResolutionHours,
		EscalationHours: req.EscalationHours,
	})
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.BadRequest(c, vErr.Error())
		case errors.Is(err, services.ErrCategoryNotFound):
			return response.NotFound(c, "Category not found")
		default:
			return response.InternalServerError(c, "Failed to save SLA config")
		}
	}
	return response.Success(c, "SLA config saved", sla)
}
