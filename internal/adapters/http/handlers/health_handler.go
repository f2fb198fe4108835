package handlers

import (
	"time"

	"civicsaathi/internal/config"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startTime time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startTime: time.Now()}
}

// Check returns service liveness and database health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
	}

	return response.Success(c, "OK", fiber.Map{
		"status":   "healthy",
		"database": dbStatus,
		"uptime":   time.Since(h.startTime).String(),
	})
}

// Root returns basic service information
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "CivicSaathi Citizen Services API", fiber.Map{
		"service": "civicsaathi",
		"docs":    "/swagger/index.html",
	})
}

// APIInfo returns the API version banner
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return response.Success(c, "CivicSaathi API v1", fiber.Map{
		"version": "v1",
	})
}
