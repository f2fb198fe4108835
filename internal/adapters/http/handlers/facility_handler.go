package handlers

import (
	"errors"
	"strconv"

	"civicsaathi/internal/adapters/http/middleware"
	"civicsaathi/internal/core/domain"
	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FacilityHandler handles public facility endpoints
type FacilityHandler struct {
	facilityService *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityService *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

// List returns active facilities
// @Summary List facilities
// @Tags Facilities
// @Produce json
// @Param type query string false "Filter by facility type"
// @Success 200 {object} response.Response
// @Router /facilities [get]
func (h *FacilityHandler) List(c *fiber.Ctx) error {
	facilities, err := h.facilityService.List(c.Context(), c.Query("type"))
	if err != nil {
		return response.InternalServerError(c, "Failed to load facilities")
	}
	return response.Success(c, "Facilities retrieved", facilities)
}

// Get returns one facility with recent ratings
// @Summary Get facility detail
// @Tags Facilities
// @Produce json
// @Param id path int true "Facility ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /facilities/{id} [get]
func (h *FacilityHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid facility ID")
	}

	facility, ratings, err := h.facilityService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrFacilityNotFound) {
			return response.NotFound(c, "Facility not found")
		}
		return response.InternalServerError(c, "Failed to load facility")
	}
	return response.Success(c, "Facility retrieved", fiber.Map{
		"facility":       facility,
		"recent_ratings": ratings,
	})
}

// Nearby returns facilities around a coordinate
// @Summary Find nearby facilities
// @Tags Facilities
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Success 200 {object} response.Response
// @Router /facilities/nearby [get]
func (h *FacilityHandler) Nearby(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return response.BadRequest(c, "lat and lng query parameters are required")
	}

	facilities, err := h.facilityService.Nearby(c.Context(), lat, lng)
	if err != nil {
		if domain.IsValidation(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to load facilities")
	}
	return response.Success(c, "Facilities retrieved", facilities)
}

// RateRequest carries a cleanliness rating
type RateRequest struct {
	CleanlinessRating int    `json:"cleanliness_rating"`
	Comment           string `json:"comment"`
	IsAnonymous       bool   `json:"is_anonymous"`
}

// Rate records a cleanliness rating
// @Summary Rate a facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path int true "Facility ID"
// @Param body body RateRequest true "Rating"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /facilities/{id}/ratings [post]
func (h *FacilityHandler) Rate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid facility ID")
	}
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	rating, err := h.facilityService.Rate(c.Context(), uint(id), middleware.GetActor(c), c.IP(), &services.RateInput{
		CleanlinessRating: req.CleanlinessRating,
		Comment:           req.Comment,
		IsAnonymous:       req.IsAnonymous,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrFacilityNotFound):
			return response.NotFound(c, "Facility not found")
		default:
			return response.InternalServerError(c, "Failed to save rating")
		}
	}
	return response.Created(c, "Rating recorded", rating)
}
