package services

import (
	"context"
	"errors"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// Facility errors
var (
	ErrFacilityNotFound = errors.New("facility not found")
)

// nearbyRadiusDegrees approximates a ~2km box at Indian latitudes
const nearbyRadiusDegrees = 0.02

// FacilityService serves public facilities and cleanliness ratings
type FacilityService struct {
	facilityRepo repositories.FacilityRepository
}

// NewFacilityService creates a new facility service
func NewFacilityService(facilityRepo repositories.FacilityRepository) *FacilityService {
	return &FacilityService{facilityRepo: facilityRepo}
}

// List returns active facilities, optionally filtered by type
func (s *FacilityService) List(ctx context.Context, facilityType string) ([]*models.Facility, error) {
	return s.facilityRepo.List(ctx, facilityType)
}

// GetByID returns one facility with its recent ratings
func (s *FacilityService) GetByID(ctx context.Context, id uint) (*models.Facility, []*models.FacilityRating, error) {
	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrFacilityNotFound
		}
		return nil, nil, err
	}
	ratings, err := s.facilityRepo.RecentRatings(ctx, id, 10)
	if err != nil {
		return nil, nil, err
	}
	return facility, ratings, nil
}

// Nearby returns facilities inside a bounding box around a point
func (s *FacilityService) Nearby(ctx context.Context, lat, lng float64) ([]*models.Facility, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, domain.NewValidationError("location", "coordinates out of range")
	}
	return s.facilityRepo.ListInBounds(ctx,
		lat-nearbyRadiusDegrees, lat+nearbyRadiusDegrees,
		lng-nearbyRadiusDegrees, lng+nearbyRadiusDegrees)
}

// RateInput carries one cleanliness rating
type RateInput struct {
	CleanlinessRating int    `json:"cleanliness_rating"`
	Comment           string `json:"comment,omitempty"`
	IsAnonymous       bool   `json:"is_anonymous,omitempty"`
}

// Rate records a cleanliness rating for a facility
func (s *FacilityService) Rate(ctx context.Context, facilityID uint, actor *domain.Actor, ipAddress string, input *RateInput) (*models.FacilityRating, error) {
	if input.CleanlinessRating < 1 || input.CleanlinessRating > 5 {
		return nil, domain.NewValidationError("cleanliness_rating", "must be between 1 and 5")
	}
	if _, err := s.facilityRepo.GetByID(ctx, facilityID); err != nil {
		return nil, ErrFacilityNotFound
	}

	rating := &models.FacilityRating{
		FacilityID:        facilityID,
		CleanlinessRating: input.CleanlinessRating,
		Comment:           input.Comment,
		IsAnonymous:       input.IsAnonymous,
		IPAddress:         ipAddress,
	}
	if actor != nil && actor.UserID != 0 && !input.IsAnonymous {
		userID := actor.UserID
		rating.UserID = &userID
	}

	if err := s.facilityRepo.CreateRating(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}
