package services

import (
	"context"
	"errors"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// Master data errors
var (
	ErrDepartmentNotFound = errors.New("department not found")
)

// MasterService serves departments, categories and SLA configuration
type MasterService struct {
	masterRepo repositories.MasterRepository
}

// NewMasterService creates a new master service
func NewMasterService(masterRepo repositories.MasterRepository) *MasterService {
	return &MasterService{masterRepo: masterRepo}
}

// ListDepartments returns all active departments
func (s *MasterService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.masterRepo.ListDepartments(ctx)
}

// ListCategories returns all active categories with department and SLA
func (s *MasterService) ListCategories(ctx context.Context) ([]*models.ComplaintCategory, error) {
	return s.masterRepo.ListCategories(ctx)
}

// GetCategory returns one category
func (s *MasterService) GetCategory(ctx context.Context, id uint) (*models.ComplaintCategory, error) {
	category, err := s.masterRepo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// SLAConfigInput carries SLA thresholds for a category
type SLAConfigInput struct {
	CategoryID      uint `json:"category_id"`
	ResolutionHours int  `json:"resolution_hours"`
	EscalationHours int  `json:"escalation_hours"`
}

// SaveSLAConfig creates or replaces the SLA config of a category.
// escalation_hours must exceed resolution_hours or the due window
// would be empty.
func (s *MasterService) SaveSLAConfig(ctx context.Context, input *SLAConfigInput) (*models.SLAConfig, error) {
	if input.ResolutionHours <= 0 {
		return nil, domain.NewValidationError("resolution_hours", "must be positive")
	}
	if input.EscalationHours <= input.ResolutionHours {
		return nil, domain.NewValidationError("escalation_hours", "must be greater than resolution_hours")
	}

	if _, err := s.masterRepo.GetCategory(ctx, input.CategoryID); err != nil {
		return nil, ErrCategoryNotFound
	}

	sla := &models.SLAConfig{
		CategoryID:      input.CategoryID,
		ResolutionHours: input.ResolutionHours,
		EscalationHours: input.EscalationHours,
	}
	if err := s.masterRepo.SaveSLAConfig(ctx, sla); err != nil {
		return nil, err
	}
	return sla, nil
}
