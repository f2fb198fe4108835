package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

func TestSaveSLAConfig(t *testing.T) {
	masterRepo := newFakeMasterRepo()
	masterRepo.categories[1] = &models.ComplaintCategory{ID: 1, Name: "Garbage not collected", DepartmentID: 1}
	service := NewMasterService(masterRepo)
	ctx := context.Background()

	sla, err := service.SaveSLAConfig(ctx, &SLAConfigInput{
		CategoryID:      1,
		ResolutionHours: 24,
		EscalationHours: 48,
	})
	require.NoError(t, err)
	assert.Equal(t, 24, sla.ResolutionHours)
	assert.Equal(t, 48, sla.EscalationHours)

	stored, ok := masterRepo.slaConfigs[1]
	require.True(t, ok)
	assert.Equal(t, 48, stored.EscalationHours)
}

func TestSaveSLAConfigValidation(t *testing.T) {
	masterRepo := newFakeMasterRepo()
	masterRepo.categories[1] = &models.ComplaintCategory{ID: 1, Name: "Garbage not collected", DepartmentID: 1}
	service := NewMasterService(masterRepo)
	ctx := context.Background()

	_, err := service.SaveSLAConfig(ctx, &SLAConfigInput{CategoryID: 1, ResolutionHours: 0, EscalationHours: 48})
	assert.True(t, domain.IsValidation(err), "resolution_hours must be positive")

	_, err = service.SaveSLAConfig(ctx, &SLAConfigInput{CategoryID: 1, ResolutionHours: 24, EscalationHours: 24})
	assert.True(t, domain.IsValidation(err), "escalation window must not be empty")

	_, err = service.SaveSLAConfig(ctx, &SLAConfigInput{CategoryID: 9, ResolutionHours: 24, EscalationHours: 48})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
