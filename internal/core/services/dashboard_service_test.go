package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsaathi/internal/adapters/persistence/models"
)

func TestDashboardOverview(t *testing.T) {
	complaintRepo := newFakeComplaintRepo()
	masterRepo := newFakeMasterRepo()
	clock := &fixedClock{now: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	service := NewDashboardService(complaintRepo, masterRepo, clock)

	masterRepo.departments[1] = &models.Department{ID: 1, Name: "Sanitation"}

	deptID := uint(1)
	categoryID := uint(1)
	category := &models.ComplaintCategory{
		ID: 1, Name: "Garbage not collected", DepartmentID: 1,
		SLA: &models.SLAConfig{CategoryID: 1, ResolutionHours: 24, EscalationHours: 48},
	}

	seed := func(status string, age time.Duration, workerID *uint, resolvedAt *time.Time) {
		complaint := &models.Complaint{
			CitizenID:       100,
			CategoryID:      &categoryID,
			DepartmentID:    &deptID,
			Title:           "Seeded complaint for dashboard",
			Description:     "A complaint row seeded directly into the fake store.",
			Location:        "Ward 12",
			Priority:        1,
			Status:          status,
			CurrentWorkerID: workerID,
			ResolvedAt:      resolvedAt,
			CreatedAt:       clock.now.Add(-age),
			Category:        category,
		}
		require.NoError(t, complaintRepo.Create(context.Background(), complaint, nil))
	}

	workerID := uint(1)
	resolvedAt := clock.now.Add(-time.Hour)
	seed("pending", 2*time.Hour, nil, nil)          // on track
	seed("pending", 30*time.Hour, &workerID, nil)   // assigned stage, SLA due
	seed("in_progress", 50*time.Hour, nil, nil)     // SLA overdue
	seed("escalated", 60*time.Hour, nil, nil)       // already escalated, not open
	seed("resolved", 80*time.Hour, nil, &resolvedAt)

	overview, err := service.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.Departments, 1)

	flow := overview.Departments[0]
	assert.Equal(t, "Sanitation", flow.DepartmentName)
	assert.Equal(t, int64(2), flow.Pending)
	assert.Equal(t, int64(1), flow.AssignedStage)
	assert.Equal(t, int64(1), flow.InProgress)
	assert.Equal(t, int64(1), flow.Escalated)
	assert.Equal(t, int64(1), flow.ResolvedToday)
	assert.Equal(t, int64(5), flow.Total)
	assert.Equal(t, int64(1), flow.SLADue)
	assert.Equal(t, int64(1), flow.SLAOverdue)
	assert.Equal(t, clock.now, overview.GeneratedAt)
}
