package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

func newAttendanceFixture() (*AttendanceService, *fakeAttendanceRepo, *fakeStaffRepo, *fixedClock) {
	attendanceRepo := newFakeAttendanceRepo()
	staffRepo := newFakeStaffRepo()
	masterRepo := newFakeMasterRepo()
	clock := &fixedClock{now: time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)}

	masterRepo.departments[1] = &models.Department{ID: 1, Name: "Sanitation", IsActive: true}
	masterRepo.departments[2] = &models.Department{ID: 2, Name: "Roads", IsActive: true}
	staffRepo.officers[1] = &models.Officer{ID: 1, UserID: 10, DepartmentID: 1, Rank: "junior"}
	staffRepo.workers[1] = &models.Worker{ID: 1, UserID: 20, DepartmentID: 1, IsActive: true}
	staffRepo.workers[2] = &models.Worker{ID: 2, UserID: 21, DepartmentID: 2, IsActive: true}

	return NewAttendanceService(attendanceRepo, staffRepo, masterRepo, clock), attendanceRepo, staffRepo, clock
}

func TestMarkAttendance(t *testing.T) {
	service, repo, _, clock := newAttendanceFixture()
	officer := &domain.Actor{UserID: 10, Role: domain.RoleOfficer, OfficerID: 1}

	record, err := service.Mark(context.Background(), officer, &MarkInput{
		WorkerID: 1,
		Status:   "present",
		CheckIn:  "09:05",
	})
	require.NoError(t, err)
	assert.Equal(t, "present", record.Status)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), record.Date)
	require.NotNil(t, record.CheckIn)
	assert.Equal(t, "09:05", *record.CheckIn)
	require.NotNil(t, record.MarkedByID)
	assert.Equal(t, uint(10), *record.MarkedByID)

	// Later call the same day replaces the record
	updated, err := service.Mark(context.Background(), officer, &MarkInput{
		WorkerID: 1,
		Status:   "half_day",
	})
	require.NoError(t, err)
	assert.Equal(t, "half_day", updated.Status)

	stored, _ := repo.ListForDate(context.Background(), []uint{1}, clock.now)
	require.Len(t, stored, 1)
	assert.Equal(t, "half_day", stored[0].Status)
}

func TestMarkAttendanceRejections(t *testing.T) {
	service, _, _, _ := newAttendanceFixture()
	officer := &domain.Actor{UserID: 10, Role: domain.RoleOfficer, OfficerID: 1}

	_, err := service.Mark(context.Background(), officer, &MarkInput{WorkerID: 1, Status: "late"})
	assert.True(t, domain.IsValidation(err), "unknown status is rejected")

	_, err = service.Mark(context.Background(), officer, &MarkInput{WorkerID: 99, Status: "present"})
	assert.ErrorIs(t, err, ErrWorkerNotFound)

	// Worker 2 belongs to a different department than officer 1
	_, err = service.Mark(context.Background(), officer, &MarkInput{WorkerID: 2, Status: "present"})
	assert.ErrorIs(t, err, ErrNotDepartmentWorker)
}

func TestMarkAttendanceAdminBypassesDepartmentCheck(t *testing.T) {
	service, _, _, _ := newAttendanceFixture()
	admin := &domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	_, err := service.Mark(context.Background(), admin, &MarkInput{WorkerID: 2, Status: "present"})
	assert.NoError(t, err)
}

func TestListForDepartmentUnknownDepartment(t *testing.T) {
	service, _, _, clock := newAttendanceFixture()

	_, err := service.ListForDepartment(context.Background(), 99, clock.now)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestMarkAbsentees(t *testing.T) {
	service, repo, _, clock := newAttendanceFixture()
	officer := &domain.Actor{UserID: 10, Role: domain.RoleOfficer, OfficerID: 1}

	// Worker 1 already has a record today
	_, err := service.Mark(context.Background(), officer, &MarkInput{WorkerID: 1, Status: "present"})
	require.NoError(t, err)

	marked, err := service.MarkAbsentees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, marked, "only the unrecorded worker is auto-marked")

	records, _ := repo.ListForDate(context.Background(), []uint{1, 2}, clock.now)
	require.Len(t, records, 2)
	for _, r := range records {
		if r.WorkerID == 1 {
			assert.Equal(t, "present", r.Status, "existing records are never overwritten")
		} else {
			assert.Equal(t, "absent", r.Status)
			assert.Equal(t, "Auto-marked absent: no attendance recorded", r.Notes)
		}
	}

	// Idempotent on rerun
	marked, err = service.MarkAbsentees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, marked)
}
