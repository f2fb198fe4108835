package services

import (
	"context"
	"errors"
	"log"
	"time"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// Attendance errors
var (
	ErrNotDepartmentWorker = errors.New("worker does not belong to your department")
)

// AttendanceService handles worker attendance marking and the daily
// auto-absent batch.
type AttendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	staffRepo      repositories.StaffRepository
	masterRepo     repositories.MasterRepository
	clock          Clock
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	staffRepo repositories.StaffRepository,
	masterRepo repositories.MasterRepository,
	clock Clock,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		staffRepo:      staffRepo,
		masterRepo:     masterRepo,
		clock:          clock,
	}
}

// MarkInput carries one attendance record
type MarkInput struct {
	WorkerID uint   `json:"worker_id"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Mark records today's attendance for a worker. Officers may only mark
// workers in their own department; one row per worker per day, later
// calls replace earlier ones.
func (s *AttendanceService) Mark(ctx context.Context, actor *domain.Actor, input *MarkInput) (*models.WorkerAttendance, error) {
	if !domain.AttendanceStatus(input.Status).IsValid() {
		return nil, domain.NewValidationError("status", "unrecognized value")
	}

	worker, err := s.staffRepo.GetWorkerByID(ctx, input.WorkerID)
	if err != nil {
		return nil, ErrWorkerNotFound
	}

	if actor.Role == domain.RoleOfficer {
		officer, err := s.staffRepo.GetOfficerByID(ctx, actor.OfficerID)
		if err != nil {
			return nil, ErrOfficerNotFound
		}
		if officer.DepartmentID != worker.DepartmentID {
			return nil, ErrNotDepartmentWorker
		}
	}

	today := truncateToDate(s.clock.Now())
	att := &models.WorkerAttendance{
		WorkerID: worker.ID,
		Date:     today,
		Status:   input.Status,
		Location: input.Location,
		Notes:    input.Notes,
	}
	if input.CheckIn != "" {
		att.CheckIn = &input.CheckIn
	}
	if input.CheckOut != "" {
		att.CheckOut = &input.CheckOut
	}
	if actor.UserID != 0 {
		userID := actor.UserID
		att.MarkedByID = &userID
	}

	if err := s.attendanceRepo.Upsert(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// ListForDepartment returns a department's attendance records for a date.
// An unknown department is an error, not an empty sheet.
func (s *AttendanceService) ListForDepartment(ctx context.Context, deptID uint, date time.Time) ([]*models.WorkerAttendance, error) {
	if _, err := s.masterRepo.GetDepartment(ctx, deptID); err != nil {
		return nil, ErrDepartmentNotFound
	}

	workers, err := s.staffRepo.ListWorkersByDepartment(ctx, deptID, false)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return s.attendanceRepo.ListForDate(ctx, ids, truncateToDate(date))
}

// MarkAbsentees writes an absent row for every active worker with no
// attendance record today. Run daily by the cron after close of shift.
func (s *AttendanceService) MarkAbsentees(ctx context.Context) (int, error) {
	workers, err := s.staffRepo.ListActiveWorkers(ctx)
	if err != nil {
		return 0, err
	}

	today := truncateToDate(s.clock.Now())
	marked := 0
	for _, worker := range workers {
		exists, err := s.attendanceRepo.Exists(ctx, worker.ID, today)
		if err != nil {
			log.Printf("❌ Auto-absent check failed for worker %d: %v", worker.ID, err)
			continue
		}
		if exists {
			continue
		}
		att := &models.WorkerAttendance{
			WorkerID: worker.ID,
			Date:     today,
			Status:   string(domain.AttendanceAbsent),
			Notes:    "Auto-marked absent: no attendance recorded",
		}
		if err := s.attendanceRepo.Create(ctx, att); err != nil {
			log.Printf("❌ Auto-absent insert failed for worker %d: %v", worker.ID, err)
			continue
		}
		marked++
	}

	log.Printf("✅ Auto-absent batch: %d workers marked", marked)
	return marked, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
