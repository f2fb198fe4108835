package repositories

import (
	"context"
	"time"

	"civicsaathi/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// MasterRepository covers departments, categories and SLA configs
type MasterRepository interface {
	ListDepartments(ctx context.Context) ([]*models.Department, error)
	GetDepartment(ctx context.Context, id uint) (*models.Department, error)
	ListCategories(ctx context.Context) ([]*models.ComplaintCategory, error)
	GetCategory(ctx context.Context, id uint) (*models.ComplaintCategory, error)
	SaveSLAConfig(ctx context.Context, sla *models.SLAConfig) error
}

// StaffRepository covers officers and workers
type StaffRepository interface {
	GetOfficerByID(ctx context.Context, id uint) (*models.Officer, error)
	GetOfficerByUserID(ctx context.Context, userID uint) (*models.Officer, error)
	GetWorkerByID(ctx context.Context, id uint) (*models.Worker, error)
	GetWorkerByUserID(ctx context.Context, userID uint) (*models.Worker, error)
	ListWorkersByDepartment(ctx context.Context, deptID uint, activeOnly bool) ([]*models.Worker, error)
	ListActiveWorkers(ctx context.Context) ([]*models.Worker, error)
	// FindEscalationTarget picks the escalation recipient for a department:
	// rank senior first, then head, then any other officer excluding the
	// current one. Returns (nil, nil) when the department has no candidate.
	FindEscalationTarget(ctx context.Context, deptID uint, excludeOfficerID uint) (*models.Officer, error)
}

// ComplaintRepository is the entity store for the complaint aggregate.
// ApplyTransition is the single write path for state-machine operations:
// a version-guarded complaint update plus its audit/history rows, all in
// one transaction.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint, initialLog *models.ComplaintLog) error
	GetByID(ctx context.Context, id uint) (*models.Complaint, error)
	ListByCitizen(ctx context.Context, citizenID uint, status string) ([]*models.Complaint, error)
	ListByDepartment(ctx context.Context, deptID uint, offset, limit int) ([]*models.Complaint, int64, error)
	ListOpen(ctx context.Context) ([]*models.Complaint, error)
	ApplyTransition(ctx context.Context, complaintID, version uint, updates map[string]interface{},
		log *models.ComplaintLog, assignment *models.Assignment, escalation *models.ComplaintEscalation) error
	GetLogs(ctx context.Context, complaintID uint) ([]*models.ComplaintLog, error)
	CountByCitizen(ctx context.Context, citizenID uint, statuses []string) (int64, error)
	CountByDepartment(ctx context.Context, deptID uint, status string) (int64, error)
	CountAssignedStage(ctx context.Context, deptID uint) (int64, error)
	CountResolvedSince(ctx context.Context, deptID uint, since time.Time) (int64, error)
}

// EscalationRepository reads escalation history
type EscalationRepository interface {
	HasEscalationSince(ctx context.Context, complaintID uint, since time.Time) (bool, error)
	ListByComplaint(ctx context.Context, complaintID uint) ([]*models.ComplaintEscalation, error)
}

// AttendanceRepository covers worker attendance records
type AttendanceRepository interface {
	Upsert(ctx context.Context, att *models.WorkerAttendance) error
	Create(ctx context.Context, att *models.WorkerAttendance) error
	Exists(ctx context.Context, workerID uint, date time.Time) (bool, error)
	ListForDate(ctx context.Context, workerIDs []uint, date time.Time) ([]*models.WorkerAttendance, error)
}

// FacilityRepository covers facilities and their ratings
type FacilityRepository interface {
	List(ctx context.Context, facilityType string) ([]*models.Facility, error)
	GetByID(ctx context.Context, id uint) (*models.Facility, error)
	ListInBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*models.Facility, error)
	CreateRating(ctx context.Context, rating *models.FacilityRating) error
	RecentRatings(ctx context.Context, facilityID uint, limit int) ([]*models.FacilityRating, error)
}
