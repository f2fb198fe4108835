package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
)

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository instance
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert writes one attendance row per worker per day, replacing the
// status fields when the row already exists.
func (r *attendanceRepository) Upsert(ctx context.Context, att *models.WorkerAttendance) error {
	var existing models.WorkerAttendance
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date = ?", att.WorkerID, att.Date.Format("2006-01-02")).
		First(&existing).Error
	if err == nil {
		att.ID = existing.ID
		att.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(att).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(att).Error
	}
	return err
}

func (r *attendanceRepository) Create(ctx context.Context, att *models.WorkerAttendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *attendanceRepository) Exists(ctx context.Context, workerID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WorkerAttendance{}).
		Where("worker_id = ? AND date = ?", workerID, date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepository) ListForDate(ctx context.Context, workerIDs []uint, date time.Time) ([]*models.WorkerAttendance, error) {
	var records []*models.WorkerAttendance
	q := r.db.WithContext(ctx).Where("date = ?", date.Format("2006-01-02"))
	if len(workerIDs) > 0 {
		q = q.Where("worker_id IN ?", workerIDs)
	}
	err := q.Order("worker_id ASC").Find(&records).Error
	return records, err
}
