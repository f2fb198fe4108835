package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new complaint repository instance
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint, initialLog *models.ComplaintLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(complaint).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrDuplicateEntry
			}
			return err
		}
		if initialLog != nil {
			initialLog.ComplaintID = complaint.ID
			if err := tx.Create(initialLog).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *complaintRepository) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Category.SLA").
		Preload("Department").
		Preload("CurrentOfficer").
		Preload("CurrentOfficer.User").
		Preload("CurrentWorker").
		Preload("CurrentWorker.User").
		First(&complaint, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListByCitizen(ctx context.Context, citizenID uint, status string) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Department").
		Where("citizen_id = ? AND is_deleted = ?", citizenID, false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ListByDepartment(ctx context.Context, deptID uint, offset, limit int) ([]*models.Complaint, int64, error) {
	var complaints []*models.Complaint
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("department_id = ? AND is_deleted = ?", deptID, false)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("CurrentOfficer").
		Preload("CurrentWorker").
		Where("department_id = ? AND is_deleted = ?", deptID, false).
		Order("priority DESC, created_at ASC").
		Offset(offset).Limit(limit).
		Find(&complaints).Error
	return complaints, total, err
}

// ListOpen returns complaints eligible for the escalation sweep: pending or
// in_progress, not deleted, not spam. SLA config comes preloaded so the
// sweeper never issues per-item queries.
func (r *complaintRepository) ListOpen(ctx context.Context) ([]*models.Complaint, error) {
	var complaints []*models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Category.SLA").
		Preload("Department").
		Preload("CurrentOfficer").
		Preload("CurrentOfficer.User").
		Where("status IN ? AND is_deleted = ? AND is_spam = ?",
			[]string{string(domain.StatusPending), string(domain.StatusInProgress)}, false, false).
		Order("created_at ASC").
		Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepository) ApplyTransition(ctx context.Context, complaintID, version uint, updates map[string]interface{},
	log *models.ComplaintLog, assignment *models.Assignment, escalation *models.ComplaintEscalation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates["version"] = version + 1
		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND version = ?", complaintID, version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrVersionConflict
		}
		if log != nil {
			log.ComplaintID = complaintID
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		if assignment != nil {
			assignment.ComplaintID = complaintID
			if err := tx.Create(assignment).Error; err != nil {
				return err
			}
		}
		if escalation != nil {
			escalation.ComplaintID = complaintID
			if err := tx.Create(escalation).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *complaintRepository) GetLogs(ctx context.Context, complaintID uint) ([]*models.ComplaintLog, error) {
	var logs []*models.ComplaintLog
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}

func (r *complaintRepository) CountByDepartment(ctx context.Context, deptID uint, status string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("department_id = ? AND is_deleted = ?", deptID, false)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

// CountAssignedStage counts pending complaints that already have a
// worker, the display-only "assigned" stage.
func (r *complaintRepository) CountAssignedStage(ctx context.Context, deptID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("department_id = ? AND is_deleted = ? AND status = ? AND current_worker_id IS NOT NULL",
			deptID, false, string(domain.StatusPending)).
		Count(&count).Error
	return count, err
}

func (r *complaintRepository) CountResolvedSince(ctx context.Context, deptID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("department_id = ? AND status = ? AND resolved_at >= ?",
			deptID, string(domain.StatusResolved), since).
		Count(&count).Error
	return count, err
}

func (r *complaintRepository) CountByCitizen(ctx context.Context, citizenID uint, statuses []string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("citizen_id = ? AND is_deleted = ?", citizenID, false)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&count).Error
	return count, err
}
