package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository instance
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) GetOfficerByID(ctx context.Context, id uint) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.WithContext(ctx).Preload("User").Preload("Department").First(&officer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &officer, nil
}

func (r *staffRepository) GetOfficerByUserID(ctx context.Context, userID uint) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.WithContext(ctx).Preload("User").Preload("Department").
		Where("user_id = ?", userID).First(&officer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &officer, nil
}

func (r *staffRepository) GetWorkerByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).Preload("User").Preload("Department").First(&worker, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *staffRepository) GetWorkerByUserID(ctx context.Context, userID uint) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.WithContext(ctx).Preload("User").Preload("Department").
		Where("user_id = ?", userID).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &worker, nil
}

func (r *staffRepository) ListWorkersByDepartment(ctx context.Context, deptID uint, activeOnly bool) ([]*models.Worker, error) {
	var workers []*models.Worker
	q := r.db.WithContext(ctx).Preload("User").Where("department_id = ?", deptID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("id ASC").Find(&workers).Error
	return workers, err
}

func (r *staffRepository) ListActiveWorkers(ctx context.Context) ([]*models.Worker, error) {
	var workers []*models.Worker
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&workers).Error
	return workers, err
}

func (r *staffRepository) FindEscalationTarget(ctx context.Context, deptID uint, excludeOfficerID uint) (*models.Officer, error) {
	// Search order: senior in the department, then head, then any other
	// officer there. The complaint keeps its current officer when the
	// department has nobody else. `rank` is a reserved word in MySQL 8,
	// so the raw fragment must quote it.
	for _, rank := range []string{string(domain.RankSenior), string(domain.RankHead)} {
		var officer models.Officer
		err := r.db.WithContext(ctx).Preload("User").
			Where("department_id = ? AND `rank` = ? AND is_active = ? AND id <> ?",
				deptID, rank, true, excludeOfficerID).
			Order("id ASC").
			First(&officer).Error
		if err == nil {
			return &officer, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var officer models.Officer
	err := r.db.WithContext(ctx).Preload("User").
		Where("department_id = ? AND is_active = ? AND id <> ?", deptID, true, excludeOfficerID).
		Order("id ASC").
		First(&officer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &officer, nil
}
