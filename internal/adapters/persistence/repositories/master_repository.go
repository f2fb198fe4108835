package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

type masterRepository struct {
	db *gorm.DB
}

// NewMasterRepository creates a new master repository instance
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

func (r *masterRepository) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	var depts []*models.Department
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *masterRepository) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	if err := r.db.WithContext(ctx).First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *masterRepository) ListCategories(ctx context.Context) ([]*models.ComplaintCategory, error) {
	var cats []*models.ComplaintCategory
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("SLA").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&cats).Error
	return cats, err
}

func (r *masterRepository) GetCategory(ctx context.Context, id uint) (*models.ComplaintCategory, error) {
	var cat models.ComplaintCategory
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("SLA").
		First(&cat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *masterRepository) SaveSLAConfig(ctx context.Context, sla *models.SLAConfig) error {
	// one SLA row per category, replace on conflict
	var existing models.SLAConfig
	err := r.db.WithContext(ctx).Where("category_id = ?", sla.CategoryID).First(&existing).Error
	if err == nil {
		sla.ID = existing.ID
		return r.db.WithContext(ctx).Save(sla).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(sla).Error
	}
	return err
}
