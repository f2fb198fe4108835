package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

type facilityRepository struct {
	db *gorm.DB
}

// NewFacilityRepository creates a new facility repository instance
func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) List(ctx context.Context, facilityType string) ([]*models.Facility, error) {
	var facilities []*models.Facility
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if facilityType != "" {
		q = q.Where("facility_type = ?", facilityType)
	}
	err := q.Order("name ASC").Find(&facilities).Error
	return facilities, err
}

func (r *facilityRepository) GetByID(ctx context.Context, id uint) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.WithContext(ctx).First(&facility, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &facility, nil
}

func (r *facilityRepository) ListInBounds(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]*models.Facility, error) {
	var facilities []*models.Facility
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			true, minLat, maxLat, minLng, maxLng).
		Order("name ASC").
		Find(&facilities).Error
	return facilities, err
}

func (r *facilityRepository) CreateRating(ctx context.Context, rating *models.FacilityRating) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		// keep the denormalized average on the facility current
		var stats struct {
			Avg   float64
			Count int64
		}
		err := tx.Model(&models.FacilityRating{}).
			Select("AVG(cleanliness_rating) as avg, COUNT(*) as count").
			Where("facility_id = ?", rating.FacilityID).
			Scan(&stats).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Facility{}).
			Where("id = ?", rating.FacilityID).
			Updates(map[string]interface{}{
				"average_rating": stats.Avg,
				"rating_count":   stats.Count,
			}).Error
	})
}

func (r *facilityRepository) RecentRatings(ctx context.Context, facilityID uint, limit int) ([]*models.FacilityRating, error) {
	var ratings []*models.FacilityRating
	err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ratings).Error
	return ratings, err
}
