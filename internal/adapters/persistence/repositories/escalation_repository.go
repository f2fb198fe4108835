package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"civicsaathi/internal/adapters/persistence/models"
)

type escalationRepository struct {
	db *gorm.DB
}

// NewEscalationRepository creates a new escalation repository instance
func NewEscalationRepository(db *gorm.DB) EscalationRepository {
	return &escalationRepository{db: db}
}

func (r *escalationRepository) HasEscalationSince(ctx context.Context, complaintID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ComplaintEscalation{}).
		Where("complaint_id = ? AND escalated_at >= ?", complaintID, since).
		Count(&count).Error
	return count > 0, err
}

func (r *escalationRepository) ListByComplaint(ctx context.Context, complaintID uint) ([]*models.ComplaintEscalation, error) {
	var escalations []*models.ComplaintEscalation
	err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("escalated_at DESC").
		Find(&escalations).Error
	return escalations, err
}
