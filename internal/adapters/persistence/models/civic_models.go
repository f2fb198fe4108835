package models

import "time"

// ============================================================
// Worker attendance
// ============================================================

// WorkerAttendance is one attendance record, unique per (worker, date).
// Independent lifecycle from complaints; shares the officer/department
// scoping access pattern.
type WorkerAttendance struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WorkerID   uint      `gorm:"not null;uniqueIndex:idx_worker_date" json:"worker_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_worker_date" json:"date"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	CheckIn    *string   `gorm:"size:10" json:"check_in"`
	CheckOut   *string   `gorm:"size:10" json:"check_out"`
	Location   string    `gorm:"size:255" json:"location"`
	Notes      string    `gorm:"type:text" json:"notes"`
	MarkedByID *uint     `json:"marked_by_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Worker   *Worker `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	MarkedBy *User   `gorm:"foreignKey:MarkedByID" json:"marked_by,omitempty"`
}

func (WorkerAttendance) TableName() string {
	return "worker_attendances"
}

// ============================================================
// Public facilities
// ============================================================

// Facility is a public facility citizens can rate for cleanliness
type Facility struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	FacilityType string    `gorm:"size:50;index" json:"facility_type"`
	Address      string    `gorm:"size:255" json:"address"`
	Latitude     *float64  `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude    *float64  `gorm:"type:decimal(10,7)" json:"longitude"`
	// Denormalized rating summary, maintained on every new rating
	AverageRating float64   `gorm:"type:decimal(3,2);default:0" json:"average_rating"`
	RatingCount   int64     `gorm:"default:0" json:"rating_count"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Facility) TableName() string {
	return "facilities"
}

// FacilityRating is one cleanliness rating (1-5), optionally anonymous
type FacilityRating struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FacilityID        uint      `gorm:"not null;index" json:"facility_id"`
	UserID            *uint     `json:"user_id"`
	CleanlinessRating int       `gorm:"not null" json:"cleanliness_rating"`
	Comment           string    `gorm:"type:text" json:"comment"`
	IsAnonymous       bool      `gorm:"default:false" json:"is_anonymous"`
	IPAddress         string    `gorm:"size:50" json:"-"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relations
	Facility *Facility `gorm:"foreignKey:FacilityID" json:"-"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (FacilityRating) TableName() string {
	return "facility_ratings"
}
