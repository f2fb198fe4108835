package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents the users table (citizens and staff accounts)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:150" json:"full_name"`
	Role      string         `gorm:"size:20;default:'CITIZEN'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName returns the name recorded in audit snapshots.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	DeptName  string    `json:"dept_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Organizational hierarchy (Master Tables)
// ============================================================

// Department is the root of the organizational hierarchy
type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	// HeadEmail is the escalation fallback recipient for the department
	HeadEmail string    `gorm:"size:100" json:"head_email"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// ComplaintCategory maps a problem type to its owning department
type ComplaintCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	SLA        *SLAConfig  `gorm:"foreignKey:CategoryID" json:"sla,omitempty"`
}

func (ComplaintCategory) TableName() string {
	return "complaint_categories"
}

// SLAConfig holds per-category hour thresholds. escalation_hours must be
// strictly greater than resolution_hours; enforced in the master service.
type SLAConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CategoryID      uint      `gorm:"uniqueIndex;not null" json:"category_id"`
	ResolutionHours int       `gorm:"not null" json:"resolution_hours"`
	EscalationHours int       `gorm:"not null" json:"escalation_hours"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Category *ComplaintCategory `gorm:"foreignKey:CategoryID" json:"-"`
}

func (SLAConfig) TableName() string {
	return "sla_configs"
}

// ============================================================
// Staff
// ============================================================

// Officer supervises complaints within a department
type Officer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id"`
	Role         string    `gorm:"size:100;default:'officer'" json:"role"`
	Rank         string    `gorm:"size:20;not null;default:'junior'" json:"rank"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Officer) TableName() string {
	return "officers"
}

// DisplayName returns the officer's name for audit snapshots.
func (o *Officer) DisplayName() string {
	if o.User != nil {
		return o.User.DisplayName()
	}
	return ""
}

// Worker executes assigned complaints on the ground
type Worker struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DepartmentID uint      `gorm:"not null;index" json:"department_id"`
	Role         string    `gorm:"size:100;not null" json:"role"`
	Address      string    `gorm:"type:text" json:"address"`
	JoiningDate  time.Time `gorm:"type:date;not null" json:"joining_date"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Worker) TableName() string {
	return "workers"
}

// DisplayName returns the worker's name for audit snapshots.
func (w *Worker) DisplayName() string {
	if w.User != nil {
		return w.User.DisplayName()
	}
	return ""
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Accounts
		&User{},
		&RefreshToken{},
		// Masters
		&Department{},
		&ComplaintCategory{},
		&SLAConfig{},
		// Staff
		&Officer{},
		&Worker{},
		// Complaint aggregate
		&Complaint{},
		&Assignment{},
		&ComplaintLog{},
		&ComplaintEscalation{},
		// Civic extras
		&WorkerAttendance{},
		&Facility{},
		&FacilityRating{},
	)
}
