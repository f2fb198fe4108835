package models

import (
	"time"

	"civicsaathi/internal/core/domain"
)

// ============================================================
// Complaint aggregate (Main Tables)
// ============================================================

// Complaint is the aggregate root of the lifecycle engine. Assignment,
// ComplaintLog and ComplaintEscalation rows belong to their complaint and
// are never independently meaningful.
type Complaint struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ReferenceNo      string     `gorm:"size:20;uniqueIndex;not null" json:"reference_no"`
	CitizenID        uint       `gorm:"not null;index" json:"citizen_id"`
	CategoryID       *uint      `gorm:"index" json:"category_id"`
	DepartmentID     *uint      `gorm:"index" json:"department_id"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	Location         string     `gorm:"size:255;not null" json:"location"`
	ImagePath        string     `gorm:"size:255" json:"image_path"`
	Priority         int        `gorm:"not null;default:1" json:"priority"`
	Status           string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CurrentOfficerID *uint      `gorm:"index" json:"current_officer_id"`
	CurrentWorkerID  *uint      `gorm:"index" json:"current_worker_id"`
	IsDeleted        bool       `gorm:"default:false" json:"-"`
	IsSpam           bool       `gorm:"default:false" json:"-"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	// Version guards against lost updates: every transition is a conditional
	// update on (id, version) inside one transaction.
	Version   uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Citizen        *User              `gorm:"foreignKey:CitizenID" json:"citizen,omitempty"`
	Category       *ComplaintCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Department     *Department        `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CurrentOfficer *Officer           `gorm:"foreignKey:CurrentOfficerID" json:"current_officer,omitempty"`
	CurrentWorker  *Worker            `gorm:"foreignKey:CurrentWorkerID" json:"current_worker,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// LifecycleStatus returns the status as a domain value.
func (c *Complaint) LifecycleStatus() domain.Status {
	return domain.Status(c.Status)
}

// IsOpen reports whether the complaint is eligible for the escalation sweep.
func (c *Complaint) IsOpen() bool {
	s := c.LifecycleStatus()
	return (s == domain.StatusPending || s == domain.StatusInProgress) && !c.IsDeleted && !c.IsSpam
}

// Stage is the display stage: "assigned" for a pending complaint with a
// worker, the raw status otherwise. Kept out of the persisted status enum.
func (c *Complaint) Stage() string {
	if c.LifecycleStatus() == domain.StatusPending && c.CurrentWorkerID != nil {
		return "assigned"
	}
	return c.Status
}

// ComplaintResponse DTO
type ComplaintResponse struct {
	ID           uint       `json:"id"`
	ReferenceNo  string     `json:"reference_no"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Location     string     `json:"location"`
	ImagePath    string     `json:"image_path,omitempty"`
	Priority     int        `json:"priority"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage"`
	CategoryID   *uint      `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	DeptName     string     `json:"dept_name,omitempty"`
	OfficerName  string     `json:"officer_name,omitempty"`
	WorkerName   string     `json:"worker_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c *Complaint) ToResponse() *ComplaintResponse {
	resp := &ComplaintResponse{
		ID:          c.ID,
		ReferenceNo: c.ReferenceNo,
		Title:       c.Title,
		Description: c.Description,
		Location:    c.Location,
		ImagePath:   c.ImagePath,
		Priority:    c.Priority,
		Status:      c.Status,
		Stage:       c.Stage(),
		CategoryID:  c.CategoryID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if c.Category != nil {
		resp.CategoryName = c.Category.Name
	}
	if c.Department != nil {
		resp.DeptName = c.Department.Name
	}
	if c.CurrentOfficer != nil {
		resp.OfficerName = c.CurrentOfficer.DisplayName()
	}
	if c.CurrentWorker != nil {
		resp.WorkerName = c.CurrentWorker.DisplayName()
	}

	return resp
}

// Assignment is one worker-assignment event (append-only history). The
// authoritative "current" pointer stays on Complaint.CurrentWorkerID.
type Assignment struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ComplaintID         uint      `gorm:"not null;index" json:"complaint_id"`
	AssignedToWorkerID  *uint     `json:"assigned_to_worker_id"`
	AssignedByOfficerID *uint     `json:"assigned_by_officer_id"`
	Status              string    `gorm:"size:50;default:'assigned'" json:"status"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"timestamp"`

	// Relations
	Complaint         *Complaint `gorm:"foreignKey:ComplaintID" json:"-"`
	AssignedToWorker  *Worker    `gorm:"foreignKey:AssignedToWorkerID" json:"assigned_to_worker,omitempty"`
	AssignedByOfficer *Officer   `gorm:"foreignKey:AssignedByOfficerID" json:"assigned_by_officer,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// ComplaintLog is an immutable audit row. Assignee columns are free-text
// snapshots so history survives later renames or staff deletion. Exactly one
// row per effective mutation; no-op calls write nothing.
type ComplaintLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ComplaintID  uint      `gorm:"not null;index" json:"complaint_id"`
	ActionByID   *uint     `json:"action_by_id"`
	ActionByName string    `gorm:"size:150" json:"action_by_name"`
	Note         string    `gorm:"type:text" json:"note"`
	OldStatus    string    `gorm:"size:50" json:"old_status"`
	NewStatus    string    `gorm:"size:50" json:"new_status"`
	OldDeptID    *uint     `json:"old_dept_id"`
	NewDeptID    *uint     `json:"new_dept_id"`
	OldAssignee  string    `gorm:"size:200" json:"old_assignee"`
	NewAssignee  string    `gorm:"size:200" json:"new_assignee"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	Complaint *Complaint `gorm:"foreignKey:ComplaintID" json:"-"`
}

func (ComplaintLog) TableName() string {
	return "complaint_logs"
}

// ActorName returns the recorded actor, defaulting to the automation identity.
func (l *ComplaintLog) ActorName() string {
	if l.ActionByName != "" {
		return l.ActionByName
	}
	return "System"
}

// ComplaintLogResponse DTO
type ComplaintLogResponse struct {
	ID          uint      `json:"id"`
	ActionBy    string    `json:"action_by"`
	Note        string    `json:"note"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	OldAssignee string    `json:"old_assignee,omitempty"`
	NewAssignee string    `json:"new_assignee,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (l *ComplaintLog) ToResponse() *ComplaintLogResponse {
	return &ComplaintLogResponse{
		ID:          l.ID,
		ActionBy:    l.ActorName(),
		Note:        l.Note,
		OldStatus:   l.OldStatus,
		NewStatus:   l.NewStatus,
		OldAssignee: l.OldAssignee,
		NewAssignee: l.NewAssignee,
		Timestamp:   l.CreatedAt,
	}
}

// ComplaintEscalation is one escalation event; a complaint may accumulate
// several over its lifetime.
type ComplaintEscalation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ComplaintID     uint      `gorm:"not null;index" json:"complaint_id"`
	EscalatedFromID *uint     `json:"escalated_from_id"`
	EscalatedToID   *uint     `json:"escalated_to_id"`
	Reason          string    `gorm:"size:255;not null" json:"reason"`
	EscalatedAt     time.Time `gorm:"autoCreateTime;index" json:"escalated_at"`

	// Relations
	Complaint     *Complaint `gorm:"foreignKey:ComplaintID" json:"-"`
	EscalatedFrom *Officer   `gorm:"foreignKey:EscalatedFromID" json:"escalated_from,omitempty"`
	EscalatedTo   *Officer   `gorm:"foreignKey:EscalatedToID" json:"escalated_to,omitempty"`
}

func (ComplaintEscalation) TableName() string {
	return "complaint_escalations"
}
