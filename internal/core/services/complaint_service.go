package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// Complaint service errors
var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrCategoryNotFound  = errors.New("complaint category not found")
	ErrOfficerNotFound   = errors.New("officer not found")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrComplaintLocked   = errors.New("complaint was modified concurrently, retry")
)

// ComplaintService handles complaint lifecycle business logic
type ComplaintService struct {
	complaintRepo  repositories.ComplaintRepository
	masterRepo     repositories.MasterRepository
	staffRepo      repositories.StaffRepository
	escalationRepo repositories.EscalationRepository
	notifier       Notifier
	clock          Clock
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	complaintRepo repositories.ComplaintRepository,
	masterRepo repositories.MasterRepository,
	staffRepo repositories.StaffRepository,
	escalationRepo repositories.EscalationRepository,
	notifier Notifier,
	clock Clock,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo:  complaintRepo,
		masterRepo:     masterRepo,
		staffRepo:      staffRepo,
		escalationRepo: escalationRepo,
		notifier:       notifier,
		clock:          clock,
	}
}

// CreateComplaintInput is the payload for registering a complaint
type CreateComplaintInput struct {
	CategoryID  *uint  `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImagePath   string `json:"image_path,omitempty"`
	Priority    int    `json:"priority,omitempty"`
}

// Create registers a new complaint. Department is derived from the
// category once at registration and never re-derived afterwards.
func (s *ComplaintService) Create(ctx context.Context, citizen *domain.Actor, input *CreateComplaintInput) (*models.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	location := strings.TrimSpace(input.Location)

	if len(title) < 10 {
		return nil, domain.NewValidationError("title", "must be at least 10 characters")
	}
	if len(description) < 20 {
		return nil, domain.NewValidationError("description", "must be at least 20 characters")
	}
	if location == "" {
		return nil, domain.NewValidationError("location", "is required")
	}
	priority := input.Priority
	if priority == 0 {
		priority = domain.PriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.NewValidationError("priority", "must be between 1 and 3")
	}

	complaint := &models.Complaint{
		ReferenceNo: generateReferenceNo(),
		CitizenID:   citizen.UserID,
		Title:       title,
		Description: description,
		Location:    location,
		ImagePath:   input.ImagePath,
		Priority:    priority,
		Status:      string(domain.StatusPending),
	}

	if input.CategoryID != nil {
		category, err := s.masterRepo.GetCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		complaint.CategoryID = &category.ID
		complaint.DepartmentID = &category.DepartmentID
	}

	initialLog := &models.ComplaintLog{
		ActionByID:   &citizen.UserID,
		ActionByName: citizen.DisplayName(),
		Note:         "Complaint registered",
		OldStatus:    "",
		NewStatus:    string(domain.StatusPending),
	}
	if err := s.complaintRepo.Create(ctx, complaint, initialLog); err != nil {
		return nil, err
	}

	s.dispatch(domain.EventRegistered, complaint)
	return complaint, nil
}

// GetByID returns a complaint with its relations preloaded
func (s *ComplaintService) GetByID(ctx context.Context, id uint) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return complaint, nil
}

// ListMine returns a citizen's complaints, optionally filtered by status
func (s *ComplaintService) ListMine(ctx context.Context, citizenID uint, status string) ([]*models.Complaint, error) {
	if status != "" && !domain.Status(status).IsValid() {
		return nil, domain.NewValidationError("status", "unrecognized value")
	}
	return s.complaintRepo.ListByCitizen(ctx, citizenID, status)
}

// ListByDepartment returns a department's complaint queue, highest
// priority first
func (s *ComplaintService) ListByDepartment(ctx context.Context, deptID uint, offset, limit int) ([]*models.Complaint, int64, error) {
	return s.complaintRepo.ListByDepartment(ctx, deptID, offset, limit)
}

// MyStats returns per-status complaint counts for a citizen
func (s *ComplaintService) MyStats(ctx context.Context, citizenID uint) (map[string]int64, error) {
	stats := make(map[string]int64, len(domain.AllStatuses)+1)
	total, err := s.complaintRepo.CountByCitizen(ctx, citizenID, nil)
	if err != nil {
		return nil, err
	}
	stats["total"] = total
	for _, st := range domain.AllStatuses {
		count, err := s.complaintRepo.CountByCitizen(ctx, citizenID, []string{string(st)})
		if err != nil {
			return nil, err
		}
		stats[string(st)] = count
	}
	return stats, nil
}

// AssignOfficer sets the responsible officer. No status change, and a
// no-op (same officer already assigned) writes no log row.
func (s *ComplaintService) AssignOfficer(ctx context.Context, complaintID, officerID uint, actor *domain.Actor) (*models.Complaint, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.CurrentOfficerID != nil && *complaint.CurrentOfficerID == officerID {
		return complaint, nil
	}

	officer, err := s.staffRepo.GetOfficerByID(ctx, officerID)
	if err != nil {
		return nil, ErrOfficerNotFound
	}

	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         "Officer assigned",
		OldStatus:    complaint.Status,
		NewStatus:    complaint.Status,
		OldAssignee:  officerDisplayName(complaint.CurrentOfficer),
		NewAssignee:  officer.DisplayName(),
	}
	updates := map[string]interface{}{"current_officer_id": officer.ID}

	if err := s.applyTransition(ctx, complaint, updates, logEntry, nil, nil); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, complaintID)
}

// AssignWorker dispatches a field worker. Writes an append-only
// Assignment row plus a log entry; a repeat call with the same worker
// is a no-op.
func (s *ComplaintService) AssignWorker(ctx context.Context, complaintID, workerID uint, actor *domain.Actor, note string) (*models.Complaint, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.CurrentWorkerID != nil && *complaint.CurrentWorkerID == workerID {
		return complaint, nil
	}

	worker, err := s.staffRepo.GetWorkerByID(ctx, workerID)
	if err != nil {
		return nil, ErrWorkerNotFound
	}

	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         note,
		OldStatus:    complaint.Status,
		NewStatus:    complaint.Status,
		OldAssignee:  workerDisplayName(complaint.CurrentWorker),
		NewAssignee:  worker.DisplayName(),
	}
	if logEntry.Note == "" {
		logEntry.Note = "Worker assigned"
	}
	assignment := &models.Assignment{
		AssignedToWorkerID: &worker.ID,
		Status:             "assigned",
	}
	if actor != nil && actor.OfficerID != 0 {
		officerID := actor.OfficerID
		assignment.AssignedByOfficerID = &officerID
	}
	updates := map[string]interface{}{"current_worker_id": worker.ID}

	if err := s.applyTransition(ctx, complaint, updates, logEntry, assignment, nil); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	s.dispatch(domain.EventWorkerAssigned, updated)
	return updated, nil
}

// ChangeStatus moves a complaint along the lifecycle. Illegal moves per
// the transition table are rejected; same-status calls are no-ops.
func (s *ComplaintService) ChangeStatus(ctx context.Context, complaintID uint, newStatus string, actor *domain.Actor, note string) (*models.Complaint, error) {
	target := domain.Status(newStatus)
	if !target.IsValid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("unrecognized value %q", newStatus))
	}

	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	current := complaint.LifecycleStatus()
	if current == target {
		return complaint, nil
	}
	if !domain.CanTransition(current, target) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("cannot move from %s to %s", current, target))
	}

	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         note,
		OldStatus:    string(current),
		NewStatus:    string(target),
	}
	if logEntry.Note == "" {
		logEntry.Note = fmt.Sprintf("Status changed to %s", target)
	}
	updates := map[string]interface{}{"status": string(target)}
	if target == domain.StatusResolved {
		now := s.clock.Now()
		updates["resolved_at"] = &now
	}

	if err := s.applyTransition(ctx, complaint, updates, logEntry, nil, nil); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	s.dispatch(domain.EventStatusChanged, updated)
	return updated, nil
}

// EscalateInput carries the escalation parameters
type EscalateInput struct {
	Reason     string `json:"reason"`
	ToOfficerID *uint `json:"to_officer_id,omitempty"`
}

// Escalate records an escalation: status forced to escalated, priority
// forced to critical, officer reassigned when a target is given. Callers
// that omit a target get the department rank lookup.
func (s *ComplaintService) Escalate(ctx context.Context, complaintID uint, actor *domain.Actor, input *EscalateInput) (*models.Complaint, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, domain.NewValidationError("reason", "is required")
	}

	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	current := complaint.LifecycleStatus()
	if current.IsTerminal() {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("cannot escalate a %s complaint", current))
	}

	var target *models.Officer
	if input.ToOfficerID != nil {
		target, err = s.staffRepo.GetOfficerByID(ctx, *input.ToOfficerID)
		if err != nil {
			return nil, ErrOfficerNotFound
		}
	} else if complaint.DepartmentID != nil {
		var exclude uint
		if complaint.CurrentOfficerID != nil {
			exclude = *complaint.CurrentOfficerID
		}
		target, err = s.staffRepo.FindEscalationTarget(ctx, *complaint.DepartmentID, exclude)
		if err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"status":   string(domain.StatusEscalated),
		"priority": domain.PriorityCritical,
	}
	escalation := &models.ComplaintEscalation{
		EscalatedFromID: complaint.CurrentOfficerID,
		Reason:          input.Reason,
	}
	newAssignee := officerDisplayName(complaint.CurrentOfficer)
	if target != nil {
		updates["current_officer_id"] = target.ID
		escalation.EscalatedToID = &target.ID
		newAssignee = target.DisplayName()
	}
	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         input.Reason,
		OldStatus:    string(current),
		NewStatus:    string(domain.StatusEscalated),
		OldAssignee:  officerDisplayName(complaint.CurrentOfficer),
		NewAssignee:  newAssignee,
	}

	if err := s.applyTransition(ctx, complaint, updates, logEntry, nil, escalation); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	s.dispatch(domain.EventEscalated, updated)
	return updated, nil
}

// MarkSpam flags a complaint out of the sweep population
func (s *ComplaintService) MarkSpam(ctx context.Context, complaintID uint, actor *domain.Actor) error {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.IsSpam {
		return nil
	}
	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         "Marked as spam",
		OldStatus:    complaint.Status,
		NewStatus:    complaint.Status,
	}
	return s.applyTransition(ctx, complaint,
		map[string]interface{}{"is_spam": true}, logEntry, nil, nil)
}

// SoftDelete hides a complaint from citizen views and the sweep
func (s *ComplaintService) SoftDelete(ctx context.Context, complaintID uint, actor *domain.Actor) error {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if complaint.IsDeleted {
		return nil
	}
	logEntry := &models.ComplaintLog{
		ActionByID:   actorID(actor),
		ActionByName: actor.DisplayName(),
		Note:         "Complaint deleted",
		OldStatus:    complaint.Status,
		NewStatus:    complaint.Status,
	}
	return s.applyTransition(ctx, complaint,
		map[string]interface{}{"is_deleted": true}, logEntry, nil, nil)
}

// GetLogs returns the complaint's history, newest first
func (s *ComplaintService) GetLogs(ctx context.Context, complaintID uint) ([]*models.ComplaintLog, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.complaintRepo.GetLogs(ctx, complaintID)
}

// EvaluateSLAFor returns the live SLA position of one complaint
func (s *ComplaintService) EvaluateSLAFor(ctx context.Context, complaintID uint) (*models.Complaint, domain.SLAState, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, domain.SLAState{}, err
	}
	return complaint, EvaluateSLA(complaint, s.clock.Now()), nil
}

func (s *ComplaintService) applyTransition(ctx context.Context, complaint *models.Complaint,
	updates map[string]interface{}, logEntry *models.ComplaintLog,
	assignment *models.Assignment, escalation *models.ComplaintEscalation) error {
	err := s.complaintRepo.ApplyTransition(ctx, complaint.ID, complaint.Version, updates, logEntry, assignment, escalation)
	if errors.Is(err, domain.ErrVersionConflict) {
		return ErrComplaintLocked
	}
	return err
}

func (s *ComplaintService) dispatch(event domain.NotificationEvent, complaint *models.Complaint) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event, complaint)
}

func actorID(actor *domain.Actor) *uint {
	if actor == nil || actor.UserID == 0 {
		return nil
	}
	id := actor.UserID
	return &id
}

func officerDisplayName(officer *models.Officer) string {
	if officer == nil {
		return ""
	}
	return officer.DisplayName()
}

func workerDisplayName(worker *models.Worker) string {
	if worker == nil {
		return ""
	}
	return worker.DisplayName()
}

// generateReferenceNo builds a short public tracking id, e.g. CMP-20260831-1A2B3C
func generateReferenceNo() string {
	id := uuid.New().String()
	return fmt.Sprintf("CMP-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(id[:6]))
}
