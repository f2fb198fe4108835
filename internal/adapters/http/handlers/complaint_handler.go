package handlers

import (
	"errors"

	"civicsaathi/internal/adapters/http/middleware"
	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/pagination"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplaintHandler handles complaint lifecycle endpoints
type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// CreateComplaintRequest represents complaint registration body
type CreateComplaintRequest struct {
	CategoryID  *uint  `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImagePath   string `json:"image_path"`
	Priority    int    `json:"priority"`
}

// Create registers a new complaint
// @Summary Register a complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateComplaintRequest true "Complaint data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /complaints [post]
func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	var req CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.GetActor(c)
	input := &services.CreateComplaintInput{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImagePath:   req.ImagePath,
		Priority:    req.Priority,
	}

	complaint, err := h.complaintService.Create(c.Context(), actor, input)
	if err != nil {
		return h.dispatchError(c, err)
	}

	return response.Created(c, "Complaint registered successfully", complaint.ToResponse())
}

// ListMine returns the caller's complaints
// @Summary List my complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /complaints/my [get]
func (h *ComplaintHandler) ListMine(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	complaints, err := h.complaintService.ListMine(c.Context(), actor.UserID, c.Query("status"))
	if err != nil {
		return h.dispatchError(c, err)
	}

	items := make([]*models.ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, complaint.ToResponse())
	}
	return response.Success(c, "Complaints retrieved", items)
}

// MyStats returns the caller's complaint counts per status
// @Summary My complaint statistics
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /complaints/my/stats [get]
func (h *ComplaintHandler) MyStats(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	stats, err := h.complaintService.MyStats(c.Context(), actor.UserID)
	if err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Statistics retrieved", stats)
}

// Get returns one complaint
// @Summary Get complaint detail
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	complaint, err := h.complaintService.GetByID(c.Context(), uint(id))
	if err != nil {
		return h.dispatchError(c, err)
	}
	if !h.canView(c, complaint) {
		return response.Forbidden(c, "You cannot view this complaint")
	}

	return response.Success(c, "Complaint retrieved", complaint.ToResponse())
}

// GetLogs returns a complaint's history, newest first
// @Summary Get complaint history
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id}/logs [get]
func (h *ComplaintHandler) GetLogs(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	complaint, err := h.complaintService.GetByID(c.Context(), uint(id))
	if err != nil {
		return h.dispatchError(c, err)
	}
	if !h.canView(c, complaint) {
		return response.Forbidden(c, "You cannot view this complaint")
	}

	logs, err := h.complaintService.GetLogs(c.Context(), uint(id))
	if err != nil {
		return h.dispatchError(c, err)
	}

	items := make([]*models.ComplaintLogResponse, 0, len(logs))
	for _, logEntry := range logs {
		items = append(items, logEntry.ToResponse())
	}
	return response.Success(c, "History retrieved", items)
}

// GetSLA returns the live SLA position of a complaint
// @Summary Get complaint SLA state
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Router /complaints/{id}/sla [get]
func (h *ComplaintHandler) GetSLA(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	complaint, state, err := h.complaintService.EvaluateSLAFor(c.Context(), uint(id))
	if err != nil {
		return h.dispatchError(c, err)
	}
	if !h.canView(c, complaint) {
		return response.Forbidden(c, "You cannot view this complaint")
	}

	payload := fiber.Map{
		"reference_no": complaint.ReferenceNo,
		"verdict":      state.Verdict.String(),
	}
	switch state.Verdict {
	case domain.SLAOnTrack:
		payload["remaining_hours"] = state.RemainingHours
	case domain.SLAOverdue:
		payload["overdue_hours"] = state.OverdueHours
	}
	return response.Success(c, "SLA state retrieved", payload)
}

// ListByDepartment returns a department's queue
// @Summary List department complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param departmentId path int true "Department ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /complaints/departments/{departmentId} [get]
func (h *ComplaintHandler) ListByDepartment(c *fiber.Ctx) error {
	deptID, err := c.ParamsInt("departmentId")
	if err != nil || deptID <= 0 {
		return response.BadRequest(c, "Invalid department ID")
	}

	params := pagination.GetParams(c)
	complaints, total, err := h.complaintService.ListByDepartment(c.Context(), uint(deptID), params.Offset, params.Limit)
	if err != nil {
		return h.dispatchError(c, err)
	}

	items := make([]*models.ComplaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		items = append(items, complaint.ToResponse())
	}
	return response.Success(c, "Complaints retrieved", pagination.NewResponse(items, params, total))
}

// AssignOfficerRequest carries an officer id
type AssignOfficerRequest struct {
	OfficerID uint `json:"officer_id"`
}

// AssignOfficer sets the responsible officer
// @Summary Assign officer to complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body AssignOfficerRequest true "Officer"
// @Success 200 {object} response.Response
// @Router /complaints/{id}/officer [put]
func (h *ComplaintHandler) AssignOfficer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}
	var req AssignOfficerRequest
	if err := c.BodyParser(&req); err != nil || req.OfficerID == 0 {
		return response.BadRequest(c, "Officer ID is required")
	}

	complaint, err := h.complaintService.AssignOfficer(c.Context(), uint(id), req.OfficerID, middleware.GetActor(c))
	if err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Officer assigned", complaint.ToResponse())
}

// AssignWorkerRequest carries a worker id and optional note
type AssignWorkerRequest struct {
	WorkerID uint   `json:"worker_id"`
	Note     string `json:"note"`
}

// AssignWorker dispatches a field worker
// @Summary Assign worker to complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body AssignWorkerRequest true "Worker"
// @Success 200 {object} response.Response
// @Router /complaints/{id}/worker [put]
func (h *ComplaintHandler) AssignWorker(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}
	var req AssignWorkerRequest
	if err := c.BodyParser(&req); err != nil || req.WorkerID == 0 {
		return response.BadRequest(c, "Worker ID is required")
	}

	complaint, err := h.complaintService.AssignWorker(c.Context(), uint(id), req.WorkerID, middleware.GetActor(c), req.Note)
	if err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Worker assigned", complaint.ToResponse())
}

// ChangeStatusRequest carries the target status and optional note
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// ChangeStatus moves a complaint along the lifecycle
// @Summary Change complaint status
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body ChangeStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /complaints/{id}/status [patch]
func (h *ComplaintHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}
	var req ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	complaint, err := h.complaintService.ChangeStatus(c.Context(), uint(id), req.Status, middleware.GetActor(c), req.Note)
	if err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Status updated", complaint.ToResponse())
}

// EscalateRequest carries the escalation reason and optional target
type EscalateRequest struct {
	Reason      string `json:"reason"`
	ToOfficerID *uint  `json:"to_officer_id"`
}

// Escalate escalates a complaint to senior staff
// @Summary Escalate complaint
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body EscalateRequest true "Escalation"
// @Success 200 {object} response.Response
// @Router /complaints/{id}/escalate [post]
func (h *ComplaintHandler) Escalate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}
	var req EscalateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	complaint, err := h.complaintService.Escalate(c.Context(), uint(id), middleware.GetActor(c), &services.EscalateInput{
		Reason:      req.Reason,
		ToOfficerID: req.ToOfficerID,
	})
	if err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Complaint escalated", complaint.ToResponse())
}

// MarkSpam flags a complaint as spam
// @Summary Mark complaint as spam
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Router /complaints/{id}/spam [post]
func (h *ComplaintHandler) MarkSpam(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	if err := h.complaintService.MarkSpam(c.Context(), uint(id), middleware.GetActor(c)); err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Complaint marked as spam", nil)
}

// Delete soft-deletes a complaint
// @Summary Delete complaint
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Router /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	actor := middleware.GetActor(c)
	complaint, err := h.complaintService.GetByID(c.Context(), uint(id))
	if err != nil {
		return h.dispatchError(c, err)
	}
	// citizens may delete their own complaints, staff any
	if actor.Role == domain.RoleCitizen && complaint.CitizenID != actor.UserID {
		return response.Forbidden(c, "You cannot delete this complaint")
	}

	if err := h.complaintService.SoftDelete(c.Context(), uint(id), actor); err != nil {
		return h.dispatchError(c, err)
	}
	return response.Success(c, "Complaint deleted", nil)
}

// canView allows the owning citizen and any staff role
func (h *ComplaintHandler) canView(c *fiber.Ctx, complaint *models.Complaint) bool {
	actor := middleware.GetActor(c)
	if actor.Role == domain.RoleCitizen {
		return complaint.CitizenID == actor.UserID
	}
	return true
}

// dispatchError maps service errors to HTTP responses
func (h *ComplaintHandler) dispatchError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return response.BadRequest(c, vErr.Error())
	case errors.Is(err, services.ErrComplaintNotFound):
		return response.NotFound(c, "Complaint not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return response.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrOfficerNotFound):
		return response.NotFound(c, "Officer not found")
	case errors.Is(err, services.ErrWorkerNotFound):
		return response.NotFound(c, "Worker not found")
	case errors.Is(err, services.ErrComplaintLocked):
		return response.Conflict(c, "Complaint was modified concurrently, retry")
	default:
		return response.InternalServerError(c, "Operation failed")
	}
}
