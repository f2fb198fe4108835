package handlers

import (
	"errors"
	"time"

	"civicsaathi/internal/adapters/http/middleware"
	"civicsaathi/internal/core/domain"
	"civicsaathi/internal/core/services"
	"civicsaathi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AttendanceHandler handles worker attendance endpoints
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// MarkAttendanceRequest carries one attendance record
type MarkAttendanceRequest struct {
	WorkerID uint   `json:"worker_id"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// Mark records today's attendance for a worker
// @Summary Mark worker attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body MarkAttendanceRequest true "Attendance record"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Security BearerAuth
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *fiber.Ctx) error {
	var req MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.attendanceService.Mark(c.Context(), middleware.GetActor(c), &services.MarkInput{
		WorkerID: req.WorkerID,
		Status:   req.Status,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrWorkerNotFound):
			return response.NotFound(c, "Worker not found")
		case errors.Is(err, services.ErrOfficerNotFound):
			return response.NotFound(c, "Officer profile not found")
		case errors.Is(err, services.ErrNotDepartmentWorker):
			return response.Forbidden(c, "Worker belongs to a different department")
		default:
			return response.InternalServerError(c, "Failed to record attendance")
		}
	}
	return response.Success(c, "Attendance recorded", record)
}

// ListByDepartment returns attendance records for a department on a day
// @Summary List department attendance
// @Tags Attendance
// @Produce json
// @Param departmentId path int true "Department ID"
// @Param date query string false "Date (YYYY-MM-DD, defaults to today)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /attendance/departments/{departmentId} [get]
func (h *AttendanceHandler) ListByDepartment(c *fiber.Ctx) error {
	deptID, err := c.ParamsInt("departmentId")
	if err != nil || deptID <= 0 {
		return response.BadRequest(c, "Invalid department ID")
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		date = parsed
	}

	records, err := h.attendanceService.ListForDepartment(c.Context(), uint(deptID), date)
	if err != nil {
		if errors.Is(err, services.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to load attendance")
	}
	return response.Success(c, "Attendance retrieved", records)
}
