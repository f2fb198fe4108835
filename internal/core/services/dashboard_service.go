package services

import (
	"context"
	"time"

	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// DepartmentFlow is one department's complaint pipeline snapshot
type DepartmentFlow struct {
	DepartmentID   uint   `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Pending        int64  `json:"pending"`
	AssignedStage  int64  `json:"assigned"`
	InProgress     int64  `json:"in_progress"`
	Escalated      int64  `json:"escalated"`
	ResolvedToday  int64  `json:"resolved_today"`
	Total          int64  `json:"total"`
	SLADue         int64  `json:"sla_due"`
	SLAOverdue     int64  `json:"sla_overdue"`
}

// DashboardResponse is the admin overview payload
type DashboardResponse struct {
	Departments []*DepartmentFlow `json:"departments"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// DashboardService builds the operator overview
type DashboardService struct {
	complaintRepo repositories.ComplaintRepository
	masterRepo    repositories.MasterRepository
	clock         Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	complaintRepo repositories.ComplaintRepository,
	masterRepo repositories.MasterRepository,
	clock Clock,
) *DashboardService {
	return &DashboardService{
		complaintRepo: complaintRepo,
		masterRepo:    masterRepo,
		clock:         clock,
	}
}

// Overview returns per-department complaint flows plus live SLA-breach
// counts. Breaches are evaluated in memory over the open set so the
// dashboard and the sweeper always agree.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardResponse, error) {
	now := s.clock.Now()
	departments, err := s.masterRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}

	flows := make(map[uint]*DepartmentFlow, len(departments))
	resp := &DashboardResponse{GeneratedAt: now}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, dept := range departments {
		flow := &DepartmentFlow{DepartmentID: dept.ID, DepartmentName: dept.Name}

		if flow.Pending, err = s.complaintRepo.CountByDepartment(ctx, dept.ID, string(domain.StatusPending)); err != nil {
			return nil, err
		}
		if flow.AssignedStage, err = s.complaintRepo.CountAssignedStage(ctx, dept.ID); err != nil {
			return nil, err
		}
		if flow.InProgress, err = s.complaintRepo.CountByDepartment(ctx, dept.ID, string(domain.StatusInProgress)); err != nil {
			return nil, err
		}
		if flow.Escalated, err = s.complaintRepo.CountByDepartment(ctx, dept.ID, string(domain.StatusEscalated)); err != nil {
			return nil, err
		}
		if flow.ResolvedToday, err = s.complaintRepo.CountResolvedSince(ctx, dept.ID, startOfDay); err != nil {
			return nil, err
		}
		if flow.Total, err = s.complaintRepo.CountByDepartment(ctx, dept.ID, ""); err != nil {
			return nil, err
		}

		flows[dept.ID] = flow
		resp.Departments = append(resp.Departments, flow)
	}

	open, err := s.complaintRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	for _, complaint := range open {
		if complaint.DepartmentID == nil {
			continue
		}
		flow, ok := flows[*complaint.DepartmentID]
		if !ok {
			continue
		}
		switch EvaluateSLA(complaint, now).Verdict {
		case domain.SLADue:
			flow.SLADue++
		case domain.SLAOverdue:
			flow.SLAOverdue++
		}
	}

	return resp, nil
}
