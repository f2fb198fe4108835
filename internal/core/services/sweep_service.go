package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/adapters/persistence/repositories"
	"civicsaathi/internal/core/domain"
)

// escalationDedupWindow suppresses repeat auto-escalations of the same
// complaint inside this window.
const escalationDedupWindow = 24 * time.Hour

var (
	sweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicsaathi_sweep_runs_total",
		Help: "Number of escalation sweep runs",
	})
	sweepScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicsaathi_sweep_scanned_total",
		Help: "Open complaints examined by the sweep",
	})
	sweepEscalatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicsaathi_sweep_escalated_total",
		Help: "Complaints auto-escalated by the sweep",
	})
	sweepWarnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicsaathi_sweep_warned_total",
		Help: "SLA-due warnings issued by the sweep",
	})
	sweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicsaathi_sweep_errors_total",
		Help: "Per-complaint failures during the sweep",
	})
)

// SweepResult summarizes one escalation sweep run
type SweepResult struct {
	Scanned   int `json:"scanned"`
	Escalated int `json:"escalated"`
	Warned    int `json:"warned"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// SweepService runs the periodic SLA escalation sweep
type SweepService struct {
	complaintRepo  repositories.ComplaintRepository
	staffRepo      repositories.StaffRepository
	escalationRepo repositories.EscalationRepository
	notifier       Notifier
	clock          Clock
}

// NewSweepService creates a new sweep service
func NewSweepService(
	complaintRepo repositories.ComplaintRepository,
	staffRepo repositories.StaffRepository,
	escalationRepo repositories.EscalationRepository,
	notifier Notifier,
	clock Clock,
) *SweepService {
	return &SweepService{
		complaintRepo:  complaintRepo,
		staffRepo:      staffRepo,
		escalationRepo: escalationRepo,
		notifier:       notifier,
		clock:          clock,
	}
}

// Sweep walks every open complaint once, escalating those past their
// escalation threshold and counting warnings for those past resolution.
// A failure on one complaint never aborts the rest of the run.
func (s *SweepService) Sweep(ctx context.Context) (*SweepResult, error) {
	sweepRunsTotal.Inc()
	now := s.clock.Now()

	complaints, err := s.complaintRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, complaint := range complaints {
		result.Scanned++
		sweepScannedTotal.Inc()

		state := EvaluateSLA(complaint, now)
		switch state.Verdict {
		case domain.SLAOverdue:
			escalated, err := s.escalateOverdue(ctx, complaint, now)
			if err != nil {
				result.Failed++
				sweepErrorsTotal.Inc()
				log.Printf("❌ Sweep: complaint %s escalation failed: %v", complaint.ReferenceNo, err)
				continue
			}
			if escalated {
				result.Escalated++
				sweepEscalatedTotal.Inc()
			} else {
				result.Skipped++
			}
		case domain.SLADue:
			// Warnings are counters only. The complaint row is not touched,
			// so a concurrent officer operation never sees a version bump
			// from a warning-tier pass.
			result.Warned++
			sweepWarnedTotal.Inc()
		default:
			result.Skipped++
		}
	}

	log.Printf("✅ Sweep finished: scanned=%d escalated=%d warned=%d skipped=%d failed=%d",
		result.Scanned, result.Escalated, result.Warned, result.Skipped, result.Failed)
	return result, nil
}

// escalateOverdue escalates one overdue complaint unless it was already
// escalated inside the dedup window. Returns whether an escalation was
// actually written.
func (s *SweepService) escalateOverdue(ctx context.Context, complaint *models.Complaint, now time.Time) (bool, error) {
	recent, err := s.escalationRepo.HasEscalationSince(ctx, complaint.ID, now.Add(-escalationDedupWindow))
	if err != nil {
		return false, err
	}
	if recent {
		return false, nil
	}

	var target *models.Officer
	if complaint.DepartmentID != nil {
		var exclude uint
		if complaint.CurrentOfficerID != nil {
			exclude = *complaint.CurrentOfficerID
		}
		target, err = s.staffRepo.FindEscalationTarget(ctx, *complaint.DepartmentID, exclude)
		if err != nil {
			return false, err
		}
	}

	reason := fmt.Sprintf("Auto-escalated: Exceeded %dh SLA threshold",
		complaint.Category.SLA.EscalationHours)

	system := domain.SystemActor
	updates := map[string]interface{}{
		"status":   string(domain.StatusEscalated),
		"priority": domain.PriorityCritical,
	}
	escalation := &models.ComplaintEscalation{
		EscalatedFromID: complaint.CurrentOfficerID,
		Reason:          reason,
	}
	logEntry := &models.ComplaintLog{
		ActionByName: system.DisplayName(),
		Note:         reason,
		OldStatus:    complaint.Status,
		NewStatus:    string(domain.StatusEscalated),
		OldAssignee:  officerDisplayName(complaint.CurrentOfficer),
	}
	if target != nil {
		updates["current_officer_id"] = target.ID
		escalation.EscalatedToID = &target.ID
		logEntry.NewAssignee = target.DisplayName()
	} else {
		logEntry.NewAssignee = logEntry.OldAssignee
	}

	err = s.complaintRepo.ApplyTransition(ctx, complaint.ID, complaint.Version, updates, logEntry, nil, escalation)
	if err != nil {
		return false, err
	}

	if s.notifier != nil {
		complaint.Status = string(domain.StatusEscalated)
		s.notifier.Notify(domain.EventEscalated, complaint)
	}
	return true, nil
}
