package services

import (
	"time"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

// EvaluateSLA computes the SLA position of a complaint at a given
// instant. Pure: it reads the complaint and its preloaded category SLA
// config only, never the database.
//
// Verdicts:
//   - SLANone:    no category or no SLA config attached
//   - SLADone:    complaint is resolved or closed, elapsed time irrelevant
//   - SLAOverdue: elapsed strictly exceeds escalation_hours
//   - SLADue:     elapsed strictly exceeds resolution_hours
//   - SLAOnTrack: everything else
func EvaluateSLA(complaint *models.Complaint, now time.Time) domain.SLAState {
	if complaint.Category == nil || complaint.Category.SLA == nil {
		return domain.SLAState{Verdict: domain.SLANone}
	}

	status := complaint.LifecycleStatus()
	if status.IsTerminal() {
		return domain.SLAState{Verdict: domain.SLADone}
	}

	sla := complaint.Category.SLA
	elapsed := now.Sub(complaint.CreatedAt).Hours()

	if elapsed > float64(sla.EscalationHours) {
		return domain.SLAState{
			Verdict:      domain.SLAOverdue,
			OverdueHours: elapsed - float64(sla.EscalationHours),
		}
	}
	if elapsed > float64(sla.ResolutionHours) {
		return domain.SLAState{Verdict: domain.SLADue}
	}
	return domain.SLAState{
		Verdict:        domain.SLAOnTrack,
		RemainingHours: float64(sla.ResolutionHours) - elapsed,
	}
}
