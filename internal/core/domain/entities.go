package domain

import "fmt"

// Status is the canonical complaint lifecycle status.
// "assigned" is NOT a status: some UI layers used it as a label for a pending
// complaint that already has a worker. It is derived for display only and
// never persisted (see ComplaintResponse.Stage).
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusEscalated  Status = "escalated"
)

// AllStatuses lists every recognized status, in lifecycle order.
var AllStatuses = []Status{
	StatusPending, StatusInProgress, StatusEscalated, StatusResolved, StatusClosed,
}

// IsValid reports whether s is a recognized status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed, StatusEscalated:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal lifecycle state.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// transitions maps each status to the statuses it may move to.
// resolved may only be closed; closed is immutable.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusEscalated},
	StatusInProgress: {StatusResolved, StatusEscalated},
	StatusEscalated:  {StatusInProgress, StatusPending, StatusResolved},
	StatusResolved:   {StatusClosed},
	StatusClosed:     {},
}

// CanTransition reports whether a complaint may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Priority levels for complaints
const (
	PriorityNormal   = 1
	PriorityHigh     = 2
	PriorityCritical = 3
)

// ValidPriority reports whether p is a recognized priority level.
func ValidPriority(p int) bool {
	return p >= PriorityNormal && p <= PriorityCritical
}

// Rank is the explicit officer seniority level used for escalation routing.
// Replaces the old convention of matching "senior"/"head" substrings in the
// free-text role title.
type Rank string

const (
	RankJunior Rank = "junior"
	RankSenior Rank = "senior"
	RankHead   Rank = "head"
)

// IsValid reports whether r is a recognized rank.
func (r Rank) IsValid() bool {
	return r == RankJunior || r == RankSenior || r == RankHead
}

// AttendanceStatus values for worker attendance records
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceHalfDay AttendanceStatus = "half_day"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// IsValid reports whether a is a recognized attendance status.
func (a AttendanceStatus) IsValid() bool {
	switch a {
	case AttendancePresent, AttendanceAbsent, AttendanceHalfDay, AttendanceOnLeave:
		return true
	}
	return false
}

// ActorRole tags the kind of actor performing an operation.
type ActorRole string

const (
	RoleCitizen ActorRole = "CITIZEN"
	RoleOfficer ActorRole = "OFFICER"
	RoleWorker  ActorRole = "WORKER"
	RoleAdmin   ActorRole = "ADMIN"
	RoleSystem  ActorRole = "SYSTEM"
)

// Actor identifies who performs a state-machine operation. It is resolved
// once at the HTTP boundary (or synthesized for batch jobs) and passed
// explicitly into core operations; the core never re-derives roles.
type Actor struct {
	UserID    uint
	Name      string
	Role      ActorRole
	OfficerID uint // set when Role == RoleOfficer
	WorkerID  uint // set when Role == RoleWorker
}

// SystemActor is the actor recorded for automated transitions (sweeps, cron).
var SystemActor = Actor{Name: "System", Role: RoleSystem}

// IsSystem reports whether the actor is the automation identity.
func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}

// DisplayName returns the name recorded in audit log snapshots.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.IsSystem() {
		return "System"
	}
	return fmt.Sprintf("user#%d", a.UserID)
}

// SLAVerdict classifies a complaint against its category SLA.
type SLAVerdict int

const (
	// SLANone - complaint has no category or the category has no SLA config;
	// exempt from automatic escalation.
	SLANone SLAVerdict = iota
	// SLADone - complaint is resolved/closed; terminal states are never overdue.
	SLADone
	// SLAOnTrack - within the resolution window.
	SLAOnTrack
	// SLADue - past resolution_hours but within the escalation window.
	SLADue
	// SLAOverdue - past escalation_hours; eligible for auto-escalation.
	SLAOverdue
)

// String returns a short label for logs and dashboards.
func (v SLAVerdict) String() string {
	switch v {
	case SLADone:
		return "done"
	case SLAOnTrack:
		return "on_track"
	case SLADue:
		return "due"
	case SLAOverdue:
		return "overdue"
	default:
		return "no_sla"
	}
}

// SLAState is the result of evaluating a complaint against its SLA config.
// Hours are fractional (second precision / 3600).
type SLAState struct {
	Verdict        SLAVerdict
	RemainingHours float64 // until resolution_hours, when OnTrack
	OverdueHours   float64 // past escalation_hours, when Overdue
}

// NotificationEvent identifies a lifecycle event worth telling the
// citizen about.
type NotificationEvent string

const (
	EventRegistered     NotificationEvent = "registered"
	EventWorkerAssigned NotificationEvent = "worker_assigned"
	EventStatusChanged  NotificationEvent = "status_changed"
	EventEscalated      NotificationEvent = "escalated"
)
