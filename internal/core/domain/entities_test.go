package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.IsValid(), "status %s should be valid", status)
	}

	assert.False(t, Status("assigned").IsValid(), "assigned is a display stage, not a status")
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("rejected").IsValid())
}

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusEscalated},
		{StatusInProgress, StatusResolved},
		{StatusInProgress, StatusEscalated},
		{StatusEscalated, StatusInProgress},
		{StatusEscalated, StatusPending},
		{StatusEscalated, StatusResolved},
		{StatusResolved, StatusClosed},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusResolved},
		{StatusPending, StatusClosed},
		{StatusInProgress, StatusPending},
		{StatusInProgress, StatusClosed},
		{StatusResolved, StatusInProgress},
		{StatusResolved, StatusPending},
		{StatusClosed, StatusResolved},
		{StatusClosed, StatusPending},
		{StatusClosed, StatusEscalated},
		{StatusEscalated, StatusClosed},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusEscalated.IsTerminal())
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityNormal))
	assert.True(t, ValidPriority(PriorityHigh))
	assert.True(t, ValidPriority(PriorityCritical))
	assert.False(t, ValidPriority(0))
	assert.False(t, ValidPriority(4))
}

func TestRankIsValid(t *testing.T) {
	assert.True(t, RankJunior.IsValid())
	assert.True(t, RankSenior.IsValid())
	assert.True(t, RankHead.IsValid())
	assert.False(t, Rank("supervisor").IsValid())
}

func TestActorDisplayName(t *testing.T) {
	named := Actor{UserID: 7, Name: "Asha Rao", Role: RoleOfficer}
	assert.Equal(t, "Asha Rao", named.DisplayName())

	unnamed := Actor{UserID: 42, Role: RoleCitizen}
	assert.Equal(t, "user#42", unnamed.DisplayName())

	assert.Equal(t, "System", SystemActor.DisplayName())
	assert.True(t, SystemActor.IsSystem())
	assert.False(t, named.IsSystem())
}

func TestSLAVerdictString(t *testing.T) {
	assert.Equal(t, "no_sla", SLANone.String())
	assert.Equal(t, "done", SLADone.String())
	assert.Equal(t, "on_track", SLAOnTrack.String())
	assert.Equal(t, "due", SLADue.String())
	assert.Equal(t, "overdue", SLAOverdue.String())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("title", "must be at least 10 characters")
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "title")
	assert.False(t, IsValidation(ErrNotFound))
}
