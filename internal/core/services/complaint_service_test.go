package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

type complaintFixture struct {
	service       *ComplaintService
	complaintRepo *fakeComplaintRepo
	masterRepo    *fakeMasterRepo
	staffRepo     *fakeStaffRepo
	notifier      *fakeNotifier
	clock         *fixedClock
}

func newComplaintFixture() *complaintFixture {
	complaintRepo := newFakeComplaintRepo()
	masterRepo := newFakeMasterRepo()
	staffRepo := newFakeStaffRepo()
	escalationRepo := &fakeEscalationRepo{complaintRepo: complaintRepo}
	notifier := &fakeNotifier{}
	clock := &fixedClock{now: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)}

	masterRepo.departments[1] = &models.Department{ID: 1, Name: "Sanitation"}
	masterRepo.categories[1] = &models.ComplaintCategory{ID: 1, Name: "Garbage not collected", DepartmentID: 1}

	staffRepo.officers[1] = &models.Officer{
		ID: 1, UserID: 10, DepartmentID: 1, Rank: "junior",
		User: &models.User{ID: 10, Username: "officer1", FullName: "Officer One"},
	}
	staffRepo.officers[2] = &models.Officer{
		ID: 2, UserID: 11, DepartmentID: 1, Rank: "senior",
		User: &models.User{ID: 11, Username: "officer2", FullName: "Officer Two"},
	}
	staffRepo.workers[1] = &models.Worker{
		ID: 1, UserID: 20, DepartmentID: 1, IsActive: true,
		User: &models.User{ID: 20, Username: "worker1", FullName: "Worker One"},
	}

	return &complaintFixture{
		service:       NewComplaintService(complaintRepo, masterRepo, staffRepo, escalationRepo, notifier, clock),
		complaintRepo: complaintRepo,
		masterRepo:    masterRepo,
		staffRepo:     staffRepo,
		notifier:      notifier,
		clock:         clock,
	}
}

func citizenActor() *domain.Actor {
	return &domain.Actor{UserID: 100, Name: "Ravi Kumar", Role: domain.RoleCitizen}
}

func officerActor() *domain.Actor {
	return &domain.Actor{UserID: 10, Name: "Officer One", Role: domain.RoleOfficer, OfficerID: 1}
}

func validCreateInput() *CreateComplaintInput {
	categoryID := uint(1)
	return &CreateComplaintInput{
		CategoryID:  &categoryID,
		Title:       "Garbage pile on MG Road",
		Description: "Garbage has not been collected for four days near the market entrance.",
		Location:    "MG Road, Ward 12",
	}
}

func TestCreateComplaint(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, "pending", complaint.Status)
	assert.Equal(t, domain.PriorityNormal, complaint.Priority)
	assert.Equal(t, uint(100), complaint.CitizenID)
	require.NotNil(t, complaint.DepartmentID)
	assert.Equal(t, uint(1), *complaint.DepartmentID, "department derived from the category")
	assert.True(t, strings.HasPrefix(complaint.ReferenceNo, "CMP-"))

	logs, err := f.complaintRepo.GetLogs(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "pending", logs[0].NewStatus)
	assert.Equal(t, "Ravi Kumar", logs[0].ActionByName)

	assert.Equal(t, []domain.NotificationEvent{domain.EventRegistered}, f.notifier.events)
}

func TestCreateComplaintValidation(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateComplaintInput)
	}{
		{"short title", func(in *CreateComplaintInput) { in.Title = "Garbage" }},
		{"short description", func(in *CreateComplaintInput) { in.Description = "Too short" }},
		{"missing location", func(in *CreateComplaintInput) { in.Location = "  " }},
		{"priority out of range", func(in *CreateComplaintInput) { in.Priority = 5 }},
	}
	for _, tc := range cases {
		input := validCreateInput()
		tc.mutate(input)
		_, err := f.service.Create(ctx, citizenActor(), input)
		assert.True(t, domain.IsValidation(err), "%s should fail validation", tc.name)
	}

	// Unknown category
	input := validCreateInput()
	badCategory := uint(99)
	input.CategoryID = &badCategory
	_, err := f.service.Create(ctx, citizenActor(), input)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	assert.Empty(t, f.complaintRepo.complaints, "no complaint may be written on a rejected input")
}

func TestCreateComplaintWithoutCategory(t *testing.T) {
	f := newComplaintFixture()
	input := validCreateInput()
	input.CategoryID = nil

	complaint, err := f.service.Create(context.Background(), citizenActor(), input)
	require.NoError(t, err)
	assert.Nil(t, complaint.CategoryID)
	assert.Nil(t, complaint.DepartmentID, "no department without a category")
}

func TestChangeStatusHappyPath(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.ChangeStatus(ctx, complaint.ID, "in_progress", officerActor(), "Crew dispatched")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", updated.Status)
	assert.Equal(t, uint(2), updated.Version)

	updated, err = f.service.ChangeStatus(ctx, complaint.ID, "resolved", officerActor(), "")
	require.NoError(t, err)
	assert.Equal(t, "resolved", updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, f.clock.now, *updated.ResolvedAt)

	logs, _ := f.complaintRepo.GetLogs(ctx, complaint.ID)
	assert.Len(t, logs, 3, "registration plus two transitions")
}

func TestChangeStatusRejectsIllegalMoves(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, complaint.ID, "resolved", officerActor(), "")
	assert.True(t, domain.IsValidation(err), "pending cannot jump to resolved")

	_, err = f.service.ChangeStatus(ctx, complaint.ID, "reopened", officerActor(), "")
	assert.True(t, domain.IsValidation(err), "unknown status is rejected")

	stored, _ := f.complaintRepo.GetByID(ctx, complaint.ID)
	assert.Equal(t, "pending", stored.Status)
	assert.Equal(t, uint(1), stored.Version, "rejected moves must not bump the version")
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.ChangeStatus(ctx, complaint.ID, "pending", officerActor(), "")
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.Version)

	logs, _ := f.complaintRepo.GetLogs(ctx, complaint.ID)
	assert.Len(t, logs, 1, "no-op writes no log row")
}

func TestAssignOfficer(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.AssignOfficer(ctx, complaint.ID, 1, officerActor())
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentOfficerID)
	assert.Equal(t, uint(1), *updated.CurrentOfficerID)
	assert.Equal(t, "pending", updated.Status, "officer assignment never changes status")

	// Same officer again: no-op, no new log
	before := len(f.complaintRepo.logs)
	_, err = f.service.AssignOfficer(ctx, complaint.ID, 1, officerActor())
	require.NoError(t, err)
	assert.Equal(t, before, len(f.complaintRepo.logs))

	_, err = f.service.AssignOfficer(ctx, complaint.ID, 99, officerActor())
	assert.ErrorIs(t, err, ErrOfficerNotFound)
}

func TestAssignWorker(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.AssignWorker(ctx, complaint.ID, 1, officerActor(), "")
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentWorkerID)
	assert.Equal(t, "pending", updated.Status)
	assert.Equal(t, "assigned", updated.Stage(), "pending with worker shows the assigned stage")

	require.Len(t, f.complaintRepo.assignments, 1)
	assignment := f.complaintRepo.assignments[0]
	require.NotNil(t, assignment.AssignedToWorkerID)
	assert.Equal(t, uint(1), *assignment.AssignedToWorkerID)
	require.NotNil(t, assignment.AssignedByOfficerID)
	assert.Equal(t, uint(1), *assignment.AssignedByOfficerID)

	assert.Contains(t, f.notifier.events, domain.EventWorkerAssigned)

	// Repeat with same worker: append-only history gains nothing
	_, err = f.service.AssignWorker(ctx, complaint.ID, 1, officerActor(), "")
	require.NoError(t, err)
	assert.Len(t, f.complaintRepo.assignments, 1)
}

func TestEscalateWithExplicitTarget(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)
	_, err = f.service.AssignOfficer(ctx, complaint.ID, 1, officerActor())
	require.NoError(t, err)

	target := uint(2)
	updated, err := f.service.Escalate(ctx, complaint.ID, officerActor(), &EscalateInput{
		Reason:      "No action after repeated site visits",
		ToOfficerID: &target,
	})
	require.NoError(t, err)

	assert.Equal(t, "escalated", updated.Status)
	assert.Equal(t, domain.PriorityCritical, updated.Priority, "escalation forces critical priority")
	require.NotNil(t, updated.CurrentOfficerID)
	assert.Equal(t, uint(2), *updated.CurrentOfficerID)

	require.Len(t, f.complaintRepo.escalations, 1)
	esc := f.complaintRepo.escalations[0]
	require.NotNil(t, esc.EscalatedFromID)
	assert.Equal(t, uint(1), *esc.EscalatedFromID)
	require.NotNil(t, esc.EscalatedToID)
	assert.Equal(t, uint(2), *esc.EscalatedToID)

	assert.Contains(t, f.notifier.events, domain.EventEscalated)
}

func TestEscalateUsesRankLookup(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()
	f.staffRepo.escalationTarget = f.staffRepo.officers[2]

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.Escalate(ctx, complaint.ID, officerActor(), &EscalateInput{
		Reason: "SLA breach reported by citizen",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CurrentOfficerID)
	assert.Equal(t, uint(2), *updated.CurrentOfficerID)
}

func TestEscalateWithoutCandidateKeepsOfficer(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()
	f.staffRepo.escalationTarget = nil

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	updated, err := f.service.Escalate(ctx, complaint.ID, officerActor(), &EscalateInput{
		Reason: "Nobody senior available",
	})
	require.NoError(t, err)
	assert.Equal(t, "escalated", updated.Status)
	assert.Nil(t, updated.CurrentOfficerID, "no reassignment without a candidate")
}

func TestEscalateRejectsTerminalAndEmptyReason(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	_, err = f.service.Escalate(ctx, complaint.ID, officerActor(), &EscalateInput{Reason: "  "})
	assert.True(t, domain.IsValidation(err))

	_, err = f.service.ChangeStatus(ctx, complaint.ID, "in_progress", officerActor(), "")
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(ctx, complaint.ID, "resolved", officerActor(), "")
	require.NoError(t, err)

	_, err = f.service.Escalate(ctx, complaint.ID, officerActor(), &EscalateInput{Reason: "too late"})
	assert.True(t, domain.IsValidation(err), "terminal complaints cannot be escalated")
}

func TestConcurrentTransitionIsRejected(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	// Another writer bumps the version between read and write
	// by updating the stored row directly.
	stored := f.complaintRepo.complaints[complaint.ID]
	err = f.complaintRepo.ApplyTransition(ctx, complaint.ID, stored.Version,
		map[string]interface{}{"status": "in_progress"}, nil, nil, nil)
	require.NoError(t, err)

	// The service read version 1 but the row is now at version 2
	err = f.complaintRepo.ApplyTransition(ctx, complaint.ID, 1,
		map[string]interface{}{"status": "escalated"}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestMarkSpamAndSoftDelete(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	complaint, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, f.service.MarkSpam(ctx, complaint.ID, officerActor()))
	stored, _ := f.complaintRepo.GetByID(ctx, complaint.ID)
	assert.True(t, stored.IsSpam)
	assert.False(t, stored.IsOpen(), "spam complaints leave the sweep population")

	// Second call is a no-op
	before := len(f.complaintRepo.logs)
	require.NoError(t, f.service.MarkSpam(ctx, complaint.ID, officerActor()))
	assert.Equal(t, before, len(f.complaintRepo.logs))

	require.NoError(t, f.service.SoftDelete(ctx, complaint.ID, citizenActor()))
	stored, _ = f.complaintRepo.GetByID(ctx, complaint.ID)
	assert.True(t, stored.IsDeleted)
}

func TestMyStats(t *testing.T) {
	f := newComplaintFixture()
	ctx := context.Background()

	first, err := f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)
	_, err = f.service.Create(ctx, citizenActor(), validCreateInput())
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(ctx, first.ID, "in_progress", officerActor(), "")
	require.NoError(t, err)

	stats, err := f.service.MyStats(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats["total"])
	assert.Equal(t, int64(1), stats["pending"])
	assert.Equal(t, int64(1), stats["in_progress"])
	assert.Equal(t, int64(0), stats["resolved"])
}

func TestGetByIDNotFound(t *testing.T) {
	f := newComplaintFixture()
	_, err := f.service.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}
