package services

import (
	"context"
	"fmt"
	"time"

	"civicsaathi/internal/adapters/persistence/models"
	"civicsaathi/internal/core/domain"
)

// fixedClock returns the same instant on every call
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

// fakeComplaintRepo keeps the aggregate in memory and mimics the
// version-guarded write path of the real store.
type fakeComplaintRepo struct {
	complaints  map[uint]*models.Complaint
	logs        []*models.ComplaintLog
	assignments []*models.Assignment
	escalations []*models.ComplaintEscalation
	nextID      uint
	failWrites  bool
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints: make(map[uint]*models.Complaint),
		nextID:     1,
	}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *models.Complaint, initialLog *models.ComplaintLog) error {
	if r.failWrites {
		return fmt.Errorf("write failed")
	}
	complaint.ID = r.nextID
	r.nextID++
	complaint.Version = 1
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now()
	}
	r.complaints[complaint.ID] = complaint
	if initialLog != nil {
		initialLog.ComplaintID = complaint.ID
		r.logs = append(r.logs, initialLog)
	}
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id uint) (*models.Complaint, error) {
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *complaint
	return &copied, nil
}

func (r *fakeComplaintRepo) ListByCitizen(_ context.Context, citizenID uint, status string) ([]*models.Complaint, error) {
	var out []*models.Complaint
	for _, c := range r.complaints {
		if c.CitizenID != citizenID || c.IsDeleted {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeComplaintRepo) ListByDepartment(_ context.Context, deptID uint, _, _ int) ([]*models.Complaint, int64, error) {
	var out []*models.Complaint
	for _, c := range r.complaints {
		if c.DepartmentID != nil && *c.DepartmentID == deptID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeComplaintRepo) ListOpen(_ context.Context) ([]*models.Complaint, error) {
	var out []*models.Complaint
	for _, c := range r.complaints {
		if c.IsOpen() {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeComplaintRepo) ApplyTransition(_ context.Context, complaintID, version uint, updates map[string]interface{},
	log *models.ComplaintLog, assignment *models.Assignment, escalation *models.ComplaintEscalation) error {
	if r.failWrites {
		return fmt.Errorf("write failed")
	}
	complaint, ok := r.complaints[complaintID]
	if !ok || complaint.Version != version {
		return domain.ErrVersionConflict
	}
	for column, value := range updates {
		switch column {
		case "status":
			complaint.Status = value.(string)
		case "priority":
			complaint.Priority = value.(int)
		case "current_officer_id":
			id := value.(uint)
			complaint.CurrentOfficerID = &id
		case "current_worker_id":
			id := value.(uint)
			complaint.CurrentWorkerID = &id
		case "resolved_at":
			complaint.ResolvedAt = value.(*time.Time)
		case "is_spam":
			complaint.IsSpam = value.(bool)
		case "is_deleted":
			complaint.IsDeleted = value.(bool)
		}
	}
	complaint.Version = version + 1
	if log != nil {
		log.ComplaintID = complaintID
		r.logs = append(r.logs, log)
	}
	if assignment != nil {
		assignment.ComplaintID = complaintID
		r.assignments = append(r.assignments, assignment)
	}
	if escalation != nil {
		escalation.ComplaintID = complaintID
		escalation.EscalatedAt = time.Now()
		r.escalations = append(r.escalations, escalation)
	}
	return nil
}

func (r *fakeComplaintRepo) GetLogs(_ context.Context, complaintID uint) ([]*models.ComplaintLog, error) {
	var out []*models.ComplaintLog
	for _, l := range r.logs {
		if l.ComplaintID == complaintID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeComplaintRepo) CountByCitizen(_ context.Context, citizenID uint, statuses []string) (int64, error) {
	var count int64
	for _, c := range r.complaints {
		if c.CitizenID != citizenID || c.IsDeleted {
			continue
		}
		if len(statuses) == 0 {
			count++
			continue
		}
		for _, st := range statuses {
			if c.Status == st {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountByDepartment(_ context.Context, deptID uint, status string) (int64, error) {
	var count int64
	for _, c := range r.complaints {
		if c.DepartmentID != nil && *c.DepartmentID == deptID && (status == "" || c.Status == status) {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountAssignedStage(_ context.Context, deptID uint) (int64, error) {
	var count int64
	for _, c := range r.complaints {
		if c.DepartmentID != nil && *c.DepartmentID == deptID && c.Stage() == "assigned" {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) CountResolvedSince(_ context.Context, deptID uint, since time.Time) (int64, error) {
	var count int64
	for _, c := range r.complaints {
		if c.DepartmentID != nil && *c.DepartmentID == deptID &&
			c.ResolvedAt != nil && c.ResolvedAt.After(since) {
			count++
		}
	}
	return count, nil
}

// fakeMasterRepo serves categories and SLA configs from maps
type fakeMasterRepo struct {
	departments map[uint]*models.Department
	categories  map[uint]*models.ComplaintCategory
	slaConfigs  map[uint]*models.SLAConfig // by category id
}

func newFakeMasterRepo() *fakeMasterRepo {
	return &fakeMasterRepo{
		departments: make(map[uint]*models.Department),
		categories:  make(map[uint]*models.ComplaintCategory),
		slaConfigs:  make(map[uint]*models.SLAConfig),
	}
}

func (r *fakeMasterRepo) ListDepartments(_ context.Context) ([]*models.Department, error) {
	var out []*models.Department
	for _, d := range r.departments {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeMasterRepo) GetDepartment(_ context.Context, id uint) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (r *fakeMasterRepo) ListCategories(_ context.Context) ([]*models.ComplaintCategory, error) {
	var out []*models.ComplaintCategory
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeMasterRepo) GetCategory(_ context.Context, id uint) (*models.ComplaintCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeMasterRepo) SaveSLAConfig(_ context.Context, sla *models.SLAConfig) error {
	r.slaConfigs[sla.CategoryID] = sla
	return nil
}

// fakeStaffRepo serves officers and workers from maps; the escalation
// target is set explicitly by the test.
type fakeStaffRepo struct {
	officers         map[uint]*models.Officer
	workers          map[uint]*models.Worker
	escalationTarget *models.Officer
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		officers: make(map[uint]*models.Officer),
		workers:  make(map[uint]*models.Worker),
	}
}

func (r *fakeStaffRepo) GetOfficerByID(_ context.Context, id uint) (*models.Officer, error) {
	o, ok := r.officers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (r *fakeStaffRepo) GetOfficerByUserID(_ context.Context, userID uint) (*models.Officer, error) {
	for _, o := range r.officers {
		if o.UserID == userID {
			return o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStaffRepo) GetWorkerByID(_ context.Context, id uint) (*models.Worker, error) {
	w, ok := r.workers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (r *fakeStaffRepo) GetWorkerByUserID(_ context.Context, userID uint) (*models.Worker, error) {
	for _, w := range r.workers {
		if w.UserID == userID {
			return w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStaffRepo) ListWorkersByDepartment(_ context.Context, deptID uint, activeOnly bool) ([]*models.Worker, error) {
	var out []*models.Worker
	for _, w := range r.workers {
		if w.DepartmentID != deptID {
			continue
		}
		if activeOnly && !w.IsActive {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *fakeStaffRepo) ListActiveWorkers(_ context.Context) ([]*models.Worker, error) {
	var out []*models.Worker
	for _, w := range r.workers {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) FindEscalationTarget(_ context.Context, _ uint, excludeOfficerID uint) (*models.Officer, error) {
	if r.escalationTarget != nil && r.escalationTarget.ID == excludeOfficerID {
		return nil, nil
	}
	return r.escalationTarget, nil
}

// fakeEscalationRepo reads escalation history written by the complaint repo
type fakeEscalationRepo struct {
	complaintRepo *fakeComplaintRepo
}

func (r *fakeEscalationRepo) HasEscalationSince(_ context.Context, complaintID uint, since time.Time) (bool, error) {
	for _, e := range r.complaintRepo.escalations {
		if e.ComplaintID == complaintID && e.EscalatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEscalationRepo) ListByComplaint(_ context.Context, complaintID uint) ([]*models.ComplaintEscalation, error) {
	var out []*models.ComplaintEscalation
	for _, e := range r.complaintRepo.escalations {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeNotifier records dispatched events
type fakeNotifier struct {
	events []domain.NotificationEvent
}

func (n *fakeNotifier) Notify(event domain.NotificationEvent, _ *models.Complaint) {
	n.events = append(n.events, event)
}

// fakeUserRepo serves users for the OTP flow
type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

// fakeRefreshTokenRepo counts revocations
type fakeRefreshTokenRepo struct {
	revokedUserIDs []uint
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, _ *models.RefreshToken) error { return nil }

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, _ string) (*models.RefreshToken, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, _ uint) error { return nil }

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, _ string) error { return nil }

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.revokedUserIDs = append(r.revokedUserIDs, userID)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error { return nil }

// fakeAttendanceRepo keeps attendance rows keyed by worker and day
type fakeAttendanceRepo struct {
	records map[string]*models.WorkerAttendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*models.WorkerAttendance)}
}

func attendanceKey(workerID uint, date time.Time) string {
	return fmt.Sprintf("%d-%s", workerID, date.Format("2006-01-02"))
}

func (r *fakeAttendanceRepo) Upsert(_ context.Context, att *models.WorkerAttendance) error {
	r.records[attendanceKey(att.WorkerID, att.Date)] = att
	return nil
}

func (r *fakeAttendanceRepo) Create(_ context.Context, att *models.WorkerAttendance) error {
	r.records[attendanceKey(att.WorkerID, att.Date)] = att
	return nil
}

func (r *fakeAttendanceRepo) Exists(_ context.Context, workerID uint, date time.Time) (bool, error) {
	_, ok := r.records[attendanceKey(workerID, date)]
	return ok, nil
}

func (r *fakeAttendanceRepo) ListForDate(_ context.Context, workerIDs []uint, date time.Time) ([]*models.WorkerAttendance, error) {
	var out []*models.WorkerAttendance
	for _, id := range workerIDs {
		if att, ok := r.records[attendanceKey(id, date)]; ok {
			out = append(out, att)
		}
	}
	return out, nil
}
