package leave

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday
var testToday = day(2026, 3, 10)

type fakeRequestRepo struct {
	requests map[string]leave.Request
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	f.seq++
	request.ID = fmt.Sprintf("req-%d", f.seq)
	request.CreatedAt = testToday
	request.UpdatedAt = testToday
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	request, ok := f.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return request, nil
}

func (f *fakeRequestRepo) List(_ context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if filter.PersonID != nil && r.PersonID != *filter.PersonID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRequestRepo) Update(_ context.Context, update leave.UpdateRequest) error {
	request, ok := f.requests[update.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if update.Reason != nil {
		request.Reason = update.Reason
	}
	if update.Status != nil {
		request.Status = *update.Status
	}
	if update.ApproverID != nil {
		request.ApproverID = update.ApproverID
	}
	if update.DecisionTimestamp != nil {
		request.DecisionTimestamp = update.DecisionTimestamp
	}
	if update.RejectionReason != nil {
		request.RejectionReason = update.RejectionReason
	}
	if update.Note != nil {
		request.Note = update.Note
	}
	f.requests[update.ID] = request
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.requests[id]; !ok {
		return leave.ErrRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) FindOverlapping(_ context.Context, personID string, start, end time.Time, excludeID string, blocking leave.BlockingStatuses) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.PersonID != personID || r.ID == excludeID {
			continue
		}
		blocked := false
		for _, s := range blocking {
			if r.Status == s {
				blocked = true
				break
			}
		}
		if !blocked {
			continue
		}
		if Overlaps(r.StartDate, r.EndDate, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) SumApprovedDays(_ context.Context, personID, categoryID string, year int) (int, error) {
	sum := 0
	for _, r := range f.requests {
		if r.PersonID == personID && r.CategoryID == categoryID && r.Year == year && r.Status == leave.StatusApproved {
			sum += r.RequestedDays
		}
	}
	return sum, nil
}

func (f *fakeRequestRepo) HasApprovedCovering(_ context.Context, personID string, d time.Time) (bool, error) {
	for _, r := range f.requests {
		if r.PersonID == personID && r.Status == leave.StatusApproved && r.Covers(d) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRequestRepo) ListApprovedEndedBefore(_ context.Context, d time.Time) ([]leave.Request, error) {
	var out []leave.Request
	for _, r := range f.requests {
		if r.Status == leave.StatusApproved && r.EndDate.Before(d) && r.Note == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePersonRepo struct {
	availability map[string]person.Availability
	failFor      map[string]error
}

func newFakePersonRepo(ids ...string) *fakePersonRepo {
	f := &fakePersonRepo{
		availability: make(map[string]person.Availability),
		failFor:      make(map[string]error),
	}
	for _, id := range ids {
		f.availability[id] = person.AvailabilityActive
	}
	return f
}

func (f *fakePersonRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.availability[id]
	return ok, nil
}

func (f *fakePersonRepo) GetAvailability(_ context.Context, id string) (person.Availability, error) {
	if err := f.failFor[id]; err != nil {
		return "", err
	}
	a, ok := f.availability[id]
	if !ok {
		return "", person.ErrPersonNotFound
	}
	return a, nil
}

func (f *fakePersonRepo) SetAvailability(_ context.Context, id string, a person.Availability) error {
	if err := f.failFor[id]; err != nil {
		return err
	}
	if _, ok := f.availability[id]; !ok {
		return person.ErrPersonNotFound
	}
	f.availability[id] = a
	return nil
}

func (f *fakePersonRepo) ListIDsByAvailability(_ context.Context, a person.Availability) ([]string, error) {
	var ids []string
	for id, have := range f.availability {
		if have == a {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePersonRepo) ListIDsWithApprovedLeaveCovering(_ context.Context, _ time.Time) ([]string, error) {
	return nil, nil
}

type fakeRegistry struct {
	categories map[string]category.LeaveCategory
	types      map[string]category.AbsenceType
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		categories: make(map[string]category.LeaveCategory),
		types:      make(map[string]category.AbsenceType),
	}
}

func (f *fakeRegistry) addCategory(id string, allotment *int) {
	f.categories[id] = category.LeaveCategory{
		ID:              id,
		Code:            "CAT_" + id,
		Label:           category.KnownLabelOf(category.LabelAnnualLeave),
		AnnualAllotment: allotment,
	}
}

func (f *fakeRegistry) GetLeaveCategory(_ context.Context, id string) (category.LeaveCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return category.LeaveCategory{}, category.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeRegistry) ListLeaveCategories(_ context.Context) ([]category.LeaveCategory, error) {
	var out []category.LeaveCategory
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRegistry) GetAbsenceType(_ context.Context, id string) (category.AbsenceType, error) {
	t, ok := f.types[id]
	if !ok {
		return category.AbsenceType{}, category.ErrAbsenceTypeNotFound
	}
	return t, nil
}

func (f *fakeRegistry) ListAbsenceTypes(_ context.Context) ([]category.AbsenceType, error) {
	var out []category.AbsenceType
	for _, t := range f.types {
		out = append(out, t)
	}
	return out, nil
}

func newTestService(repo *fakeRequestRepo, persons *fakePersonRepo, registry *fakeRegistry) *RequestService {
	return &RequestService{
		RequestRepository: repo,
		PersonRepository:  persons,
		Registry:          registry,
		inPersonTx: func(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		now: func() time.Time { return testToday },
	}
}

func intPtr(n int) *int { return &n }

func TestRequestService_Create_Success(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "p1",
		CategoryID: "annual",
		StartDate:  "2026-03-16", // Mon
		EndDate:    "2026-03-20", // Fri
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, created.Status)
	assert.Equal(t, 5, created.RequestedDays)
	assert.Equal(t, 2026, created.Year)
	assert.NotEmpty(t, created.ID)
}

func TestRequestService_Create_InvalidDateRange(t *testing.T) {
	svc := newTestService(newFakeRequestRepo(), newFakePersonRepo("p1"), newFakeRegistry())

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "p1",
		CategoryID: "annual",
		StartDate:  "2026-03-20",
		EndDate:    "2026-03-16",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestRequestService_Create_StartDateInPast(t *testing.T) {
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))
	svc := newTestService(newFakeRequestRepo(), newFakePersonRepo("p1"), registry)

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "p1",
		CategoryID: "annual",
		StartDate:  "2026-03-09", // yesterday
		EndDate:    "2026-03-11",
	})
	assert.ErrorIs(t, err, leave.ErrStartDateInPast)
}

func TestRequestService_Create_UnknownPerson(t *testing.T) {
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))
	svc := newTestService(newFakeRequestRepo(), newFakePersonRepo("p1"), registry)

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "ghost",
		CategoryID: "annual",
		StartDate:  "2026-03-16",
		EndDate:    "2026-03-17",
	})
	assert.ErrorIs(t, err, person.ErrPersonNotFound)
}

func TestRequestService_Create_PendingBlocksOverlap(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	first, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "p1",
		CategoryID: "annual",
		StartDate:  "2026-03-16",
		EndDate:    "2026-03-20",
	})
	require.NoError(t, err)

	// Touching range: starts the day the first one ends
	_, err = svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID:   "p1",
		CategoryID: "annual",
		StartDate:  "2026-03-20",
		EndDate:    "2026-03-24",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	var conflict *leave.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{first.ID}, conflict.ConflictingIDs)
}

func TestRequestService_Create_OtherPersonDoesNotBlock(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1", "p2")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p2", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	assert.NoError(t, err)
}

func TestRequestService_Create_AllotmentExceeded(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(7))

	svc := newTestService(repo, persons, registry)

	// 5 approved days already on the books
	_, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 4, 6), EndDate: day(2026, 4, 10),
		RequestedDays: 5, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	// 3 more would make 8 > 7
	_, err = svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-05-04", EndDate: "2026-05-06",
	})
	assert.ErrorIs(t, err, leave.ErrAllotmentExceeded)

	// 2 more fits exactly
	_, err = svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-05-04", EndDate: "2026-05-05",
	})
	assert.NoError(t, err)
}

func TestRequestService_Create_UnlimitedCategory(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("unpaid", nil)

	svc := newTestService(repo, persons, registry)

	_, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "unpaid", StartDate: "2026-03-16", EndDate: "2026-06-19",
	})
	assert.NoError(t, err)
}

func TestRequestService_Approve_Success(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "mgr-1", *approved.ApproverID)
	assert.NotNil(t, approved.DecisionTimestamp)

	// Leave starts next week, so the person stays active for now
	assert.Equal(t, person.AvailabilityActive, persons.availability["p1"])
}

func TestRequestService_Approve_CoveringTodayFlagsOnLeave(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-10", EndDate: "2026-03-12",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)

	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["p1"])
}

func TestRequestService_Approve_FirstApprovalWins(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	// Two pending requests can coexist only if created before the other
	// exists; seed them directly to simulate the race outcome.
	first, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 16), EndDate: day(2026, 3, 20),
		RequestedDays: 5, Status: leave.StatusPending, Year: 2026,
	})
	require.NoError(t, err)

	second, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 18), EndDate: day(2026, 3, 24),
		RequestedDays: 5, Status: leave.StatusPending, Year: 2026,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: first.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: second.ID, ApproverID: "mgr-1",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestRequestService_Approve_AlreadyProcessed(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)

	// Second approval is refused, not silently absorbed
	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-2",
	})
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestRequestService_Reject(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), leave.RejectRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1", Reason: "understaffed that week",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "understaffed that week", *rejected.RejectionReason)

	// Rejected requests never consume quota
	used, err := repo.SumApprovedDays(context.Background(), "p1", "annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, used)
}

func TestRequestService_Reject_EmptyReason(t *testing.T) {
	svc := newTestService(newFakeRequestRepo(), newFakePersonRepo("p1"), newFakeRegistry())

	_, err := svc.Reject(context.Background(), leave.RejectRequestRequest{
		RequestID: "req-1", ApproverID: "mgr-1", Reason: "",
	})
	assert.Error(t, err)
}

func TestRequestService_Cancel_Pending(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
}

func TestRequestService_Cancel_ApprovedNotStarted(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(repo, newFakePersonRepo("p1"), newFakeRegistry())

	approved, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 16), EndDate: day(2026, 3, 20),
		RequestedDays: 5, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), approved.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
}

func TestRequestService_Cancel_ApprovedStarted(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(repo, newFakePersonRepo("p1"), newFakeRegistry())

	// Started yesterday, still running
	approved, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 9), EndDate: day(2026, 3, 13),
		RequestedDays: 5, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), approved.ID)
	assert.ErrorIs(t, err, leave.ErrCancelAfterStart)
}

func TestRequestService_Cancel_ApprovedStartsToday(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-10", EndDate: "2026-03-13",
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)
	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["p1"])

	// Leave starts today but has not yet passed its start date
	cancelled, err := svc.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	assert.Equal(t, person.AvailabilityActive, persons.availability["p1"])
}

func TestRequestService_Cancel_OtherApprovedLeaveKeepsOnLeave(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)
	persons.availability["p1"] = person.AvailabilityOnLeave

	// A second approved leave still covers today after the cancel
	_, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 9), EndDate: day(2026, 3, 11),
		RequestedDays: 3, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	startsToday, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: testToday, EndDate: day(2026, 3, 13),
		RequestedDays: 4, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), startsToday.ID)
	require.NoError(t, err)
	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["p1"])
}

func TestRequestService_Cancel_Terminal(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(repo, newFakePersonRepo("p1"), newFakeRegistry())

	rejected, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 16), EndDate: day(2026, 3, 20),
		RequestedDays: 5, Status: leave.StatusRejected, Year: 2026,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), rejected.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyProcessed)
}

func TestRequestService_UpdateReason(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))

	svc := newTestService(repo, persons, registry)

	created, err := svc.Create(context.Background(), leave.CreateRequestRequest{
		PersonID: "p1", CategoryID: "annual", StartDate: "2026-03-16", EndDate: "2026-03-20",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateReason(context.Background(), leave.UpdateReasonRequest{
		RequestID: created.ID, Reason: "family trip",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Reason)
	assert.Equal(t, "family trip", *updated.Reason)

	_, err = svc.Approve(context.Background(), leave.ApproveRequestRequest{
		RequestID: created.ID, ApproverID: "mgr-1",
	})
	require.NoError(t, err)

	_, err = svc.UpdateReason(context.Background(), leave.UpdateReasonRequest{
		RequestID: created.ID, Reason: "changed my mind",
	})
	assert.ErrorIs(t, err, leave.ErrReasonNotEditable)
}

func TestRequestService_RemainingAllowance(t *testing.T) {
	repo := newFakeRequestRepo()
	persons := newFakePersonRepo("p1")
	registry := newFakeRegistry()
	registry.addCategory("annual", intPtr(25))
	registry.addCategory("unpaid", nil)

	svc := newTestService(repo, persons, registry)

	_, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 4, 6), EndDate: day(2026, 4, 10),
		RequestedDays: 5, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	// Pending request must not count
	_, err = repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 5, 4), EndDate: day(2026, 5, 8),
		RequestedDays: 5, Status: leave.StatusPending, Year: 2026,
	})
	require.NoError(t, err)

	allowance, err := svc.RemainingAllowance(context.Background(), "p1", "annual", 2026)
	require.NoError(t, err)
	assert.Equal(t, 5, allowance.UsedDays)
	assert.Equal(t, 20, allowance.Remaining)
	assert.False(t, allowance.Unlimited)

	unlimited, err := svc.RemainingAllowance(context.Background(), "p1", "unpaid", 2026)
	require.NoError(t, err)
	assert.True(t, unlimited.Unlimited)
}

func TestRequestService_CanTakeLeaveOn(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := newTestService(repo, newFakePersonRepo("p1"), newFakeRegistry())

	_, err := repo.Create(context.Background(), leave.Request{
		PersonID: "p1", CategoryID: "annual",
		StartDate: day(2026, 3, 16), EndDate: day(2026, 3, 20),
		RequestedDays: 5, Status: leave.StatusApproved, Year: 2026,
	})
	require.NoError(t, err)

	free, err := svc.CanTakeLeaveOn(context.Background(), "p1", day(2026, 3, 18))
	require.NoError(t, err)
	assert.False(t, free)

	free, err = svc.CanTakeLeaveOn(context.Background(), "p1", day(2026, 3, 23))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestRequestService_Get_NotFound(t *testing.T) {
	svc := newTestService(newFakeRequestRepo(), newFakePersonRepo(), newFakeRegistry())

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, leave.ErrRequestNotFound))
}
