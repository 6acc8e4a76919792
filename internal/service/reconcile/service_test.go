package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday
var testToday = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakeRequestRepo struct {
	requests map[string]leave.Request
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (f *fakeRequestRepo) addApproved(personID string, start, end time.Time) leave.Request {
	f.seq++
	request := leave.Request{
		ID:        fmt.Sprintf("req-%d", f.seq),
		PersonID:  personID,
		Status:    leave.StatusApproved,
		StartDate: start,
		EndDate:   end,
		Year:      start.Year(),
	}
	f.requests[request.ID] = request
	return request
}

func (f *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	f.seq++
	request.ID = fmt.Sprintf("req-%d", f.seq)
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

func (f *fakeRequestRepo) List(_ context.Context, _ leave.RequestFilter) ([]leave.Request, int64, error) {
	return nil, 0, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, update leave.UpdateRequest) error {
	request, ok := f.requests[update.ID]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if update.Status != nil {
		request.Status = *update.Status
	}
	if update.Note != nil {
		request.Note = update.Note
	}
	f.requests[update.ID] = request
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id string) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) FindOverlapping(_ context.Context, _ string, _, _ time.Time, _ string, _ leave.BlockingStatuses) ([]leave.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) SumApprovedDays(_ context.Context, _, _ string, _ int) (int, error) {
	return 0, nil
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
	requests     *fakeRequestRepo
	failFor      map[string]error
}

func newFakePersonRepo(requests *fakeRequestRepo) *fakePersonRepo {
	return &fakePersonRepo{
		availability: make(map[string]person.Availability),
		requests:     requests,
		failFor:      make(map[string]error),
	}
}

func (f *fakePersonRepo) add(id string, a person.Availability) {
	f.availability[id] = a
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

func (f *fakePersonRepo) ListIDsByAvailability(ctx context.Context, a person.Availability) ([]string, error) {
	var ids []string
	for id, have := range f.availability {
		if have == a {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakePersonRepo) ListIDsWithApprovedLeaveCovering(ctx context.Context, d time.Time) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range f.requests.requests {
		if r.Status != leave.StatusApproved || !r.Covers(d) {
			continue
		}
		if _, ok := seen[r.PersonID]; ok {
			continue
		}
		seen[r.PersonID] = struct{}{}
		ids = append(ids, r.PersonID)
	}
	return ids, nil
}

func newTestService(persons *fakePersonRepo, requests *fakeRequestRepo) *Service {
	return &Service{
		PersonRepository:  persons,
		RequestRepository: requests,
		inPersonTx: func(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		now: func() time.Time { return testToday },
	}
}

func TestReconcilePerson_FlagsOnLeave(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityActive)
	requests.addApproved("p1", day(2026, 3, 9), day(2026, 3, 13))

	svc := newTestService(persons, requests)

	updated, err := svc.ReconcilePerson(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["p1"])

	// Idempotent: a second run is a no-op
	updated, err = svc.ReconcilePerson(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestReconcilePerson_NoRecordsStaysActive(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityActive)

	svc := newTestService(persons, requests)

	updated, err := svc.ReconcilePerson(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, person.AvailabilityActive, persons.availability["p1"])
}

func TestReconcilePerson_ReactivatesAfterLeaveEnds(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityOnLeave)
	requests.addApproved("p1", day(2026, 3, 2), day(2026, 3, 6)) // ended last week

	svc := newTestService(persons, requests)

	updated, err := svc.ReconcilePerson(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, person.AvailabilityActive, persons.availability["p1"])
}

func TestReconcilePerson_BoundaryDays(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityActive)
	persons.add("p2", person.AvailabilityActive)

	// Ends today: still on leave
	requests.addApproved("p1", day(2026, 3, 9), testToday)
	// Starts today: on leave from today
	requests.addApproved("p2", testToday, day(2026, 3, 12))

	svc := newTestService(persons, requests)

	for _, id := range []string{"p1", "p2"} {
		updated, err := svc.ReconcilePerson(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, person.AvailabilityOnLeave, persons.availability[id])
	}
}

func TestReconcileAll_TwoPasses(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)

	// Shrink pass target: flagged on_leave, leave ended
	persons.add("ended", person.AvailabilityOnLeave)
	requests.addApproved("ended", day(2026, 3, 2), day(2026, 3, 6))

	// Forward pass target: active but covered today
	persons.add("starting", person.AvailabilityActive)
	requests.addApproved("starting", day(2026, 3, 10), day(2026, 3, 12))

	// Already consistent
	persons.add("consistent", person.AvailabilityOnLeave)
	requests.addApproved("consistent", day(2026, 3, 9), day(2026, 3, 13))

	// Untouched: active, no leave
	persons.add("idle", person.AvailabilityActive)

	svc := newTestService(persons, requests)

	summary, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, person.AvailabilityActive, persons.availability["ended"])
	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["starting"])
	assert.Equal(t, person.AvailabilityOnLeave, persons.availability["consistent"])
	assert.Equal(t, person.AvailabilityActive, persons.availability["idle"])
}

func TestReconcileAll_Idempotent(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityOnLeave)
	requests.addApproved("p1", day(2026, 3, 2), day(2026, 3, 6))

	svc := newTestService(persons, requests)

	first, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Updated)

	second, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Updated)
}

func TestReconcileAll_IsolatesFailures(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)

	persons.add("broken", person.AvailabilityOnLeave)
	persons.failFor["broken"] = errors.New("boom")

	persons.add("fine", person.AvailabilityOnLeave)
	requests.addApproved("fine", day(2026, 3, 2), day(2026, 3, 6))

	svc := newTestService(persons, requests)

	summary, err := svc.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, person.AvailabilityActive, persons.availability["fine"])
}

func TestReconcileAll_RespectsCancellation(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityOnLeave)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(persons, requests)

	_, err := svc.ReconcileAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnnotateEndedLeaves(t *testing.T) {
	requests := newFakeRequestRepo()
	persons := newFakePersonRepo(requests)
	persons.add("p1", person.AvailabilityOnLeave)

	ended := requests.addApproved("p1", day(2026, 3, 2), day(2026, 3, 6))
	// Running leave must not be annotated
	running := requests.addApproved("p2", day(2026, 3, 9), day(2026, 3, 13))
	persons.add("p2", person.AvailabilityOnLeave)

	svc := newTestService(persons, requests)

	annotated, err := svc.AnnotateEndedLeaves(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, annotated)

	got, err := requests.GetByID(context.Background(), ended.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Note)
	assert.Equal(t, endedLeaveNote, *got.Note)
	assert.Equal(t, person.AvailabilityActive, persons.availability["p1"])

	still, err := requests.GetByID(context.Background(), running.ID)
	require.NoError(t, err)
	assert.Nil(t, still.Note)

	// Second run finds nothing left to annotate
	annotated, err = svc.AnnotateEndedLeaves(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, annotated)
}
