package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/service/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	reconcileCalls int
	annotateCalls  int
	err            error
}

func (f *fakeReconciler) ReconcileAll(_ context.Context) (reconcile.Summary, error) {
	f.reconcileCalls++
	return reconcile.Summary{Updated: 1}, f.err
}

func (f *fakeReconciler) AnnotateEndedLeaves(_ context.Context) (int, error) {
	f.annotateCalls++
	return 2, f.err
}

func atHour(h int) func() time.Time {
	return func() time.Time { return time.Date(2026, 3, 10, h, 30, 0, 0, time.UTC) }
}

func TestReconcileAvailability_Delegates(t *testing.T) {
	svc := &fakeReconciler{}
	jobs := NewReconcileJobs(svc, time.Hour, time.Hour)

	require.NoError(t, jobs.ReconcileAvailability(context.Background()))
	assert.Equal(t, 1, svc.reconcileCalls)

	svc.err = errors.New("db down")
	assert.Error(t, jobs.ReconcileAvailability(context.Background()))
}

func TestAnnotateEndedLeaves_MidnightOnly(t *testing.T) {
	svc := &fakeReconciler{}
	jobs := NewReconcileJobs(svc, time.Hour, time.Hour)

	jobs.now = atHour(10)
	require.NoError(t, jobs.AnnotateEndedLeaves(context.Background()))
	assert.Equal(t, 0, svc.annotateCalls)

	jobs.now = atHour(0)
	require.NoError(t, jobs.AnnotateEndedLeaves(context.Background()))
	assert.Equal(t, 1, svc.annotateCalls)
}

func TestRegisterJobs_RunOnce(t *testing.T) {
	svc := &fakeReconciler{}
	jobs := NewReconcileJobs(svc, time.Hour, time.Hour)
	jobs.now = atHour(0)

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler)
	scheduler.RunOnce(context.Background())

	assert.Equal(t, 1, svc.reconcileCalls)
	assert.Equal(t, 1, svc.annotateCalls)
}
