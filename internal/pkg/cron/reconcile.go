package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/service/reconcile"
)

type availabilityReconciler interface {
	ReconcileAll(ctx context.Context) (reconcile.Summary, error)
	AnnotateEndedLeaves(ctx context.Context) (int, error)
}

type ReconcileJobs struct {
	reconcileSvc availabilityReconciler

	hourlyInterval  time.Duration
	nightlyInterval time.Duration

	now func() time.Time
}

func NewReconcileJobs(reconcileSvc availabilityReconciler, hourlyInterval, nightlyInterval time.Duration) *ReconcileJobs {
	return &ReconcileJobs{
		reconcileSvc:    reconcileSvc,
		hourlyInterval:  hourlyInterval,
		nightlyInterval: nightlyInterval,
		now:             time.Now,
	}
}

func (j *ReconcileJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_availability", j.hourlyInterval, j.ReconcileAvailability)
	scheduler.AddJob("annotate_ended_leaves", j.nightlyInterval, j.AnnotateEndedLeaves)
}

// ReconcileAvailability is the periodic safety net: even if every eager hook
// were missed, the availability flags converge within one interval.
func (j *ReconcileJobs) ReconcileAvailability(ctx context.Context) error {
	slog.Info("Cron: Starting availability reconciliation")

	summary, err := j.reconcileSvc.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile availability: %w", err)
	}

	slog.Info("Cron: Availability reconciliation finished",
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return nil
}

// AnnotateEndedLeaves only does work at midnight (00:00-00:59 UTC); the
// scheduler ticks it more often but off-hours runs are no-ops.
func (j *ReconcileJobs) AnnotateEndedLeaves(ctx context.Context) error {
	if j.now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting ended-leave annotation")

	annotated, err := j.reconcileSvc.AnnotateEndedLeaves(ctx)
	if err != nil {
		return fmt.Errorf("failed to annotate ended leaves: %w", err)
	}

	slog.Info("Cron: Ended-leave annotation finished", "annotated", annotated)
	return nil
}
