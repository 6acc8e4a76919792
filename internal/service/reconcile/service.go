package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/atlashr/personnel-backend-go/internal/repository/postgresql"
)

// endedLeaveNote is stamped on an approved request once the nightly pass has
// observed it ended and reactivated the person.
const endedLeaveNote = "leave ended - person reactivated automatically"

// Service keeps the person availability flag consistent with the approved
// leave calendar. The flag is derived state: a person is on_leave exactly
// while an approved request covers today, active otherwise.
type Service struct {
	person.PersonRepository
	leave.RequestRepository

	inPersonTx func(ctx context.Context, personID string, fn func(ctx context.Context) error) error

	now func() time.Time
}

func NewService(
	db *database.DB,
	persons person.PersonRepository,
	requests leave.RequestRepository,
) *Service {
	return &Service{
		PersonRepository:  persons,
		RequestRepository: requests,
		inPersonTx: func(ctx context.Context, personID string, fn func(ctx context.Context) error) error {
			return postgresql.WithPersonTx(ctx, db, personID, fn)
		},
		now: time.Now,
	}
}

// Summary reports a batch run. Updated counts persons whose flag changed,
// Skipped counts persons that were already consistent, Failed counts persons
// whose reconciliation errored and was isolated.
type Summary struct {
	Updated int
	Skipped int
	Failed  int
}

// ReconcilePerson recomputes one person's availability from the approved
// calendar. It is idempotent: running it twice in a row changes nothing the
// second time. Returns whether the flag was updated.
func (s *Service) ReconcilePerson(ctx context.Context, personID string) (bool, error) {
	updated := false
	err := s.inPersonTx(ctx, personID, func(txCtx context.Context) error {
		current, err := s.PersonRepository.GetAvailability(txCtx, personID)
		if err != nil {
			return err
		}

		today := normalizeDay(s.now())
		covered, err := s.RequestRepository.HasApprovedCovering(txCtx, personID, today)
		if err != nil {
			return fmt.Errorf("failed to check approved cover: %w", err)
		}

		want := person.AvailabilityActive
		if covered {
			want = person.AvailabilityOnLeave
		}

		if current == want {
			return nil
		}

		if err := s.PersonRepository.SetAvailability(txCtx, personID, want); err != nil {
			return fmt.Errorf("failed to set availability: %w", err)
		}
		updated = true
		return nil
	})
	return updated, err
}

// ReconcileAll runs the batch algorithm in two passes: first the shrink pass
// over persons currently flagged on_leave (whose leave may have ended), then
// the forward-looking pass over persons with an approved range covering
// today (who may not be flagged yet). A failure on one person is logged and
// does not stop the batch.
func (s *Service) ReconcileAll(ctx context.Context) (Summary, error) {
	var summary Summary

	onLeave, err := s.PersonRepository.ListIDsByAvailability(ctx, person.AvailabilityOnLeave)
	if err != nil {
		return summary, fmt.Errorf("failed to list persons on leave: %w", err)
	}

	today := normalizeDay(s.now())
	covered, err := s.PersonRepository.ListIDsWithApprovedLeaveCovering(ctx, today)
	if err != nil {
		return summary, fmt.Errorf("failed to list persons with covering leave: %w", err)
	}

	seen := make(map[string]struct{}, len(onLeave)+len(covered))
	for _, id := range append(onLeave, covered...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		changed, err := s.ReconcilePerson(ctx, id)
		if err != nil {
			summary.Failed++
			slog.Error("person reconciliation failed", "person_id", id, "error", err)
			continue
		}
		if changed {
			summary.Updated++
		} else {
			summary.Skipped++
		}
	}

	return summary, nil
}

// AnnotateEndedLeaves is the nightly-only pass: approved requests whose end
// date has passed and that carry no note yet get the terminal annotation,
// after the owning person has been reconciled.
func (s *Service) AnnotateEndedLeaves(ctx context.Context) (int, error) {
	today := normalizeDay(s.now())

	ended, err := s.RequestRepository.ListApprovedEndedBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list ended leaves: %w", err)
	}

	annotated := 0
	for _, request := range ended {
		if err := ctx.Err(); err != nil {
			return annotated, err
		}

		if _, err := s.ReconcilePerson(ctx, request.PersonID); err != nil {
			slog.Error("person reconciliation failed", "person_id", request.PersonID, "error", err)
			continue
		}

		note := endedLeaveNote
		if err := s.RequestRepository.Update(ctx, leave.UpdateRequest{
			ID:   request.ID,
			Note: &note,
		}); err != nil {
			slog.Error("failed to annotate ended leave", "request_id", request.ID, "error", err)
			continue
		}
		annotated++
	}

	return annotated, nil
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
