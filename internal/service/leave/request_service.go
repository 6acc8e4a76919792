package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/atlashr/personnel-backend-go/internal/pkg/validator"
	"github.com/atlashr/personnel-backend-go/internal/repository/postgresql"
)

// RequestService drives the leave request lifecycle:
// pending -> approved | rejected | cancelled, all three terminal.
type RequestService struct {
	leave.RequestRepository
	person.PersonRepository
	category.Registry

	// inPersonTx serializes check-then-act sequences per person.
	inPersonTx func(ctx context.Context, personID string, fn func(ctx context.Context) error) error

	now func() time.Time
}

func NewRequestService(
	db *database.DB,
	requests leave.RequestRepository,
	persons person.PersonRepository,
	registry category.Registry,
) *RequestService {
	return &RequestService{
		RequestRepository: requests,
		PersonRepository:  persons,
		Registry:          registry,
		inPersonTx: func(ctx context.Context, personID string, fn func(ctx context.Context) error) error {
			return postgresql.WithPersonTx(ctx, db, personID, fn)
		},
		now: time.Now,
	}
}

// Create submits a new leave request. The request enters the machine as
// pending; requested days are the weekdays in the inclusive range, frozen at
// submission time.
func (s *RequestService) Create(ctx context.Context, req leave.CreateRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	if startDate.After(endDate) {
		return leave.Request{}, leave.ErrInvalidDateRange
	}

	today := normalizeDay(s.now())
	if startDate.Before(today) {
		return leave.Request{}, leave.ErrStartDateInPast
	}

	exists, err := s.PersonRepository.Exists(ctx, req.PersonID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return leave.Request{}, person.ErrPersonNotFound
	}

	cat, err := s.Registry.GetLeaveCategory(ctx, req.CategoryID)
	if err != nil {
		return leave.Request{}, err
	}

	requestedDays := CountWeekdays(startDate, endDate)

	var created leave.Request
	err = s.inPersonTx(ctx, req.PersonID, func(txCtx context.Context) error {
		if err := s.checkConflicts(txCtx, req.PersonID, startDate, endDate, "", leave.BlockOnSubmit); err != nil {
			return err
		}

		if err := s.checkAllotment(txCtx, req.PersonID,
			categoryView{ID: cat.ID, AnnualAllotment: cat.AnnualAllotment},
			startDate.Year(), requestedDays); err != nil {
			return err
		}

		created, err = s.RequestRepository.Create(txCtx, leave.Request{
			PersonID:      req.PersonID,
			CategoryID:    req.CategoryID,
			StartDate:     startDate,
			EndDate:       endDate,
			RequestedDays: requestedDays,
			Reason:        req.Reason,
			Status:        leave.StatusPending,
			Year:          startDate.Year(),
		})
		return err
	})
	if err != nil {
		return leave.Request{}, err
	}

	return created, nil
}

// Approve transitions a pending request to approved. Overlap is re-checked
// against approved requests only, so of two overlapping pending requests the
// first approval wins and the second fails here. If the approved range
// already covers today the person is flagged on_leave immediately.
func (s *RequestService) Approve(ctx context.Context, req leave.ApproveRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	var approved leave.Request
	err := s.withRequestTx(ctx, req.RequestID, func(txCtx context.Context, request leave.Request) error {
		if request.Status != leave.StatusPending {
			return leave.ErrAlreadyProcessed
		}

		if err := s.checkConflicts(txCtx, request.PersonID,
			request.StartDate, request.EndDate, request.ID, leave.BlockOnApprove); err != nil {
			return err
		}

		cat, err := s.Registry.GetLeaveCategory(txCtx, request.CategoryID)
		if err != nil {
			return err
		}
		if err := s.checkAllotment(txCtx, request.PersonID,
			categoryView{ID: cat.ID, AnnualAllotment: cat.AnnualAllotment},
			request.Year, request.RequestedDays); err != nil {
			return err
		}

		status := leave.StatusApproved
		decidedAt := s.now()
		if err := s.RequestRepository.Update(txCtx, leave.UpdateRequest{
			ID:                request.ID,
			Status:            &status,
			ApproverID:        &req.ApproverID,
			DecisionTimestamp: &decidedAt,
		}); err != nil {
			return err
		}

		today := normalizeDay(s.now())
		if request.Covers(today) {
			if err := s.PersonRepository.SetAvailability(txCtx, request.PersonID, person.AvailabilityOnLeave); err != nil {
				return fmt.Errorf("failed to flag person on leave: %w", err)
			}
		}

		request.Status = status
		request.ApproverID = &req.ApproverID
		request.DecisionTimestamp = &decidedAt
		approved = request
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	return approved, nil
}

// Reject transitions a pending request to rejected. A reason is mandatory.
func (s *RequestService) Reject(ctx context.Context, req leave.RejectRequestRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	var rejected leave.Request
	err := s.withRequestTx(ctx, req.RequestID, func(txCtx context.Context, request leave.Request) error {
		if request.Status != leave.StatusPending {
			return leave.ErrAlreadyProcessed
		}

		status := leave.StatusRejected
		decidedAt := s.now()
		if err := s.RequestRepository.Update(txCtx, leave.UpdateRequest{
			ID:                request.ID,
			Status:            &status,
			ApproverID:        &req.ApproverID,
			DecisionTimestamp: &decidedAt,
			RejectionReason:   &req.Reason,
		}); err != nil {
			return err
		}

		request.Status = status
		request.ApproverID = &req.ApproverID
		request.DecisionTimestamp = &decidedAt
		request.RejectionReason = &req.Reason
		rejected = request
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	return rejected, nil
}

// Cancel withdraws a request. Pending requests cancel freely. Approved
// requests cancel up to and including their start date; once the start date
// is in the past the leave stays on the books. Cancelling an approved leave
// that covers today reactivates the person immediately unless another
// approved leave still covers the day.
func (s *RequestService) Cancel(ctx context.Context, requestID string) (leave.Request, error) {
	if validator.IsEmpty(requestID) {
		return leave.Request{}, leave.ErrRequestNotFound
	}

	var cancelled leave.Request
	err := s.withRequestTx(ctx, requestID, func(txCtx context.Context, request leave.Request) error {
		today := normalizeDay(s.now())
		wasApproved := request.Status == leave.StatusApproved

		switch request.Status {
		case leave.StatusPending:
			// always cancellable
		case leave.StatusApproved:
			if request.StartDate.Before(today) {
				return leave.ErrCancelAfterStart
			}
		default:
			return leave.ErrAlreadyProcessed
		}

		status := leave.StatusCancelled
		decidedAt := s.now()
		if err := s.RequestRepository.Update(txCtx, leave.UpdateRequest{
			ID:                request.ID,
			Status:            &status,
			DecisionTimestamp: &decidedAt,
		}); err != nil {
			return err
		}

		if wasApproved && request.Covers(today) {
			covered, err := s.RequestRepository.HasApprovedCovering(txCtx, request.PersonID, today)
			if err != nil {
				return fmt.Errorf("failed to check approved cover: %w", err)
			}
			if !covered {
				if err := s.PersonRepository.SetAvailability(txCtx, request.PersonID, person.AvailabilityActive); err != nil {
					return fmt.Errorf("failed to reactivate person: %w", err)
				}
			}
		}

		request.Status = status
		request.DecisionTimestamp = &decidedAt
		cancelled = request
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	return cancelled, nil
}

// UpdateReason edits the free-text reason. Only pending requests are
// editable; decided requests are immutable records.
func (s *RequestService) UpdateReason(ctx context.Context, req leave.UpdateReasonRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	var updated leave.Request
	err := s.withRequestTx(ctx, req.RequestID, func(txCtx context.Context, request leave.Request) error {
		if request.Status != leave.StatusPending {
			return leave.ErrReasonNotEditable
		}

		if err := s.RequestRepository.Update(txCtx, leave.UpdateRequest{
			ID:     request.ID,
			Reason: &req.Reason,
		}); err != nil {
			return err
		}

		request.Reason = &req.Reason
		updated = request
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	return updated, nil
}

func (s *RequestService) Get(ctx context.Context, requestID string) (leave.Request, error) {
	return s.RequestRepository.GetByID(ctx, requestID)
}

// Delete removes a request outright. Administrative escape hatch; normal flow
// is Cancel.
func (s *RequestService) Delete(ctx context.Context, requestID string) error {
	if validator.IsEmpty(requestID) {
		return leave.ErrRequestNotFound
	}
	return s.RequestRepository.Delete(ctx, requestID)
}

func (s *RequestService) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	return s.RequestRepository.List(ctx, filter)
}

// CanTakeLeaveOn reports whether the person has no approved leave covering
// the given day.
func (s *RequestService) CanTakeLeaveOn(ctx context.Context, personID string, day time.Time) (bool, error) {
	covered, err := s.RequestRepository.HasApprovedCovering(ctx, personID, normalizeDay(day))
	if err != nil {
		return false, fmt.Errorf("failed to check approved cover: %w", err)
	}
	return !covered, nil
}

// checkConflicts translates overlapping rows into a ConflictError carrying
// the blocking request ids.
func (s *RequestService) checkConflicts(ctx context.Context, personID string, start, end time.Time, excludeID string, blocking leave.BlockingStatuses) error {
	conflicts, err := s.RequestRepository.FindOverlapping(ctx, personID, start, end, excludeID, blocking)
	if err != nil {
		return fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return &leave.ConflictError{PersonID: personID, ConflictingIDs: ids}
}

// withRequestTx loads the request outside the lock to learn the person, then
// re-reads it inside the per-person transaction before handing it to fn.
func (s *RequestService) withRequestTx(ctx context.Context, requestID string, fn func(ctx context.Context, request leave.Request) error) error {
	peek, err := s.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	return s.inPersonTx(ctx, peek.PersonID, func(txCtx context.Context) error {
		request, err := s.RequestRepository.GetByID(txCtx, requestID)
		if err != nil {
			return err
		}
		return fn(txCtx, request)
	})
}
