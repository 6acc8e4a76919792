package absence

import (
	"context"
	"fmt"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/absence"
	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/atlashr/personnel-backend-go/internal/pkg/validator"
	"github.com/atlashr/personnel-backend-go/internal/repository/postgresql"
)

// RecordService drives the absence record lifecycle:
// pending -> validated | rejected | cancelled. Unlike leave requests,
// absences are single-day and exclusive per date rather than range-overlap
// checked.
type RecordService struct {
	absence.RecordRepository
	person.PersonRepository
	category.Registry

	inPersonTx func(ctx context.Context, personID string, fn func(ctx context.Context) error) error

	now func() time.Time
}

func NewRecordService(
	db *database.DB,
	records absence.RecordRepository,
	persons person.PersonRepository,
	registry category.Registry,
) *RecordService {
	return &RecordService{
		RecordRepository: records,
		PersonRepository: persons,
		Registry:         registry,
		inPersonTx: func(ctx context.Context, personID string, fn func(ctx context.Context) error) error {
			return postgresql.WithPersonTx(ctx, db, personID, fn)
		},
		now: time.Now,
	}
}

// Create declares a new absence. The date must not be in the past, and the
// person must not already have a pending or validated record on that date.
func (s *RecordService) Create(ctx context.Context, req absence.CreateRecordRequest) (absence.Record, error) {
	if err := req.Validate(); err != nil {
		return absence.Record{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	today := normalizeDay(s.now())
	if date.Before(today) {
		return absence.Record{}, absence.ErrDateInPast
	}

	exists, err := s.PersonRepository.Exists(ctx, req.PersonID)
	if err != nil {
		return absence.Record{}, fmt.Errorf("failed to check person: %w", err)
	}
	if !exists {
		return absence.Record{}, person.ErrPersonNotFound
	}

	typ, err := s.Registry.GetAbsenceType(ctx, req.TypeID)
	if err != nil {
		return absence.Record{}, err
	}

	var created absence.Record
	err = s.inPersonTx(ctx, req.PersonID, func(txCtx context.Context) error {
		if err := s.checkDateFree(txCtx, req.PersonID, date); err != nil {
			return err
		}

		if err := s.checkCeiling(txCtx, req.PersonID, typ, date.Year(), 1); err != nil {
			return err
		}

		created, err = s.RecordRepository.Create(txCtx, absence.Record{
			PersonID: req.PersonID,
			TypeID:   req.TypeID,
			Date:     date,
			Duration: absence.Duration(req.Duration),
			Reason:   req.Reason,
			ProofURL: req.ProofURL,
			Status:   absence.StatusPending,
			Year:     date.Year(),
		})
		return err
	})
	if err != nil {
		return absence.Record{}, err
	}

	return created, nil
}

// Validate transitions a pending record to validated. Exclusivity and the
// annual ceiling are re-checked against validated records only, so of two
// pending records on the same date the first validation wins.
func (s *RecordService) Validate(ctx context.Context, recordID, validatorID string) (absence.Record, error) {
	if validator.IsEmpty(recordID) {
		return absence.Record{}, absence.ErrAbsenceNotFound
	}

	var validated absence.Record
	err := s.withRecordTx(ctx, recordID, func(txCtx context.Context, record absence.Record) error {
		if record.Status != absence.StatusPending {
			return absence.ErrAlreadyProcessed
		}

		sameDay, err := s.RecordRepository.FindByPersonAndDate(txCtx, record.PersonID, record.Date)
		if err != nil {
			return fmt.Errorf("failed to check same-date records: %w", err)
		}
		for _, other := range sameDay {
			if other.ID != record.ID && other.Status == absence.StatusValidated {
				return absence.ErrDuplicateAbsence
			}
		}

		typ, err := s.Registry.GetAbsenceType(txCtx, record.TypeID)
		if err != nil {
			return err
		}
		if err := s.checkCeiling(txCtx, record.PersonID, typ, record.Year, 1); err != nil {
			return err
		}

		status := absence.StatusValidated
		if err := s.RecordRepository.Update(txCtx, absence.UpdateRecord{
			ID:          record.ID,
			Status:      &status,
			ValidatorID: &validatorID,
		}); err != nil {
			return err
		}

		record.Status = status
		record.ValidatorID = &validatorID
		validated = record
		return nil
	})
	if err != nil {
		return absence.Record{}, err
	}

	return validated, nil
}

// Reject transitions a pending record to rejected with a mandatory reason.
func (s *RecordService) Reject(ctx context.Context, req absence.RejectRecordRequest) (absence.Record, error) {
	if err := req.Validate(); err != nil {
		return absence.Record{}, err
	}

	var rejected absence.Record
	err := s.withRecordTx(ctx, req.RecordID, func(txCtx context.Context, record absence.Record) error {
		if record.Status != absence.StatusPending {
			return absence.ErrAlreadyProcessed
		}

		status := absence.StatusRejected
		if err := s.RecordRepository.Update(txCtx, absence.UpdateRecord{
			ID:              record.ID,
			Status:          &status,
			ValidatorID:     &req.ValidatorID,
			RejectionReason: &req.Reason,
		}); err != nil {
			return err
		}

		record.Status = status
		record.ValidatorID = &req.ValidatorID
		record.RejectionReason = &req.Reason
		rejected = record
		return nil
	})
	if err != nil {
		return absence.Record{}, err
	}

	return rejected, nil
}

// Cancel withdraws a pending or validated record whose date has not passed.
func (s *RecordService) Cancel(ctx context.Context, recordID string) (absence.Record, error) {
	if validator.IsEmpty(recordID) {
		return absence.Record{}, absence.ErrAbsenceNotFound
	}

	var cancelled absence.Record
	err := s.withRecordTx(ctx, recordID, func(txCtx context.Context, record absence.Record) error {
		switch record.Status {
		case absence.StatusPending, absence.StatusValidated:
		default:
			return absence.ErrAlreadyProcessed
		}

		today := normalizeDay(s.now())
		if record.Date.Before(today) {
			return absence.ErrCancelPastAbsence
		}

		status := absence.StatusCancelled
		if err := s.RecordRepository.Update(txCtx, absence.UpdateRecord{
			ID:     record.ID,
			Status: &status,
		}); err != nil {
			return err
		}

		record.Status = status
		cancelled = record
		return nil
	})
	if err != nil {
		return absence.Record{}, err
	}

	return cancelled, nil
}

func (s *RecordService) Get(ctx context.Context, recordID string) (absence.Record, error) {
	return s.RecordRepository.GetByID(ctx, recordID)
}

// Delete removes a record outright. Administrative escape hatch; normal flow
// is Cancel.
func (s *RecordService) Delete(ctx context.Context, recordID string) error {
	if validator.IsEmpty(recordID) {
		return absence.ErrAbsenceNotFound
	}
	return s.RecordRepository.Delete(ctx, recordID)
}

// IsAbsentOn reports whether the person has a validated absence on the day.
func (s *RecordService) IsAbsentOn(ctx context.Context, personID string, date time.Time) (bool, error) {
	records, err := s.RecordRepository.FindByPersonAndDate(ctx, personID, normalizeDay(date))
	if err != nil {
		return false, fmt.Errorf("failed to check absences: %w", err)
	}
	for _, r := range records {
		if r.Status == absence.StatusValidated {
			return true, nil
		}
	}
	return false, nil
}

func (s *RecordService) List(ctx context.Context, filter absence.RecordFilter) ([]absence.Record, int64, error) {
	return s.RecordRepository.List(ctx, filter)
}

// Remaining reports ceiling consumption for a person, type and year.
func (s *RecordService) Remaining(ctx context.Context, personID, typeID string, year int) (absence.RemainingResponse, error) {
	typ, err := s.Registry.GetAbsenceType(ctx, typeID)
	if err != nil {
		return absence.RemainingResponse{}, err
	}

	used, err := s.RecordRepository.CountValidatedByTypeAndYear(ctx, personID, typeID, year)
	if err != nil {
		return absence.RemainingResponse{}, fmt.Errorf("failed to count validated absences: %w", err)
	}

	resp := absence.RemainingResponse{
		PersonID: personID,
		TypeID:   typeID,
		Year:     year,
		Used:     used,
	}

	if typ.Unbounded() {
		resp.Unlimited = true
		return resp, nil
	}

	remaining := *typ.AnnualCeiling - used
	resp.Remaining = &remaining
	return resp, nil
}

// checkDateFree blocks creation when the person already has a pending or
// validated record on the date.
func (s *RecordService) checkDateFree(ctx context.Context, personID string, date time.Time) error {
	sameDay, err := s.RecordRepository.FindByPersonAndDate(ctx, personID, date)
	if err != nil {
		return fmt.Errorf("failed to check same-date records: %w", err)
	}
	for _, other := range sameDay {
		if other.Status == absence.StatusPending || other.Status == absence.StatusValidated {
			return absence.ErrDuplicateAbsence
		}
	}
	return nil
}

func (s *RecordService) checkCeiling(ctx context.Context, personID string, typ category.AbsenceType, year, adding int) error {
	if typ.Unbounded() {
		return nil
	}

	used, err := s.RecordRepository.CountValidatedByTypeAndYear(ctx, personID, typ.ID, year)
	if err != nil {
		return fmt.Errorf("failed to count validated absences: %w", err)
	}

	if used+adding > *typ.AnnualCeiling {
		return absence.ErrCeilingReached
	}
	return nil
}

func (s *RecordService) withRecordTx(ctx context.Context, recordID string, fn func(ctx context.Context, record absence.Record) error) error {
	peek, err := s.RecordRepository.GetByID(ctx, recordID)
	if err != nil {
		return err
	}

	return s.inPersonTx(ctx, peek.PersonID, func(txCtx context.Context) error {
		record, err := s.RecordRepository.GetByID(txCtx, recordID)
		if err != nil {
			return err
		}
		return fn(txCtx, record)
	})
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
