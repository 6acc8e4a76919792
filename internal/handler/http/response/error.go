package response

import (
	"errors"
	"net/http"

	"github.com/atlashr/personnel-backend-go/internal/domain/absence"
	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/atlashr/personnel-backend-go/internal/pkg/validator"
	"github.com/atlashr/personnel-backend-go/internal/repository/postgresql"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overlap conflicts carry the blocking request ids
	var conflictErr *leave.ConflictError
	if errors.As(err, &conflictErr) {
		Conflict(w, conflictErr.Error())
		return
	}

	switch {
	// Person domain errors
	case errors.Is(err, person.ErrPersonNotFound):
		NotFound(w, "Person not found")

	// Category registry errors
	case errors.Is(err, category.ErrCategoryNotFound):
		NotFound(w, "Leave category not found")
	case errors.Is(err, category.ErrAbsenceTypeNotFound):
		NotFound(w, "Absence type not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrCancelAfterStart):
		Conflict(w, "Approved leave has already begun")
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "Overlapping leave period")
	case errors.Is(err, leave.ErrAllotmentExceeded):
		BadRequest(w, "Requested days exceed the annual allotment", nil)
	case errors.Is(err, leave.ErrStartDateInPast):
		BadRequest(w, "Start date cannot be in the past", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "Start date must not be after end date", nil)
	case errors.Is(err, leave.ErrEmptyRejectReason):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, leave.ErrReasonNotEditable):
		Conflict(w, "Reason can only be edited while the request is pending")

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence record not found")
	case errors.Is(err, absence.ErrAlreadyProcessed):
		Conflict(w, "Absence record already processed")
	case errors.Is(err, absence.ErrDateInPast):
		BadRequest(w, "Absence date cannot be in the past", nil)
	case errors.Is(err, absence.ErrCeilingReached):
		BadRequest(w, "Annual ceiling reached for this absence type", nil)
	case errors.Is(err, absence.ErrDuplicateAbsence):
		Conflict(w, "An absence already exists on this date")
	case errors.Is(err, absence.ErrCancelPastAbsence):
		Conflict(w, "Absence date has already passed")

	// Concurrency
	case errors.Is(err, postgresql.ErrTxConflict):
		Conflict(w, "Concurrent update conflict, please retry")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
