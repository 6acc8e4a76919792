package leave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrAlreadyProcessed is returned on any transition attempted out of a
	// terminal state.
	ErrAlreadyProcessed = errors.New("leave request already processed")

	// ErrCancelAfterStart is returned when cancelling an approved leave
	// whose start date is already in the past.
	ErrCancelAfterStart = errors.New("cannot cancel an approved leave that has already begun")

	ErrOverlappingLeave   = errors.New("overlapping leave period")
	ErrAllotmentExceeded  = errors.New("requested days exceed the category's annual allotment")
	ErrStartDateInPast    = errors.New("start date cannot be in the past")
	ErrInvalidDateRange   = errors.New("start date must not be after end date")
	ErrEmptyRejectReason  = errors.New("rejection reason is required")
	ErrReasonNotEditable  = errors.New("reason can only be edited while the request is pending")
)

// ConflictError carries the ids of the requests that block the submitted or
// approved range, so the caller can act on them.
type ConflictError struct {
	PersonID       string
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping leave for person %s (conflicts with %s)",
		e.PersonID, strings.Join(e.ConflictingIDs, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrOverlappingLeave
}
