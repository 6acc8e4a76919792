package absence

import "errors"

var (
	ErrAbsenceNotFound  = errors.New("absence record not found")
	ErrAlreadyProcessed = errors.New("absence record already processed")

	ErrDateInPast       = errors.New("absence date cannot be in the past")
	ErrCeilingReached   = errors.New("annual ceiling reached for this absence type")
	ErrDuplicateAbsence = errors.New("person already has a validated absence on this date")

	// ErrCancelPastAbsence is returned when cancelling an absence whose
	// date has already passed.
	ErrCancelPastAbsence = errors.New("cannot cancel an absence already in the past")
)
