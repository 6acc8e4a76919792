package absence

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusValidated || s == StatusRejected || s == StatusCancelled
}

type Duration string

const (
	DurationFullDay   Duration = "full_day"
	DurationMorning   Duration = "morning"
	DurationAfternoon Duration = "afternoon"
)

// Record is an ad hoc, single-day irregular absence. It follows a simpler
// machine than leave requests: pending -> validated | rejected | cancelled,
// with same-date exclusivity instead of range overlap.
type Record struct {
	ID       string
	PersonID string
	TypeID   string

	Date     time.Time
	Duration Duration

	Reason   *string
	ProofURL *string

	Status          Status
	ValidatorID     *string
	RejectionReason *string

	Year       int
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Joined for responses
	TypeCode   *string
	PersonName *string
}
