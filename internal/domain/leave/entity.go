package leave

import "time"

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Request is a planned, multi-day leave subject to approval and annual
// quota. StartDate and EndDate are an inclusive calendar-day range.
type Request struct {
	ID         string
	PersonID   string
	CategoryID string

	StartDate time.Time
	EndDate   time.Time

	// RequestedDays is the count of weekdays in [StartDate, EndDate],
	// computed at creation time and immutable afterwards.
	RequestedDays int

	Reason *string
	Status RequestStatus

	ApproverID        *string
	DecisionTimestamp *time.Time
	RejectionReason   *string

	// Note is a terminal annotation written by the nightly reconciliation
	// pass when an ended leave triggered a person reactivation.
	Note *string

	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for responses
	CategoryCode *string
	PersonName   *string
}

// Covers reports whether the request's range includes the given day.
func (r Request) Covers(day time.Time) bool {
	return !day.Before(r.StartDate) && !day.After(r.EndDate)
}

// BlockingStatuses is a set of statuses that make an existing request count
// as a conflict for an overlapping range.
type BlockingStatuses []RequestStatus

var (
	// BlockOnSubmit is checked when a new request is submitted.
	BlockOnSubmit = BlockingStatuses{StatusPending, StatusApproved}
	// BlockOnApprove is re-checked when a pending request is approved.
	BlockOnApprove = BlockingStatuses{StatusApproved}
)

// Allowance is the consumed-vs-remaining view for a person, category and
// year. Unlimited is set when the category carries no annual allotment; in
// that case Remaining is meaningless.
type Allowance struct {
	PersonID   string
	CategoryID string
	Year       int
	Allotment  *int
	UsedDays   int
	Remaining  int
	Unlimited  bool
}
