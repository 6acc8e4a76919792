package person

import (
	"context"
	"time"
)

// PersonRepository is the contract consumed from the person collaborator.
// The engine reads existence and availability, and writes availability only.
type PersonRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetAvailability(ctx context.Context, id string) (Availability, error)
	SetAvailability(ctx context.Context, id string, availability Availability) error

	// ListIDsByAvailability feeds the reconciler's shrink pass: persons
	// currently flagged on_leave whose leave may have ended.
	ListIDsByAvailability(ctx context.Context, availability Availability) ([]string, error)

	// ListIDsWithApprovedLeaveCovering feeds the forward-looking pass:
	// persons with an approved leave range covering the given date,
	// regardless of their current flag.
	ListIDsWithApprovedLeaveCovering(ctx context.Context, date time.Time) ([]string, error)
}
