package person

import "time"

// Availability is the derived "is this person at work" flag kept on the
// person record for fast querying. It is only ever mutated by the status
// reconciler (or the lifecycle manager's eager reconciliation hook), never
// by a direct edit.
type Availability string

const (
	AvailabilityActive  Availability = "active"
	AvailabilityOnLeave Availability = "on_leave"
)

// Person is the slice of the externally-owned person record this engine
// needs: identity plus the availability flag it reconciles.
type Person struct {
	ID           string
	FullName     string
	Availability Availability
	UpdatedAt    time.Time
}
