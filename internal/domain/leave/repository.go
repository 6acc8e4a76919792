package leave

import (
	"context"
	"time"
)

// RequestRepository - interface for the leave_requests table.
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
	Update(ctx context.Context, update UpdateRequest) error
	Delete(ctx context.Context, id string) error

	// FindOverlapping returns the requests for personID whose status is in
	// blocking and whose inclusive range overlaps [start, end], excluding
	// excludeID when non-empty.
	FindOverlapping(ctx context.Context, personID string, start, end time.Time, excludeID string, blocking BlockingStatuses) ([]Request, error)

	// SumApprovedDays sums requested_days of approved requests for the
	// person, category and year (quota consumption).
	SumApprovedDays(ctx context.Context, personID, categoryID string, year int) (int, error)

	// HasApprovedCovering reports whether an approved request for the
	// person covers the given day.
	HasApprovedCovering(ctx context.Context, personID string, day time.Time) (bool, error)

	// ListApprovedEndedBefore returns approved requests whose end date is
	// strictly before the given day and that carry no terminal note yet.
	// Feeds the nightly annotation pass.
	ListApprovedEndedBefore(ctx context.Context, day time.Time) ([]Request, error)
}
