package report

import (
	"context"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
)

// Repository - read-only projections over leave_requests and
// absence_records for dashboards.
type Repository interface {
	CountRequestsByStatus(ctx context.Context, year int) (map[string]int64, error)
	CountRequestsByCategory(ctx context.Context, year int) (map[string]int64, error)
	CountAbsencesByStatus(ctx context.Context, year int) (map[string]int64, error)
	CountAbsencesByType(ctx context.Context, year int) (map[string]int64, error)

	// StartingSoon returns approved requests starting in [today, until].
	StartingSoon(ctx context.Context, today, until time.Time) ([]leave.Request, error)

	// CurrentlyOnLeave returns approved requests whose range covers today.
	CurrentlyOnLeave(ctx context.Context, today time.Time) ([]leave.Request, error)
}
