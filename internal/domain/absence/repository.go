package absence

import (
	"context"
	"time"
)

// RecordRepository - interface for the absence_records table.
type RecordRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)
	Update(ctx context.Context, update UpdateRecord) error
	Delete(ctx context.Context, id string) error

	// FindByPersonAndDate returns every record for the person on the day,
	// regardless of status; the service decides what blocks.
	FindByPersonAndDate(ctx context.Context, personID string, date time.Time) ([]Record, error)

	// CountValidatedByTypeAndYear counts validated records for the person,
	// type and year (ceiling consumption).
	CountValidatedByTypeAndYear(ctx context.Context, personID, typeID string, year int) (int, error)
}
