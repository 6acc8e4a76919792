package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/person"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type personRepositoryImpl struct {
	db *database.DB
}

func NewPersonRepository(db *database.DB) person.PersonRepository {
	return &personRepositoryImpl{db: db}
}

func (r *personRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (SELECT 1 FROM persons WHERE id = $1)
	`

	var exists bool
	err := q.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *personRepositoryImpl) GetAvailability(ctx context.Context, id string) (person.Availability, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT availability FROM persons WHERE id = $1
	`

	var availability person.Availability
	err := q.QueryRow(ctx, query, id).Scan(&availability)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", person.ErrPersonNotFound
		}
		return "", err
	}

	return availability, nil
}

func (r *personRepositoryImpl) SetAvailability(ctx context.Context, id string, availability person.Availability) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE persons SET availability = $1, updated_at = NOW() WHERE id = $2 RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, availability, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return person.ErrPersonNotFound
		}
		return fmt.Errorf("failed to update availability for person %s: %w", id, err)
	}
	return nil
}

func (r *personRepositoryImpl) ListIDsByAvailability(ctx context.Context, availability person.Availability) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM persons WHERE availability = $1 ORDER BY id ASC
	`

	rows, err := q.Query(ctx, query, availability)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons by availability: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan person id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

func (r *personRepositoryImpl) ListIDsWithApprovedLeaveCovering(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT p.id
		FROM persons p
		JOIN leave_requests lr ON lr.person_id = p.id
		WHERE lr.status = 'approved'
		  AND lr.start_date <= $1
		  AND lr.end_date >= $1
		ORDER BY p.id ASC
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons with covering leave: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan person id: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}
