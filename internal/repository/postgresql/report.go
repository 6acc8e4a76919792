package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/report"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) countGrouped(ctx context.Context, query string, year int) (map[string]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan grouped count: %w", err)
		}
		counts[key] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}

func (r *reportRepositoryImpl) CountRequestsByStatus(ctx context.Context, year int) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT status, COUNT(*)
		FROM leave_requests
		WHERE year = $1
		GROUP BY status
	`, year)
}

func (r *reportRepositoryImpl) CountRequestsByCategory(ctx context.Context, year int) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT lc.code, COUNT(*)
		FROM leave_requests lr
		JOIN leave_categories lc ON lr.category_id = lc.id
		WHERE lr.year = $1
		GROUP BY lc.code
	`, year)
}

func (r *reportRepositoryImpl) CountAbsencesByStatus(ctx context.Context, year int) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT status, COUNT(*)
		FROM absence_records
		WHERE year = $1
		GROUP BY status
	`, year)
}

func (r *reportRepositoryImpl) CountAbsencesByType(ctx context.Context, year int) (map[string]int64, error) {
	return r.countGrouped(ctx, `
		SELECT at.code, COUNT(*)
		FROM absence_records ar
		JOIN absence_types at ON ar.type_id = at.id
		WHERE ar.year = $1
		GROUP BY at.code
	`, year)
}

func (r *reportRepositoryImpl) listApproved(ctx context.Context, condition string, args ...interface{}) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `,
			   lc.code as category_code,
			   p.full_name as person_name
		FROM leave_requests lr
		JOIN leave_categories lc ON lr.category_id = lc.id
		JOIN persons p ON lr.person_id = p.id
		WHERE lr.status = 'approved' AND ` + condition + `
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var categoryCode, personName string

		err := rows.Scan(
			&req.ID, &req.PersonID, &req.CategoryID,
			&req.StartDate, &req.EndDate, &req.RequestedDays,
			&req.Reason, &req.Status,
			&req.ApproverID, &req.DecisionTimestamp, &req.RejectionReason, &req.Note,
			&req.Year, &req.CreatedAt, &req.UpdatedAt,
			&categoryCode, &personName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}

		req.CategoryCode = &categoryCode
		req.PersonName = &personName
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

func (r *reportRepositoryImpl) StartingSoon(ctx context.Context, today, until time.Time) ([]leave.Request, error) {
	return r.listApproved(ctx, "lr.start_date >= $1 AND lr.start_date <= $2", today, until)
}

func (r *reportRepositoryImpl) CurrentlyOnLeave(ctx context.Context, today time.Time) ([]leave.Request, error) {
	return r.listApproved(ctx, "lr.start_date <= $1 AND lr.end_date >= $1", today)
}
