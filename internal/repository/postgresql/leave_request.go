package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.person_id, lr.category_id,
	lr.start_date, lr.end_date, lr.requested_days,
	lr.reason, lr.status,
	lr.approver_id, lr.decision_timestamp, lr.rejection_reason, lr.note,
	lr.year, lr.created_at, lr.updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.PersonID, &req.CategoryID,
		&req.StartDate, &req.EndDate, &req.RequestedDays,
		&req.Reason, &req.Status,
		&req.ApproverID, &req.DecisionTimestamp, &req.RejectionReason, &req.Note,
		&req.Year, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, person_id, category_id,
			start_date, end_date, requested_days,
			reason, status, year,
			created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	request.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		request.ID, request.PersonID, request.CategoryID,
		request.StartDate, request.EndDate, request.RequestedDays,
		request.Reason, request.Status, request.Year,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to insert leave request: %w", err)
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `,
			   lc.code as category_code,
			   p.full_name as person_name
		FROM leave_requests lr
		JOIN leave_categories lc ON lr.category_id = lc.id
		JOIN persons p ON lr.person_id = p.id
		WHERE lr.id = $1
	`

	var req leave.Request
	var categoryCode, personName string

	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.PersonID, &req.CategoryID,
		&req.StartDate, &req.EndDate, &req.RequestedDays,
		&req.Reason, &req.Status,
		&req.ApproverID, &req.DecisionTimestamp, &req.RejectionReason, &req.Note,
		&req.Year, &req.CreatedAt, &req.UpdatedAt,
		&categoryCode, &personName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}

	req.CategoryCode = &categoryCode
	req.PersonName = &personName

	return req, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause dynamically
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.PersonID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.person_id = $%d", argIdx))
		args = append(args, *filter.PersonID)
		argIdx++
	}

	if filter.CategoryID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.category_id = $%d", argIdx))
		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.StartFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.start_date >= $%d", argIdx))
		args = append(args, *filter.StartFrom)
		argIdx++
	}

	if filter.EndUntil != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.end_date <= $%d", argIdx))
		args = append(args, *filter.EndUntil)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM leave_requests lr WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT `+leaveRequestColumns+`,
			   lc.code as category_code,
			   p.full_name as person_name
		FROM leave_requests lr
		JOIN leave_categories lc ON lr.category_id = lc.id
		JOIN persons p ON lr.person_id = p.id
		WHERE %s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
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
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}

		req.CategoryCode = &categoryCode
		req.PersonName = &personName
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, total, nil
}

func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.UpdateRequest) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if request.Reason != nil {
		updates = append(updates, fmt.Sprintf("reason = $%d", argIdx))
		args = append(args, *request.Reason)
		argIdx++
	}
	if request.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *request.Status)
		argIdx++
	}
	if request.ApproverID != nil {
		updates = append(updates, fmt.Sprintf("approver_id = $%d", argIdx))
		args = append(args, *request.ApproverID)
		argIdx++
	}
	if request.DecisionTimestamp != nil {
		updates = append(updates, fmt.Sprintf("decision_timestamp = $%d", argIdx))
		args = append(args, *request.DecisionTimestamp)
		argIdx++
	}
	if request.RejectionReason != nil {
		updates = append(updates, fmt.Sprintf("rejection_reason = $%d", argIdx))
		args = append(args, *request.RejectionReason)
		argIdx++
	}
	if request.Note != nil {
		updates = append(updates, fmt.Sprintf("note = $%d", argIdx))
		args = append(args, *request.Note)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for leave request update")
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, request.ID)

	sql := "UPDATE leave_requests SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrRequestNotFound
		}
		return fmt.Errorf("failed to update leave request with id %s: %w", request.ID, err)
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_requests
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) FindOverlapping(
	ctx context.Context,
	personID string,
	start, end time.Time,
	excludeID string,
	blocking leave.BlockingStatuses,
) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, 0, len(blocking))
	for _, s := range blocking {
		statuses = append(statuses, string(s))
	}

	// Inclusive-inclusive overlap: a.start <= b.end AND b.start <= a.end.
	// Touching ranges conflict.
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.person_id = $1
		  AND lr.status = ANY($2)
		  AND lr.start_date <= $4
		  AND $3 <= lr.end_date
		  AND ($5 = '' OR lr.id != $5)
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, personID, statuses, start, end, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}

func (r *leaveRequestRepositoryImpl) SumApprovedDays(ctx context.Context, personID, categoryID string, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(requested_days), 0)
		FROM leave_requests
		WHERE person_id = $1 AND category_id = $2 AND year = $3 AND status = 'approved'
	`

	var used int
	err := q.QueryRow(ctx, query, personID, categoryID, year).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to sum approved days: %w", err)
	}
	return used, nil
}

func (r *leaveRequestRepositoryImpl) HasApprovedCovering(ctx context.Context, personID string, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE person_id = $1
			  AND status = 'approved'
			  AND start_date <= $2
			  AND end_date >= $2
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, personID, day).Scan(&exists)
	return exists, err
}

func (r *leaveRequestRepositoryImpl) ListApprovedEndedBefore(ctx context.Context, day time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.status = 'approved'
		  AND lr.end_date < $1
		  AND lr.note IS NULL
		ORDER BY lr.end_date ASC
	`

	rows, err := q.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query ended leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}
