package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/absence"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type absenceRecordRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRecordRepository(db *database.DB) absence.RecordRepository {
	return &absenceRecordRepositoryImpl{db: db}
}

const absenceRecordColumns = `
	ar.id, ar.person_id, ar.type_id,
	ar.absence_date, ar.duration,
	ar.reason, ar.proof_url,
	ar.status, ar.validator_id, ar.rejection_reason,
	ar.year, ar.created_at, ar.modified_at
`

func scanAbsenceRecord(row pgx.Row) (absence.Record, error) {
	var rec absence.Record
	err := row.Scan(
		&rec.ID, &rec.PersonID, &rec.TypeID,
		&rec.Date, &rec.Duration,
		&rec.Reason, &rec.ProofURL,
		&rec.Status, &rec.ValidatorID, &rec.RejectionReason,
		&rec.Year, &rec.CreatedAt, &rec.ModifiedAt,
	)
	return rec, err
}

func (r *absenceRecordRepositoryImpl) Create(ctx context.Context, record absence.Record) (absence.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absence_records (
			id, person_id, type_id,
			absence_date, duration,
			reason, proof_url,
			status, year,
			created_at, modified_at
		) VALUES (
			$1, $2, $3,
			$4, $5,
			$6, $7,
			$8, $9,
			NOW(), NOW()
		) RETURNING id, created_at, modified_at
	`

	record.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		record.ID, record.PersonID, record.TypeID,
		record.Date, record.Duration,
		record.Reason, record.ProofURL,
		record.Status, record.Year,
	).Scan(&record.ID, &record.CreatedAt, &record.ModifiedAt)

	if err != nil {
		return absence.Record{}, fmt.Errorf("failed to insert absence record: %w", err)
	}

	return record, nil
}

func (r *absenceRecordRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceRecordColumns + `,
			   at.code as type_code,
			   p.full_name as person_name
		FROM absence_records ar
		JOIN absence_types at ON ar.type_id = at.id
		JOIN persons p ON ar.person_id = p.id
		WHERE ar.id = $1
	`

	var rec absence.Record
	var typeCode, personName string

	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.PersonID, &rec.TypeID,
		&rec.Date, &rec.Duration,
		&rec.Reason, &rec.ProofURL,
		&rec.Status, &rec.ValidatorID, &rec.RejectionReason,
		&rec.Year, &rec.CreatedAt, &rec.ModifiedAt,
		&typeCode, &personName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return absence.Record{}, absence.ErrAbsenceNotFound
		}
		return absence.Record{}, err
	}

	rec.TypeCode = &typeCode
	rec.PersonName = &personName

	return rec, nil
}

func (r *absenceRecordRepositoryImpl) List(ctx context.Context, filter absence.RecordFilter) ([]absence.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.PersonID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.person_id = $%d", argIdx))
		args = append(args, *filter.PersonID)
		argIdx++
	}

	if filter.TypeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.type_id = $%d", argIdx))
		args = append(args, *filter.TypeID)
		argIdx++
	}

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}

	if filter.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.absence_date >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}

	if filter.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.absence_date <= $%d", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM absence_records ar WHERE %s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absence records: %w", err)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT `+absenceRecordColumns+`,
			   at.code as type_code,
			   p.full_name as person_name
		FROM absence_records ar
		JOIN absence_types at ON ar.type_id = at.id
		JOIN persons p ON ar.person_id = p.id
		WHERE %s
		ORDER BY ar.absence_date DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query absence records: %w", err)
	}
	defer rows.Close()

	var records []absence.Record

	for rows.Next() {
		var rec absence.Record
		var typeCode, personName string

		err := rows.Scan(
			&rec.ID, &rec.PersonID, &rec.TypeID,
			&rec.Date, &rec.Duration,
			&rec.Reason, &rec.ProofURL,
			&rec.Status, &rec.ValidatorID, &rec.RejectionReason,
			&rec.Year, &rec.CreatedAt, &rec.ModifiedAt,
			&typeCode, &personName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan absence record: %w", err)
		}

		rec.TypeCode = &typeCode
		rec.PersonName = &personName
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, total, nil
}

func (r *absenceRecordRepositoryImpl) Update(ctx context.Context, update absence.UpdateRecord) error {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0)
	args := make([]interface{}, 0)
	argIdx := 1

	if update.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *update.Status)
		argIdx++
	}
	if update.ValidatorID != nil {
		updates = append(updates, fmt.Sprintf("validator_id = $%d", argIdx))
		args = append(args, *update.ValidatorID)
		argIdx++
	}
	if update.RejectionReason != nil {
		updates = append(updates, fmt.Sprintf("rejection_reason = $%d", argIdx))
		args = append(args, *update.RejectionReason)
		argIdx++
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for absence record update")
	}

	updates = append(updates, fmt.Sprintf("modified_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, update.ID)

	sql := "UPDATE absence_records SET " + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d RETURNING id", argIdx)

	var updatedID string
	if err := q.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return absence.ErrAbsenceNotFound
		}
		return fmt.Errorf("failed to update absence record with id %s: %w", update.ID, err)
	}
	return nil
}

func (r *absenceRecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM absence_records
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

func (r *absenceRecordRepositoryImpl) FindByPersonAndDate(ctx context.Context, personID string, date time.Time) ([]absence.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceRecordColumns + `
		FROM absence_records ar
		WHERE ar.person_id = $1 AND ar.absence_date = $2
		ORDER BY ar.created_at ASC
	`

	rows, err := q.Query(ctx, query, personID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence records by date: %w", err)
	}
	defer rows.Close()

	var records []absence.Record
	for rows.Next() {
		rec, err := scanAbsenceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence record: %w", err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

func (r *absenceRecordRepositoryImpl) CountValidatedByTypeAndYear(ctx context.Context, personID, typeID string, year int) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM absence_records
		WHERE person_id = $1 AND type_id = $2 AND year = $3 AND status = 'validated'
	`

	var count int
	err := q.QueryRow(ctx, query, personID, typeID, year).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count validated absences: %w", err)
	}
	return count, nil
}
