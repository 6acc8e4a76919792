package postgresql

import (
	"context"
	"fmt"

	"github.com/atlashr/personnel-backend-go/internal/domain/category"
	"github.com/atlashr/personnel-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type categoryRegistryImpl struct {
	db *database.DB
}

func NewCategoryRegistry(db *database.DB) category.Registry {
	return &categoryRegistryImpl{db: db}
}

func (r *categoryRegistryImpl) GetLeaveCategory(ctx context.Context, id string) (category.LeaveCategory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, label, annual_allotment, reportable, requires_proof, description,
			   created_at, updated_at
		FROM leave_categories
		WHERE id = $1
	`

	var c category.LeaveCategory
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Code, &c.Label, &c.AnnualAllotment, &c.Reportable, &c.RequiresProof, &c.Description,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return category.LeaveCategory{}, category.ErrCategoryNotFound
		}
		return category.LeaveCategory{}, err
	}

	return c, nil
}

func (r *categoryRegistryImpl) ListLeaveCategories(ctx context.Context) ([]category.LeaveCategory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, label, annual_allotment, reportable, requires_proof, description,
			   created_at, updated_at
		FROM leave_categories
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave categories: %w", err)
	}
	defer rows.Close()

	var categories []category.LeaveCategory
	for rows.Next() {
		var c category.LeaveCategory
		err := rows.Scan(
			&c.ID, &c.Code, &c.Label, &c.AnnualAllotment, &c.Reportable, &c.RequiresProof, &c.Description,
			&c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave category: %w", err)
		}
		categories = append(categories, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return categories, nil
}

func (r *categoryRegistryImpl) GetAbsenceType(ctx context.Context, id string) (category.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, label, annual_ceiling, payable, requires_proof, color, description,
			   created_at, updated_at
		FROM absence_types
		WHERE id = $1
	`

	var t category.AbsenceType
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Code, &t.Label, &t.AnnualCeiling, &t.Payable, &t.RequiresProof, &t.Color, &t.Description,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return category.AbsenceType{}, category.ErrAbsenceTypeNotFound
		}
		return category.AbsenceType{}, err
	}

	return t, nil
}

func (r *categoryRegistryImpl) ListAbsenceTypes(ctx context.Context) ([]category.AbsenceType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, label, annual_ceiling, payable, requires_proof, color, description,
			   created_at, updated_at
		FROM absence_types
		ORDER BY code ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence types: %w", err)
	}
	defer rows.Close()

	var types []category.AbsenceType
	for rows.Next() {
		var t category.AbsenceType
		err := rows.Scan(
			&t.ID, &t.Code, &t.Label, &t.AnnualCeiling, &t.Payable, &t.RequiresProof, &t.Color, &t.Description,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence type: %w", err)
		}
		types = append(types, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return types, nil
}
