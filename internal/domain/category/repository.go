package category

import "context"

// Registry - read-only lookup of leave categories and absence types.
// The reference data is owned elsewhere; this engine only consults it.
type Registry interface {
	GetLeaveCategory(ctx context.Context, id string) (LeaveCategory, error)
	ListLeaveCategories(ctx context.Context) ([]LeaveCategory, error)
	GetAbsenceType(ctx context.Context, id string) (AbsenceType, error)
	ListAbsenceTypes(ctx context.Context) ([]AbsenceType, error)
}
