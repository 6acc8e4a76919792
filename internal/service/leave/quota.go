package leave

import (
	"context"
	"fmt"

	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
)

// RemainingAllowance computes the consumed-vs-remaining view for a person,
// category and year. Only approved requests consume the allotment; pending,
// rejected and cancelled never do. A category without an annual allotment is
// reported as unlimited.
func (s *RequestService) RemainingAllowance(ctx context.Context, personID, categoryID string, year int) (leave.Allowance, error) {
	cat, err := s.Registry.GetLeaveCategory(ctx, categoryID)
	if err != nil {
		return leave.Allowance{}, err
	}

	used, err := s.RequestRepository.SumApprovedDays(ctx, personID, categoryID, year)
	if err != nil {
		return leave.Allowance{}, fmt.Errorf("failed to sum approved days: %w", err)
	}

	allowance := leave.Allowance{
		PersonID:   personID,
		CategoryID: categoryID,
		Year:       year,
		Allotment:  cat.AnnualAllotment,
		UsedDays:   used,
	}

	if cat.Unbounded() {
		allowance.Unlimited = true
		return allowance, nil
	}

	allowance.Remaining = *cat.AnnualAllotment - used
	return allowance, nil
}

// checkAllotment verifies that approving (or submitting) requestedDays more
// would not push the year's approved total past the category allotment.
func (s *RequestService) checkAllotment(ctx context.Context, personID string, cat categoryView, year, requestedDays int) error {
	if cat.AnnualAllotment == nil {
		return nil
	}

	used, err := s.RequestRepository.SumApprovedDays(ctx, personID, cat.ID, year)
	if err != nil {
		return fmt.Errorf("failed to sum approved days: %w", err)
	}

	if used+requestedDays > *cat.AnnualAllotment {
		return leave.ErrAllotmentExceeded
	}
	return nil
}

// categoryView is the slice of category fields the quota check needs.
type categoryView struct {
	ID              string
	AnnualAllotment *int
}
