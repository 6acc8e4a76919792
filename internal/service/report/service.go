package report

import (
	"context"
	"fmt"
	"time"

	"github.com/atlashr/personnel-backend-go/internal/domain/absence"
	"github.com/atlashr/personnel-backend-go/internal/domain/leave"
	"github.com/atlashr/personnel-backend-go/internal/domain/report"
)

// Service exposes read-only aggregates for dashboards. No lifecycle writes
// happen here.
type Service struct {
	report.Repository

	now func() time.Time
}

func NewService(repo report.Repository) *Service {
	return &Service{
		Repository: repo,
		now:        time.Now,
	}
}

// LeaveStatistics aggregates requests for the year by status and category.
// Every status appears in the map, zero-filled when absent.
func (s *Service) LeaveStatistics(ctx context.Context, year int) (report.Statistics, error) {
	byStatus, err := s.Repository.CountRequestsByStatus(ctx, year)
	if err != nil {
		return report.Statistics{}, fmt.Errorf("failed to count requests by status: %w", err)
	}

	byCategory, err := s.Repository.CountRequestsByCategory(ctx, year)
	if err != nil {
		return report.Statistics{}, fmt.Errorf("failed to count requests by category: %w", err)
	}

	return report.Statistics{
		Year: year,
		ByStatus: zeroFill(byStatus,
			string(leave.StatusPending), string(leave.StatusApproved),
			string(leave.StatusRejected), string(leave.StatusCancelled)),
		ByCategory: byCategory,
	}, nil
}

// AbsenceStatistics aggregates absence records for the year by status and
// type code.
func (s *Service) AbsenceStatistics(ctx context.Context, year int) (report.AbsenceStatistics, error) {
	byStatus, err := s.Repository.CountAbsencesByStatus(ctx, year)
	if err != nil {
		return report.AbsenceStatistics{}, fmt.Errorf("failed to count absences by status: %w", err)
	}

	byType, err := s.Repository.CountAbsencesByType(ctx, year)
	if err != nil {
		return report.AbsenceStatistics{}, fmt.Errorf("failed to count absences by type: %w", err)
	}

	return report.AbsenceStatistics{
		Year: year,
		ByStatus: zeroFill(byStatus,
			string(absence.StatusPending), string(absence.StatusValidated),
			string(absence.StatusRejected), string(absence.StatusCancelled)),
		ByType: byType,
	}, nil
}

// StartingSoon lists approved requests starting within the next `days` days,
// today included.
func (s *Service) StartingSoon(ctx context.Context, days int) ([]leave.Request, error) {
	today := normalizeDay(s.now())
	until := today.AddDate(0, 0, days)
	return s.Repository.StartingSoon(ctx, today, until)
}

// CurrentlyOnLeave lists approved requests whose range covers today.
func (s *Service) CurrentlyOnLeave(ctx context.Context) ([]leave.Request, error) {
	return s.Repository.CurrentlyOnLeave(ctx, normalizeDay(s.now()))
}

func zeroFill(counts map[string]int64, keys ...string) map[string]int64 {
	if counts == nil {
		counts = make(map[string]int64, len(keys))
	}
	for _, k := range keys {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
	return counts
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
