package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/models"
)

// dashboardService serves the real-time income accrual view.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// Accrual projects the income accumulated since the start of period. The
// custom period takes its start from since, which is then required.
// When the sources cannot be loaded the empty projection is still
// returned alongside the error.
func (s *dashboardService) Accrual(ctx context.Context, userID string, period finance.Period, since *time.Time, now time.Time) (*finance.Projection, error) {
	start, err := AccrualStart(period, since, now)
	if err != nil {
		return nil, err
	}

	sources, err := s.AccrualSources(ctx, userID)
	if err != nil {
		empty := finance.Project(nil, start, now)
		return &empty, err
	}

	projection := finance.Project(sources, start, now)
	return &projection, nil
}

// AccrualSources returns the user's active sources in calculation form.
func (s *dashboardService) AccrualSources(ctx context.Context, userID string) ([]finance.IncomeSource, error) {
	sources, err := loadActiveSources(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return models.FinanceSources(sources), nil
}

// AccrualStart resolves the window start for a dashboard period.
func AccrualStart(period finance.Period, since *time.Time, now time.Time) (time.Time, error) {
	if period == "" {
		period = finance.PeriodMonth
	}
	if period == finance.PeriodCustom {
		if since == nil {
			return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "since is required for the custom period")
		}
		return *since, nil
	}
	start, err := finance.PeriodStart(period, now)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be one of today, week, month, year, custom")
	}
	return start, nil
}
