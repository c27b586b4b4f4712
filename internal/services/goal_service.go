package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
)

var goalSortColumns = map[string]bool{
	"name":                       true,
	"target_amount":              true,
	"target_date":                true,
	"created_at":                 true,
	"forecasted_completion_date": true,
}

// goalService handles savings goal business logic.
type goalService struct {
	db       *gorm.DB
	forecast ForecastDispatcher
}

// NewGoalService creates a new GoalServicer. A nil dispatcher disables
// forecast refreshes.
func NewGoalService(db *gorm.DB, forecast ForecastDispatcher) GoalServicer {
	return &goalService{db: db, forecast: forecast}
}

// CreateGoal stores a new goal and reports allocation warnings against the
// user's other goals. Warnings never block the save.
func (s *goalService) CreateGoal(ctx context.Context, userID string, in GoalInput) (*GoalResult, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be positive")
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		TargetDate:    in.TargetDate,
	}
	if in.CurrentAmount != nil {
		if in.CurrentAmount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current_amount cannot be negative")
		}
		goal.CurrentAmount = *in.CurrentAmount
	}

	db := s.db.WithContext(ctx)
	if err := s.applyAllocation(db, userID, goal, in.Allocation); err != nil {
		return nil, err
	}

	warnings, err := s.warningsFor(db, userID, goal)
	if err != nil {
		return nil, err
	}

	if err := db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return &GoalResult{Goal: goal, Warnings: warnings}, nil
}

// GetUserGoals returns a page of the user's goals.
func (s *goalService) GetUserGoals(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Goal{}).Scopes(models.OwnedBy(userID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	order := page.OrderClause(goalSortColumns, "created_at ASC")
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal if it belongs to the user.
func (s *goalService) GetGoalByID(ctx context.Context, userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Where("id = ?", goalID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial update and re-runs the allocation checks
// with the pre-edit version of the goal excluded.
func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID string, in GoalUpdate) (*GoalResult, error) {
	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		goal.Name = *in.Name
	}
	if in.TargetAmount != nil {
		if !in.TargetAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_amount must be positive")
		}
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		if in.CurrentAmount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current_amount cannot be negative")
		}
		goal.CurrentAmount = *in.CurrentAmount
	}
	switch {
	case in.ClearTargetDate && in.TargetDate != nil:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_date and clear_target_date are mutually exclusive")
	case in.ClearTargetDate:
		goal.TargetDate = nil
	case in.TargetDate != nil:
		goal.TargetDate = in.TargetDate
	}

	db := s.db.WithContext(ctx)
	if in.Allocation != nil {
		if err := s.applyAllocation(db, userID, goal, *in.Allocation); err != nil {
			return nil, err
		}
	}

	warnings, err := s.warningsFor(db, userID, goal)
	if err != nil {
		return nil, err
	}

	// Select("*") so cleared cycle/source pointers are written as NULL.
	if err := db.Model(goal).Select("*").Omit("id", "user_id", "created_at").Updates(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return &GoalResult{Goal: goal, Warnings: warnings}, nil
}

// DeleteGoal soft-deletes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return nil
}

// GetAllocationReport totals every goal's monthly contribution against the
// user's active income.
func (s *goalService) GetAllocationReport(ctx context.Context, userID string) (*finance.AllocationReport, error) {
	db := s.db.WithContext(ctx)

	sources, err := loadActiveSources(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goals, err := loadGoals(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := finance.CheckAllocation(models.FinanceGoals(goals), models.FinanceSources(sources))
	return &report, nil
}

// SimulateGoal projects the goal's balance after the given number of months
// of its current allocation.
func (s *goalService) SimulateGoal(ctx context.Context, userID, goalID string, months int) (*GoalSimulation, error) {
	if months < 1 || months > 600 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 600")
	}

	goal, err := s.GetGoalByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	sources, err := loadActiveSources(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	fg := goal.Finance()
	fs := models.FinanceSources(sources)
	contributed := finance.Simulate(fg, fs, months)
	projected := fg.CurrentAmount.Add(contributed)

	return &GoalSimulation{
		GoalID:              goal.ID,
		Months:              months,
		MonthlyContribution: finance.MonthlyContribution(fg, fs, finance.TotalMonthlyIncome(fs)),
		Contributed:         contributed,
		ProjectedAmount:     projected,
		TargetAmount:        fg.TargetAmount,
		ReachesTarget:       projected.GreaterThanOrEqual(fg.TargetAmount),
	}, nil
}

// applyAllocation validates the allocation and writes it onto goal.
// Cycle must be present exactly for fixed allocations and the source
// exactly for source allocations; the source must be one of the user's.
func (s *goalService) applyAllocation(db *gorm.DB, userID string, goal *models.Goal, in GoalAllocationInput) error {
	if !in.Type.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidAllocation, "allocation_type must be one of PERCENT_TOTAL, PERCENT_SOURCE, FIXED_TOTAL, FIXED_SOURCE")
	}
	if !in.Value.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidAllocation, "allocation_value must be positive")
	}

	goal.AllocationType = in.Type
	goal.AllocationValue = in.Value
	goal.AllocationCycle = in.Cycle
	goal.SourceIncomeID = in.SourceIncomeID

	if _, err := finance.AllocationFromGoal(goal.Finance()); err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidAllocation, allocationMessage(err))
	}

	if in.Type.FromSource() {
		var count int64
		err := db.Model(&models.IncomeSource{}).Scopes(models.OwnedBy(userID)).
			Where("id = ?", *in.SourceIncomeID).Count(&count).Error
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return apperrors.ErrIncomeSourceNotFound
		}
	}
	return nil
}

func allocationMessage(err error) string {
	switch {
	case errors.Is(err, finance.ErrMissingCycle):
		return "allocation_cycle is required for fixed allocations"
	case errors.Is(err, finance.ErrUnexpectedCycle):
		return "allocation_cycle is only allowed for fixed allocations"
	case errors.Is(err, finance.ErrMissingSource):
		return "source_income_id is required for source allocations"
	case errors.Is(err, finance.ErrUnexpectedSource):
		return "source_income_id is only allowed for source allocations"
	}
	return "allocation_cycle must be one of daily, weekly, monthly, yearly"
}

func (s *goalService) warningsFor(db *gorm.DB, userID string, goal *models.Goal) ([]finance.Warning, error) {
	sources, err := loadActiveSources(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	existing, err := loadGoals(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	warnings := finance.ValidateAllocation(goal.Finance(), models.FinanceGoals(existing), models.FinanceSources(sources))
	if warnings == nil {
		warnings = []finance.Warning{}
	}
	return warnings, nil
}
