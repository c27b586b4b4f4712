package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/logger"
	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
)

var incomeSourceSortColumns = map[string]bool{
	"name":       true,
	"amount":     true,
	"cycle":      true,
	"status":     true,
	"created_at": true,
}

// incomeSourceService handles income source business logic. Every
// mutation asks the dispatcher to refresh the owner's goal forecasts.
type incomeSourceService struct {
	db       *gorm.DB
	forecast ForecastDispatcher
}

// NewIncomeSourceService creates a new IncomeSourceServicer. A nil
// dispatcher disables forecast refreshes.
func NewIncomeSourceService(db *gorm.DB, forecast ForecastDispatcher) IncomeSourceServicer {
	return &incomeSourceService{db: db, forecast: forecast}
}

// CreateIncomeSource registers a new active income source.
func (s *incomeSourceService) CreateIncomeSource(ctx context.Context, userID string, in IncomeSourceInput) (*models.IncomeSource, error) {
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if !in.Cycle.Valid() {
		return nil, apperrors.ErrInvalidCycle
	}

	source := &models.IncomeSource{
		UserID: userID,
		Name:   in.Name,
		Amount: in.Amount,
		Cycle:  in.Cycle,
		Status: finance.SourceActive,
	}
	if err := s.db.WithContext(ctx).Create(source).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return source, nil
}

// GetUserIncomeSources returns a page of the user's sources, optionally
// filtered by status.
func (s *incomeSourceService) GetUserIncomeSources(
	ctx context.Context,
	userID string,
	page pagination.PageRequest,
	status *finance.SourceStatus,
) (*pagination.PageResponse[models.IncomeSource], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.IncomeSource{}).Scopes(models.OwnedBy(userID))
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sources []models.IncomeSource
	order := page.OrderClause(incomeSourceSortColumns, "created_at ASC")
	if err := base.Order(order).Scopes(pagination.Paginate(page)).Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(sources, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeSourceByID returns a source if it belongs to the user.
func (s *incomeSourceService) GetIncomeSourceByID(ctx context.Context, userID, sourceID string) (*models.IncomeSource, error) {
	var source models.IncomeSource
	if err := s.db.WithContext(ctx).Scopes(models.OwnedBy(userID)).Where("id = ?", sourceID).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeSourceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &source, nil
}

// UpdateIncomeSource applies a partial update.
func (s *incomeSourceService) UpdateIncomeSource(ctx context.Context, userID, sourceID string, in IncomeSourceUpdate) (*models.IncomeSource, error) {
	source, err := s.GetIncomeSourceByID(ctx, userID, sourceID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
		}
		updates["name"] = *in.Name
		source.Name = *in.Name
	}
	if in.Amount != nil {
		if !in.Amount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		updates["amount"] = *in.Amount
		source.Amount = *in.Amount
	}
	if in.Cycle != nil {
		if !in.Cycle.Valid() {
			return nil, apperrors.ErrInvalidCycle
		}
		updates["cycle"] = *in.Cycle
		source.Cycle = *in.Cycle
	}

	if len(updates) == 0 {
		return source, nil
	}
	if err := s.db.WithContext(ctx).Model(source).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return source, nil
}

// SetIncomeSourceStatus pauses or resumes a source. Setting the current
// status again is a no-op and does not trigger a forecast.
func (s *incomeSourceService) SetIncomeSourceStatus(ctx context.Context, userID, sourceID string, status finance.SourceStatus) (*models.IncomeSource, error) {
	if status != finance.SourceActive && status != finance.SourcePaused {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be active or paused")
	}

	source, err := s.GetIncomeSourceByID(ctx, userID, sourceID)
	if err != nil {
		return nil, err
	}
	if source.Status == status {
		return source, nil
	}

	if err := s.db.WithContext(ctx).Model(source).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	source.Status = status

	requestForecast(ctx, s.forecast, userID)
	return source, nil
}

// DeleteIncomeSource soft-deletes a source. Goals that drew from it keep
// their reference and simply stop receiving a contribution.
func (s *incomeSourceService) DeleteIncomeSource(ctx context.Context, userID, sourceID string) error {
	source, err := s.GetIncomeSourceByID(ctx, userID, sourceID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(source).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	requestForecast(ctx, s.forecast, userID)
	return nil
}

// GetActiveIncomeSources returns every active source of the user.
func (s *incomeSourceService) GetActiveIncomeSources(ctx context.Context, userID string) ([]models.IncomeSource, error) {
	sources, err := loadActiveSources(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sources, nil
}

func loadActiveSources(db *gorm.DB, userID string) ([]models.IncomeSource, error) {
	var sources []models.IncomeSource
	err := db.Scopes(models.OwnedBy(userID)).
		Where("status = ?", finance.SourceActive).
		Order("created_at ASC").
		Find(&sources).Error
	return sources, err
}

func loadGoals(db *gorm.DB, userID string) ([]models.Goal, error) {
	var goals []models.Goal
	err := db.Scopes(models.OwnedBy(userID)).Order("created_at ASC, id ASC").Find(&goals).Error
	return goals, err
}

// requestForecast fires a forecast refresh. Dispatch failures are logged;
// the mutation that caused them has already been committed.
func requestForecast(ctx context.Context, dispatcher ForecastDispatcher, userID string) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Request(ctx, userID); err != nil {
		logger.Get().Warnw("failed to request forecast refresh", "user_id", userID, "error", err)
	}
}
