package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/logger"
	"moneyflow/internal/models"
)

// forecastService recomputes goal completion dates from the user's
// current income and allocations.
type forecastService struct {
	db          *gorm.DB
	concurrency int
	now         func() time.Time
}

// NewForecastService creates a new ForecastServicer. concurrency bounds how
// many users RunAll processes at once.
func NewForecastService(db *gorm.DB, concurrency int) ForecastServicer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &forecastService{db: db, concurrency: concurrency, now: time.Now}
}

// RunForUser forecasts every goal of the user in turn and overwrites the
// stored completion date, clearing it when the goal receives nothing. A
// goal that cannot be written is logged and counted; the rest still run.
// Only failing to load the user's data aborts the run.
func (s *forecastService) RunForUser(ctx context.Context, userID string) (*ForecastResult, error) {
	db := s.db.WithContext(ctx)
	log := logger.Get().With("user_id", userID)

	sources, err := loadActiveSources(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrForecastUnavailable, err)
	}
	goals, err := loadGoals(db, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrForecastUnavailable, err)
	}

	fs := models.FinanceSources(sources)
	totalIncome := finance.TotalMonthlyIncome(fs)
	today := s.now().UTC()

	result := &ForecastResult{UserID: userID}
	for i := range goals {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.GoalsProcessed++

		fg := goals[i].Finance()
		contribution := finance.MonthlyContribution(fg, fs, totalIncome)
		completion := finance.ForecastCompletion(fg, contribution, today)

		err := db.Model(&models.Goal{}).
			Where("id = ?", goals[i].ID).
			UpdateColumn("forecasted_completion_date", completion).Error
		if err != nil {
			result.Failures++
			log.Warnw("failed to store goal forecast", "goal_id", goals[i].ID, "error", err)
			continue
		}
		result.GoalsUpdated++
	}

	log.Infow("forecast complete",
		"goals_processed", result.GoalsProcessed,
		"goals_updated", result.GoalsUpdated,
		"failures", result.Failures,
	)
	return result, nil
}

// RunAll forecasts every user that has at least one goal. Users are
// processed concurrently up to the configured limit and a failing user
// does not stop the sweep.
func (s *forecastService) RunAll(ctx context.Context) (*SweepResult, error) {
	var userIDs []string
	if err := s.db.WithContext(ctx).Model(&models.Goal{}).Distinct().Pluck("user_id", &userIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrForecastUnavailable, err)
	}

	var (
		mu    sync.Mutex
		sweep = &SweepResult{Users: len(userIDs)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			res, err := s.RunForUser(gctx, userID)

			mu.Lock()
			defer mu.Unlock()
			if res != nil {
				sweep.GoalsProcessed += res.GoalsProcessed
				sweep.GoalsUpdated += res.GoalsUpdated
				sweep.Failures += res.Failures
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				sweep.FailedUsers++
				logger.Get().Warnw("forecast sweep skipped user", "user_id", userID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return sweep, err
	}
	return sweep, nil
}

// InlineDispatcher runs forecast requests on a goroutine inside the API
// process. It is used when no message broker is configured.
type InlineDispatcher struct {
	forecast ForecastServicer
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewInlineDispatcher creates a dispatcher that gives each run up to timeout.
func NewInlineDispatcher(forecast ForecastServicer, timeout time.Duration) *InlineDispatcher {
	return &InlineDispatcher{forecast: forecast, timeout: timeout}
}

// Request starts a forecast run and returns immediately. The run outlives
// the caller's context so a finished HTTP request does not cancel it.
func (d *InlineDispatcher) Request(ctx context.Context, userID string) error {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		if _, err := d.forecast.RunForUser(runCtx, userID); err != nil {
			logger.Get().Warnw("inline forecast failed", "user_id", userID, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every started run has finished.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}
