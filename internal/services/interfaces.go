package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/finance"
	"moneyflow/internal/models"
	"moneyflow/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// IncomeSourceInput carries the fields of a new income source.
type IncomeSourceInput struct {
	Name   string
	Amount decimal.Decimal
	Cycle  finance.Cycle
}

// IncomeSourceUpdate carries a partial update; nil fields are left alone.
type IncomeSourceUpdate struct {
	Name   *string
	Amount *decimal.Decimal
	Cycle  *finance.Cycle
}

// IncomeSourceServicer defines the contract for income source management.
type IncomeSourceServicer interface {
	CreateIncomeSource(ctx context.Context, userID string, in IncomeSourceInput) (*models.IncomeSource, error)
	GetUserIncomeSources(ctx context.Context, userID string, page pagination.PageRequest, status *finance.SourceStatus) (*pagination.PageResponse[models.IncomeSource], error)
	GetIncomeSourceByID(ctx context.Context, userID, sourceID string) (*models.IncomeSource, error)
	UpdateIncomeSource(ctx context.Context, userID, sourceID string, in IncomeSourceUpdate) (*models.IncomeSource, error)
	SetIncomeSourceStatus(ctx context.Context, userID, sourceID string, status finance.SourceStatus) (*models.IncomeSource, error)
	DeleteIncomeSource(ctx context.Context, userID, sourceID string) error
	GetActiveIncomeSources(ctx context.Context, userID string) ([]models.IncomeSource, error)
}

// GoalAllocationInput describes how a goal is funded. Cycle is required for
// fixed allocations and SourceIncomeID for allocations drawn from one source.
type GoalAllocationInput struct {
	Type           finance.AllocationType
	Value          decimal.Decimal
	Cycle          *finance.Cycle
	SourceIncomeID *string
}

// GoalInput carries the fields of a new goal.
type GoalInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    *time.Time
	Allocation    GoalAllocationInput
}

// GoalUpdate carries a partial update. A non-nil Allocation replaces the
// whole allocation, including clearing cycle or source when absent.
// A nil TargetDate leaves the date alone; ClearTargetDate removes it and
// cannot be combined with a new date.
type GoalUpdate struct {
	Name            *string
	TargetAmount    *decimal.Decimal
	CurrentAmount   *decimal.Decimal
	TargetDate      *time.Time
	ClearTargetDate bool
	Allocation      *GoalAllocationInput
}

// GoalResult is a saved goal plus the advisory allocation warnings raised
// while saving it.
type GoalResult struct {
	Goal     *models.Goal      `json:"goal"`
	Warnings []finance.Warning `json:"warnings"`
}

// GoalSimulation projects a goal's balance a number of months ahead.
type GoalSimulation struct {
	GoalID              string          `json:"goal_id"`
	Months              int             `json:"months"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	Contributed         decimal.Decimal `json:"contributed"`
	ProjectedAmount     decimal.Decimal `json:"projected_amount"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	ReachesTarget       bool            `json:"reaches_target"`
}

// GoalServicer defines the contract for savings goal management.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID string, in GoalInput) (*GoalResult, error)
	GetUserGoals(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(ctx context.Context, userID, goalID string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID string, in GoalUpdate) (*GoalResult, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	GetAllocationReport(ctx context.Context, userID string) (*finance.AllocationReport, error)
	SimulateGoal(ctx context.Context, userID, goalID string, months int) (*GoalSimulation, error)
}

// ForecastResult summarises one forecast run for a user. Failures counts
// goals whose forecast could not be stored; they do not abort the run.
type ForecastResult struct {
	UserID         string `json:"user_id"`
	GoalsProcessed int    `json:"goals_processed"`
	GoalsUpdated   int    `json:"goals_updated"`
	Failures       int    `json:"failures"`
}

// SweepResult aggregates a forecast run over every user with goals.
type SweepResult struct {
	Users          int `json:"users"`
	FailedUsers    int `json:"failed_users"`
	GoalsProcessed int `json:"goals_processed"`
	GoalsUpdated   int `json:"goals_updated"`
	Failures       int `json:"failures"`
}

// ForecastServicer computes and stores goal completion forecasts.
type ForecastServicer interface {
	RunForUser(ctx context.Context, userID string) (*ForecastResult, error)
	RunAll(ctx context.Context) (*SweepResult, error)
}

// ForecastDispatcher asks for a user's forecasts to be recomputed without
// waiting for the result.
type ForecastDispatcher interface {
	Request(ctx context.Context, userID string) error
}

// DashboardServicer serves the live income accrual view.
type DashboardServicer interface {
	Accrual(ctx context.Context, userID string, period finance.Period, since *time.Time, now time.Time) (*finance.Projection, error)
	AccrualSources(ctx context.Context, userID string) ([]finance.IncomeSource, error)
}

// ReportServicer builds income and goal reports.
type ReportServicer interface {
	IncomeSeries(ctx context.Context, userID string, period finance.ReportPeriod, now time.Time) ([]finance.MonthlyIncome, error)
	GoalSummary(ctx context.Context, userID string) (*finance.GoalSummary, error)
	ExportIncomeXLSX(ctx context.Context, userID string, period finance.ReportPeriod, now time.Time, w io.Writer) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
