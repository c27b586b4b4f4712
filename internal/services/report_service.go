package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	apperrors "moneyflow/internal/errors"
	"moneyflow/internal/finance"
	"moneyflow/internal/models"
)

const (
	incomeSheet  = "Income"
	sourcesSheet = "Sources"
	goalsSheet   = "Goals"
)

// reportService builds income history and goal reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// IncomeSeries returns the monthly income totals over period.
func (s *reportService) IncomeSeries(ctx context.Context, userID string, period finance.ReportPeriod, now time.Time) ([]finance.MonthlyIncome, error) {
	sources, err := loadActiveSources(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return finance.MonthlyIncomeSeries(models.FinanceSources(sources), period, now), nil
}

// GoalSummary aggregates progress over all of the user's goals.
func (s *reportService) GoalSummary(ctx context.Context, userID string) (*finance.GoalSummary, error) {
	goals, err := loadGoals(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary := finance.SummarizeGoals(models.FinanceGoals(goals))
	return &summary, nil
}

// ExportIncomeXLSX writes a workbook with the monthly income series, the
// user's sources and the goals with their forecasts.
func (s *reportService) ExportIncomeXLSX(ctx context.Context, userID string, period finance.ReportPeriod, now time.Time, w io.Writer) error {
	db := s.db.WithContext(ctx)

	var sources []models.IncomeSource
	if err := db.Scopes(models.OwnedBy(userID)).Order("created_at ASC").Find(&sources).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	goals, err := loadGoals(db, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", incomeSheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, name := range []string{sourcesSheet, goalsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	series := finance.MonthlyIncomeSeries(models.FinanceSources(sources), period, now)
	rows := [][]interface{}{{"Month", "Total income"}}
	for _, m := range series {
		total, _ := m.TotalIncome.Float64()
		rows = append(rows, []interface{}{m.Month, total})
	}
	if err := writeRows(f, incomeSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Name", "Amount", "Cycle", "Status", "Monthly equivalent"}}
	for i := range sources {
		fs := sources[i].Finance()
		amount, _ := fs.Amount.Float64()
		monthly, _ := fs.Monthly().Round(2).Float64()
		rows = append(rows, []interface{}{fs.Name, amount, string(fs.Cycle), string(fs.Status), monthly})
	}
	if err := writeRows(f, sourcesSheet, rows); err != nil {
		return err
	}

	rows = [][]interface{}{{"Name", "Target", "Current", "Progress %", "Allocation", "Forecasted completion"}}
	for i := range goals {
		fg := goals[i].Finance()
		target, _ := fg.TargetAmount.Float64()
		current, _ := fg.CurrentAmount.Float64()
		progress, _ := fg.Progress().Round(2).Float64()
		forecast := "never"
		if goals[i].ForecastedCompletionDate != nil {
			forecast = goals[i].ForecastedCompletionDate.Format("2006-01-02")
		}
		rows = append(rows, []interface{}{fg.Name, target, current, progress, string(fg.AllocationType), forecast})
	}
	if err := writeRows(f, goalsSheet, rows); err != nil {
		return err
	}

	for _, name := range []string{incomeSheet, sourcesSheet, goalsSheet} {
		_ = f.SetColWidth(name, "A", "A", 24)
		_ = f.SetColWidth(name, "B", "F", 18)
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("write %s row %d: %w", sheet, i+1, err))
		}
	}
	return nil
}
