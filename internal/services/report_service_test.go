package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"moneyflow/internal/finance"
	"moneyflow/internal/testutil"
)

func TestReportIncomeSeries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestIncomeSource(t, db, user.ID, "2000", finance.CycleMonthly)
	testutil.CreateTestIncomeSource(t, db, user.ID, "12000", finance.CycleYearly)

	now := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.UTC)
	series, err := svc.IncomeSeries(context.Background(), user.ID, finance.ReportThisYear, now)
	testutil.AssertNoError(t, err)

	if len(series) != 6 {
		t.Fatalf("expected 6 months, got %d", len(series))
	}
	if !series[5].TotalIncome.Equal(dec("3000")) {
		t.Errorf("expected 3000, got %s", series[5].TotalIncome)
	}
}

func TestReportGoalSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestGoal(t, db, user.ID, "1000", "1000", "10")
	testutil.CreateTestGoal(t, db, user.ID, "3000", "1000", "10")

	summary, err := svc.GoalSummary(context.Background(), user.ID)
	testutil.AssertNoError(t, err)

	if summary.ActiveGoals != 1 || summary.CompletedGoals != 1 {
		t.Errorf("expected 1 active and 1 completed, got %d and %d", summary.ActiveGoals, summary.CompletedGoals)
	}
	if !summary.OverallProgress.Equal(dec("50")) {
		t.Errorf("expected 50%% progress, got %s", summary.OverallProgress)
	}
}

func TestExportIncomeXLSX(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewReportService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestIncomeSource(t, db, user.ID, "2500", finance.CycleMonthly)
	testutil.CreateTestGoal(t, db, user.ID, "1000", "250", "10")

	var buf bytes.Buffer
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	err := svc.ExportIncomeXLSX(context.Background(), user.ID, finance.ReportThisMonth, now, &buf)
	testutil.AssertNoError(t, err)

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Income" {
		t.Fatalf("expected Income, Sources, Goals sheets, got %v", sheets)
	}

	month, _ := f.GetCellValue("Income", "A2")
	total, _ := f.GetCellValue("Income", "B2")
	if month != "2025-03" || total != "2500" {
		t.Errorf("expected 2025-03 / 2500, got %s / %s", month, total)
	}

	forecast, _ := f.GetCellValue("Goals", "F2")
	if forecast != "never" {
		t.Errorf("expected unforecast goal to read never, got %q", forecast)
	}
}
