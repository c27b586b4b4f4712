package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyIncome is the projected income for one calendar month.
type MonthlyIncome struct {
	Month       string          `json:"month"` // YYYY-MM
	TotalIncome decimal.Decimal `json:"total_income"`
}

// MonthlyIncomeSeries spreads the monthly equivalent of every active
// source over each month of the report period, oldest month first.
func MonthlyIncomeSeries(sources []IncomeSource, period ReportPeriod, now time.Time) []MonthlyIncome {
	monthly := TotalMonthlyIncome(sources).Round(2)

	series := []MonthlyIncome{}
	for month := period.Start(now); !month.After(now); month = month.AddDate(0, 1, 0) {
		series = append(series, MonthlyIncome{
			Month:       month.Format("2006-01"),
			TotalIncome: monthly,
		})
	}
	return series
}

// GoalSummary aggregates progress across all of a user's goals.
type GoalSummary struct {
	ActiveGoals     int             `json:"active_goals"`
	CompletedGoals  int             `json:"completed_goals"`
	TotalTarget     decimal.Decimal `json:"total_target"`
	TotalCurrent    decimal.Decimal `json:"total_current"`
	OverallProgress decimal.Decimal `json:"overall_progress"`
}

// SummarizeGoals counts active and completed goals and computes overall
// progress as total current over total target.
func SummarizeGoals(goals []Goal) GoalSummary {
	s := GoalSummary{
		TotalTarget:     decimal.Zero,
		TotalCurrent:    decimal.Zero,
		OverallProgress: decimal.Zero,
	}
	for _, g := range goals {
		if g.Completed() {
			s.CompletedGoals++
		} else {
			s.ActiveGoals++
		}
		s.TotalTarget = s.TotalTarget.Add(g.TargetAmount)
		s.TotalCurrent = s.TotalCurrent.Add(g.CurrentAmount)
	}
	if s.TotalTarget.IsPositive() {
		s.OverallProgress = s.TotalCurrent.Div(s.TotalTarget).Mul(hundred).Round(2)
	}
	return s
}
