// Package finance holds the income and goal calculations: cycle
// normalization, real-time accrual projection, goal allocation and
// completion forecasting. Everything here is pure and operates on plain
// values; persistence lives in the services package.
package finance

import "github.com/shopspring/decimal"

// Cycle is the recurrence of an income source or a fixed allocation.
type Cycle string

const (
	CycleDaily   Cycle = "daily"
	CycleWeekly  Cycle = "weekly"
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Valid reports whether c is one of the supported cycles.
func (c Cycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Calendar constants shared by every conversion in the package.
var (
	daysPerYear   = decimal.RequireFromString("365.25")
	daysPerWeek   = decimal.NewFromInt(7)
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
	secondsPerDay = decimal.NewFromInt(86400)
	hundred       = decimal.NewFromInt(100)

	// daysPerMonth is the average month length, 30.4375 days.
	daysPerMonth = daysPerYear.Div(monthsPerYear)
)

// ToMonthly converts an amount recurring every cycle into its monthly
// equivalent. Unknown cycles are treated as monthly.
func ToMonthly(amount decimal.Decimal, cycle Cycle) decimal.Decimal {
	switch cycle {
	case CycleDaily:
		return amount.Mul(daysPerMonth)
	case CycleWeekly:
		return amount.Mul(weeksPerYear).Div(monthsPerYear)
	case CycleMonthly:
		return amount
	case CycleYearly:
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}

// PerSecondRate returns how much of amount accrues every second when it
// is earned once per cycle.
func PerSecondRate(amount decimal.Decimal, cycle Cycle) decimal.Decimal {
	var perDay decimal.Decimal
	switch cycle {
	case CycleDaily:
		perDay = amount
	case CycleWeekly:
		perDay = amount.Div(daysPerWeek)
	case CycleYearly:
		perDay = amount.Div(daysPerYear)
	default:
		perDay = amount.Div(daysPerMonth)
	}
	return perDay.Div(secondsPerDay)
}
