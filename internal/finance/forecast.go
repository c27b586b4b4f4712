package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// amountPlaces is the scale money is stored at. Sums are compared at this
// scale so a repeating-decimal contribution that funds the goal to the
// last stored digit counts as funding it.
const amountPlaces = 8

// ForecastCompletion returns the date the goal is expected to be funded,
// truncated to today's calendar day. A goal already at or above target
// completes today; a goal without positive contribution never does and
// yields nil.
func ForecastCompletion(g Goal, monthlyContribution decimal.Decimal, today time.Time) *time.Time {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())

	remaining := g.Remaining()
	if !remaining.IsPositive() {
		return &day
	}
	if !monthlyContribution.IsPositive() {
		return nil
	}

	months := remaining.Div(monthlyContribution).Ceil().IntPart()
	if months > 1 {
		funded := monthlyContribution.Mul(decimal.NewFromInt(months - 1)).Round(amountPlaces)
		if funded.GreaterThanOrEqual(remaining) {
			months--
		}
	}
	date := day.AddDate(0, int(months), 0)
	return &date
}

// Simulate returns how much the goal would accumulate from its allocation
// over the given number of months, ignoring what is already saved.
func Simulate(g Goal, sources []IncomeSource, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	monthly := MonthlyContribution(g, sources, TotalMonthlyIncome(sources))
	return monthly.Mul(decimal.NewFromInt(int64(months)))
}
