package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceStatus marks whether an income source participates in calculations.
type SourceStatus string

const (
	SourceActive SourceStatus = "active"
	SourcePaused SourceStatus = "paused"
)

// IncomeSource is a recurring income as seen by the calculations.
type IncomeSource struct {
	ID     string
	Name   string
	Amount decimal.Decimal
	Cycle  Cycle
	Status SourceStatus
}

// Active reports whether the source counts towards accrual and allocation.
func (s IncomeSource) Active() bool {
	return s.Status == SourceActive
}

// Monthly returns the monthly equivalent of the source.
func (s IncomeSource) Monthly() decimal.Decimal {
	return ToMonthly(s.Amount, s.Cycle)
}

// ActiveSources filters sources down to the active ones, keeping order.
func ActiveSources(sources []IncomeSource) []IncomeSource {
	active := make([]IncomeSource, 0, len(sources))
	for _, s := range sources {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// TotalMonthlyIncome sums the monthly equivalent of every active source.
func TotalMonthlyIncome(sources []IncomeSource) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		if s.Active() {
			total = total.Add(s.Monthly())
		}
	}
	return total
}

func findActiveSource(sources []IncomeSource, id string) (IncomeSource, bool) {
	for _, s := range sources {
		if s.ID == id && s.Active() {
			return s, true
		}
	}
	return IncomeSource{}, false
}

// AllocationType is the flat, stored form of an allocation policy.
type AllocationType string

const (
	AllocationPercentTotal  AllocationType = "PERCENT_TOTAL"
	AllocationPercentSource AllocationType = "PERCENT_SOURCE"
	AllocationFixedTotal    AllocationType = "FIXED_TOTAL"
	AllocationFixedSource   AllocationType = "FIXED_SOURCE"
)

// Valid reports whether t names one of the four allocation policies.
func (t AllocationType) Valid() bool {
	switch t {
	case AllocationPercentTotal, AllocationPercentSource, AllocationFixedTotal, AllocationFixedSource:
		return true
	}
	return false
}

// IsFixed reports whether the policy allocates a fixed amount per cycle.
func (t AllocationType) IsFixed() bool {
	return t == AllocationFixedTotal || t == AllocationFixedSource
}

// FromSource reports whether the policy draws from one specific source.
func (t AllocationType) FromSource() bool {
	return t == AllocationPercentSource || t == AllocationFixedSource
}

// Goal is a savings goal as seen by the calculations. AllocationCycle
// and SourceIncomeID are empty when the policy does not use them.
type Goal struct {
	ID              string
	Name            string
	TargetAmount    decimal.Decimal
	CurrentAmount   decimal.Decimal
	TargetDate      *time.Time
	AllocationType  AllocationType
	AllocationValue decimal.Decimal
	AllocationCycle Cycle
	SourceIncomeID  string
}

// Remaining is the amount still missing to reach the target. It is
// negative when the goal has been overfunded.
func (g Goal) Remaining() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// Completed reports whether the current amount has reached the target.
func (g Goal) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// Progress returns current/target as a percentage; 0 for a zero target.
func (g Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(hundred)
}
