package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errors returned by AllocationFromGoal for malformed goal records.
var (
	ErrUnknownAllocation = errors.New("finance: unknown allocation type")
	ErrMissingCycle      = errors.New("finance: fixed allocation requires a cycle")
	ErrUnexpectedCycle   = errors.New("finance: percentage allocation must not carry a cycle")
	ErrMissingSource     = errors.New("finance: source allocation requires an income source")
	ErrUnexpectedSource  = errors.New("finance: total allocation must not reference an income source")
)

// Allocation is how a goal is funded. The four implementations below are
// the only ones; each carries exactly the fields its policy needs.
type Allocation interface {
	Type() AllocationType
	// Monthly returns the monthly contribution under this policy.
	Monthly(sources []IncomeSource, totalMonthlyIncome decimal.Decimal) decimal.Decimal
	sealed()
}

// PercentOfTotal allocates a percentage of total monthly income.
type PercentOfTotal struct {
	Percent decimal.Decimal
}

// PercentOfSource allocates a percentage of one source's monthly income.
type PercentOfSource struct {
	Percent  decimal.Decimal
	SourceID string
}

// FixedFromTotal allocates a fixed amount per cycle out of total income.
type FixedFromTotal struct {
	Amount decimal.Decimal
	Cycle  Cycle
}

// FixedFromSource allocates a fixed amount per cycle out of one source.
// The source's own cycle is irrelevant; it only has to exist.
type FixedFromSource struct {
	Amount   decimal.Decimal
	Cycle    Cycle
	SourceID string
}

func (PercentOfTotal) Type() AllocationType  { return AllocationPercentTotal }
func (PercentOfSource) Type() AllocationType { return AllocationPercentSource }
func (FixedFromTotal) Type() AllocationType  { return AllocationFixedTotal }
func (FixedFromSource) Type() AllocationType { return AllocationFixedSource }

func (PercentOfTotal) sealed()  {}
func (PercentOfSource) sealed() {}
func (FixedFromTotal) sealed()  {}
func (FixedFromSource) sealed() {}

func (a PercentOfTotal) Monthly(_ []IncomeSource, total decimal.Decimal) decimal.Decimal {
	return total.Mul(a.Percent).Div(hundred)
}

func (a PercentOfSource) Monthly(sources []IncomeSource, _ decimal.Decimal) decimal.Decimal {
	src, ok := findActiveSource(sources, a.SourceID)
	if !ok {
		return decimal.Zero
	}
	return src.Monthly().Mul(a.Percent).Div(hundred)
}

func (a FixedFromTotal) Monthly(_ []IncomeSource, _ decimal.Decimal) decimal.Decimal {
	return ToMonthly(a.Amount, a.Cycle)
}

func (a FixedFromSource) Monthly(sources []IncomeSource, _ decimal.Decimal) decimal.Decimal {
	if _, ok := findActiveSource(sources, a.SourceID); !ok {
		return decimal.Zero
	}
	return ToMonthly(a.Amount, a.Cycle)
}

// AllocationFromGoal builds the allocation variant described by the
// goal's flat fields, rejecting records where cycle or source presence
// does not match the allocation type.
func AllocationFromGoal(g Goal) (Allocation, error) {
	if g.AllocationType.IsFixed() {
		if g.AllocationCycle == "" {
			return nil, ErrMissingCycle
		}
		if !g.AllocationCycle.Valid() {
			return nil, fmt.Errorf("finance: invalid allocation cycle %q", g.AllocationCycle)
		}
	} else if g.AllocationCycle != "" && g.AllocationType.Valid() {
		return nil, ErrUnexpectedCycle
	}

	if g.AllocationType.FromSource() {
		if g.SourceIncomeID == "" {
			return nil, ErrMissingSource
		}
	} else if g.SourceIncomeID != "" && g.AllocationType.Valid() {
		return nil, ErrUnexpectedSource
	}

	switch g.AllocationType {
	case AllocationPercentTotal:
		return PercentOfTotal{Percent: g.AllocationValue}, nil
	case AllocationPercentSource:
		return PercentOfSource{Percent: g.AllocationValue, SourceID: g.SourceIncomeID}, nil
	case AllocationFixedTotal:
		return FixedFromTotal{Amount: g.AllocationValue, Cycle: g.AllocationCycle}, nil
	case AllocationFixedSource:
		return FixedFromSource{Amount: g.AllocationValue, Cycle: g.AllocationCycle, SourceID: g.SourceIncomeID}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAllocation, g.AllocationType)
}

// MonthlyContribution returns how much the goal receives per month.
// Malformed allocations and references to missing or paused sources
// yield zero rather than an error.
func MonthlyContribution(g Goal, sources []IncomeSource, totalMonthlyIncome decimal.Decimal) decimal.Decimal {
	alloc, err := AllocationFromGoal(g)
	if err != nil {
		return decimal.Zero
	}
	return alloc.Monthly(sources, totalMonthlyIncome)
}

// GoalContribution is one goal's line in an AllocationReport.
type GoalContribution struct {
	GoalID              string          `json:"goal_id"`
	Name                string          `json:"name"`
	AllocationType      AllocationType  `json:"allocation_type"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
}

// AllocationReport compares what the goals draw against total income.
type AllocationReport struct {
	TotalMonthlyIncome decimal.Decimal    `json:"total_monthly_income"`
	TotalContribution  decimal.Decimal    `json:"total_contribution"`
	Unallocated        decimal.Decimal    `json:"unallocated"`
	Goals              []GoalContribution `json:"goals"`
	IsOverAllocated    bool               `json:"is_over_allocated"`
}

// CheckAllocation sums the monthly contribution of every goal and flags
// the user as over-allocated when the goals draw more than total income.
func CheckAllocation(goals []Goal, sources []IncomeSource) AllocationReport {
	total := TotalMonthlyIncome(sources)
	report := AllocationReport{
		TotalMonthlyIncome: total,
		TotalContribution:  decimal.Zero,
		Goals:              make([]GoalContribution, 0, len(goals)),
	}
	for _, g := range goals {
		c := MonthlyContribution(g, sources, total)
		report.TotalContribution = report.TotalContribution.Add(c)
		report.Goals = append(report.Goals, GoalContribution{
			GoalID:              g.ID,
			Name:                g.Name,
			AllocationType:      g.AllocationType,
			MonthlyContribution: c,
		})
	}
	report.Unallocated = total.Sub(report.TotalContribution)
	report.IsOverAllocated = report.TotalContribution.GreaterThan(total)
	return report
}
