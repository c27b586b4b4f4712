package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Warning codes produced by ValidateAllocation.
const (
	WarnPercentTotalExceeded = "PERCENT_TOTAL_EXCEEDED"
	WarnFixedTotalExceeded   = "FIXED_TOTAL_EXCEEDED"
	WarnSourceExceeded       = "SOURCE_EXCEEDED"
)

// Warning is an advisory raised when saving a goal. It never blocks the save.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidateAllocation checks candidate against the user's other goals and
// returns every advisory that applies. A goal in existing with the same
// ID as candidate is the pre-edit version and is ignored.
func ValidateAllocation(candidate Goal, existing []Goal, sources []IncomeSource) []Warning {
	goals := make([]Goal, 0, len(existing)+1)
	for _, g := range existing {
		if candidate.ID != "" && g.ID == candidate.ID {
			continue
		}
		goals = append(goals, g)
	}
	goals = append(goals, candidate)

	totalIncome := TotalMonthlyIncome(sources)
	var warnings []Warning

	percent := decimal.Zero
	fixed := decimal.Zero
	for _, g := range goals {
		switch g.AllocationType {
		case AllocationPercentTotal:
			percent = percent.Add(g.AllocationValue)
		case AllocationFixedTotal:
			if g.AllocationCycle.Valid() {
				fixed = fixed.Add(ToMonthly(g.AllocationValue, g.AllocationCycle))
			}
		}
	}

	if percent.GreaterThan(hundred) {
		warnings = append(warnings, Warning{
			Code:    WarnPercentTotalExceeded,
			Message: fmt.Sprintf("Total percentage allocation from total income exceeds 100%% (%s%%).", percent.String()),
		})
	}

	if fixed.GreaterThan(totalIncome) {
		warnings = append(warnings, Warning{
			Code: WarnFixedTotalExceeded,
			Message: fmt.Sprintf("Total fixed amount allocation from total income (%s/month) exceeds estimated total monthly income (%s/month).",
				fixed.StringFixed(2), totalIncome.StringFixed(2)),
		})
	}

	if candidate.AllocationType.FromSource() {
		if src, ok := findActiveSource(sources, candidate.SourceIncomeID); ok {
			drawn := decimal.Zero
			for _, g := range goals {
				if g.AllocationType.FromSource() && g.SourceIncomeID == src.ID {
					drawn = drawn.Add(MonthlyContribution(g, sources, totalIncome))
				}
			}
			if drawn.GreaterThan(src.Monthly()) {
				warnings = append(warnings, Warning{
					Code: WarnSourceExceeded,
					Message: fmt.Sprintf("Allocation from '%s' (%s/month) exceeds the income of that source (%s/month).",
						src.Name, drawn.StringFixed(2), src.Monthly().StringFixed(2)),
				})
			}
		}
	}

	return warnings
}
