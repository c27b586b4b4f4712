package models

import (
	"time"

	"github.com/shopspring/decimal"

	"moneyflow/internal/finance"
)

// Goal is a savings target funded by an allocation from the user's income.
// AllocationCycle is set only for fixed allocations and SourceIncomeID
// only for allocations drawn from a specific source.
type Goal struct {
	Base
	UserID                   string                 `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                     string                 `gorm:"not null" json:"name"`
	TargetAmount             decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"target_amount"`
	CurrentAmount            decimal.Decimal        `gorm:"type:decimal(20,8);not null;default:0" json:"current_amount"`
	TargetDate               *time.Time             `gorm:"type:date" json:"target_date,omitempty"`
	AllocationType           finance.AllocationType `gorm:"not null" json:"allocation_type"`
	AllocationValue          decimal.Decimal        `gorm:"type:decimal(20,8);not null" json:"allocation_value"`
	AllocationCycle          *finance.Cycle         `json:"allocation_cycle,omitempty"`
	SourceIncomeID           *string                `gorm:"type:uuid;index" json:"source_income_id,omitempty"`
	ForecastedCompletionDate *time.Time             `gorm:"type:date" json:"forecasted_completion_date"`
}

// Finance converts the record into the value the calculations work on.
func (g *Goal) Finance() finance.Goal {
	fg := finance.Goal{
		ID:              g.ID,
		Name:            g.Name,
		TargetAmount:    g.TargetAmount,
		CurrentAmount:   g.CurrentAmount,
		TargetDate:      g.TargetDate,
		AllocationType:  g.AllocationType,
		AllocationValue: g.AllocationValue,
	}
	if g.AllocationCycle != nil {
		fg.AllocationCycle = *g.AllocationCycle
	}
	if g.SourceIncomeID != nil {
		fg.SourceIncomeID = *g.SourceIncomeID
	}
	return fg
}

// FinanceGoals converts a slice of records.
func FinanceGoals(goals []Goal) []finance.Goal {
	out := make([]finance.Goal, len(goals))
	for i := range goals {
		out[i] = goals[i].Finance()
	}
	return out
}
