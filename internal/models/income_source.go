package models

import (
	"github.com/shopspring/decimal"

	"moneyflow/internal/finance"
)

// IncomeSource is a recurring income registered by a user. Only active
// sources take part in accrual and allocation.
type IncomeSource struct {
	Base
	UserID string               `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string               `gorm:"not null" json:"name"`
	Amount decimal.Decimal      `gorm:"type:decimal(20,8);not null" json:"amount"`
	Cycle  finance.Cycle        `gorm:"not null" json:"cycle"`
	Status finance.SourceStatus `gorm:"not null;default:'active'" json:"status"`
}

// Finance converts the record into the value the calculations work on.
func (s *IncomeSource) Finance() finance.IncomeSource {
	return finance.IncomeSource{
		ID:     s.ID,
		Name:   s.Name,
		Amount: s.Amount,
		Cycle:  s.Cycle,
		Status: s.Status,
	}
}

// FinanceSources converts a slice of records.
func FinanceSources(sources []IncomeSource) []finance.IncomeSource {
	out := make([]finance.IncomeSource, len(sources))
	for i := range sources {
		out[i] = sources[i].Finance()
	}
	return out
}
