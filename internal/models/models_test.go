package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"moneyflow/internal/finance"
)

func TestGoal_Finance(t *testing.T) {
	t.Run("percent_total_leaves_optional_fields_empty", func(t *testing.T) {
		g := Goal{
			Base:            Base{ID: "g1"},
			Name:            "Holiday",
			TargetAmount:    decimal.NewFromInt(1000),
			CurrentAmount:   decimal.NewFromInt(100),
			AllocationType:  finance.AllocationPercentTotal,
			AllocationValue: decimal.NewFromInt(10),
		}

		fg := g.Finance()

		if fg.ID != "g1" || fg.Name != "Holiday" {
			t.Errorf("expected id g1 and name Holiday, got %s and %s", fg.ID, fg.Name)
		}
		if fg.AllocationCycle != "" {
			t.Errorf("expected empty cycle, got %q", fg.AllocationCycle)
		}
		if fg.SourceIncomeID != "" {
			t.Errorf("expected empty source, got %q", fg.SourceIncomeID)
		}
		if !fg.TargetAmount.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected target 1000, got %s", fg.TargetAmount)
		}
	})

	t.Run("fixed_source_copies_cycle_and_source", func(t *testing.T) {
		cycle := finance.CycleWeekly
		source := "s1"
		g := Goal{
			AllocationType:  finance.AllocationFixedSource,
			AllocationValue: decimal.NewFromInt(50),
			AllocationCycle: &cycle,
			SourceIncomeID:  &source,
		}

		fg := g.Finance()

		if fg.AllocationCycle != finance.CycleWeekly {
			t.Errorf("expected weekly, got %q", fg.AllocationCycle)
		}
		if fg.SourceIncomeID != "s1" {
			t.Errorf("expected s1, got %q", fg.SourceIncomeID)
		}
	})
}

func TestFinanceSources(t *testing.T) {
	sources := []IncomeSource{
		{Base: Base{ID: "a"}, Name: "Salary", Amount: decimal.NewFromInt(5000), Cycle: finance.CycleMonthly, Status: finance.SourceActive},
		{Base: Base{ID: "b"}, Name: "Rent", Amount: decimal.NewFromInt(200), Cycle: finance.CycleWeekly, Status: finance.SourcePaused},
	}

	out := FinanceSources(sources)

	if len(out) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(out))
	}
	if out[1].ID != "b" || out[1].Cycle != finance.CycleWeekly || out[1].Status != finance.SourcePaused {
		t.Errorf("unexpected conversion: %+v", out[1])
	}
	if !out[0].Active() {
		t.Error("expected first source to be active")
	}
}

func TestFinanceGoals_Empty(t *testing.T) {
	if out := FinanceGoals(nil); len(out) != 0 {
		t.Errorf("expected no goals, got %d", len(out))
	}
}

func TestBase_BeforeCreateKeepsExistingID(t *testing.T) {
	b := Base{ID: "preset"}
	if err := b.BeforeCreate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "preset" {
		t.Errorf("expected preset, got %s", b.ID)
	}

	var fresh Base
	if err := fresh.BeforeCreate(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.ID == "" {
		t.Error("expected generated id")
	}
}
