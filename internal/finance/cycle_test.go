package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func assertApprox(t *testing.T, got, want decimal.Decimal) {
	t.Helper()
	if got.Sub(want).Abs().GreaterThan(decimal.New(1, -9)) {
		t.Errorf("expected ~%s, got %s", want, got)
	}
}

func TestToMonthly(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		cycle  Cycle
		want   string
	}{
		{name: "daily", amount: "100", cycle: CycleDaily, want: "3043.75"},
		{name: "weekly", amount: "120", cycle: CycleWeekly, want: "520"},
		{name: "monthly", amount: "2500.50", cycle: CycleMonthly, want: "2500.50"},
		{name: "yearly", amount: "60000", cycle: CycleYearly, want: "5000"},
		{name: "unknown_cycle_unchanged", amount: "42", cycle: Cycle("fortnightly"), want: "42"},
		{name: "empty_cycle_unchanged", amount: "42", cycle: "", want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, ToMonthly(dec(tt.amount), tt.cycle), dec(tt.want))
		})
	}
}

func TestToMonthly_MonthlyIsIdentity(t *testing.T) {
	for _, a := range []string{"0", "0.01", "1", "999.99", "123456789.123"} {
		assertDecimal(t, ToMonthly(dec(a), CycleMonthly), dec(a))
	}
}

func TestToMonthly_YearlyConsistency(t *testing.T) {
	amount := dec("1000")
	yearly := ToMonthly(amount, CycleYearly)
	assertDecimal(t, yearly, amount.Div(decimal.NewFromInt(12)))

	scaled := yearly.Mul(decimal.NewFromInt(12))
	assertDecimal(t, ToMonthly(scaled, CycleMonthly), scaled)
}

func TestToMonthly_WeeklyUsesFiftyTwoWeeks(t *testing.T) {
	got := ToMonthly(dec("100"), CycleWeekly)
	assertDecimal(t, got.Round(2), dec("433.33"))
}

func TestPerSecondRate(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		cycle  Cycle
		perDay string
	}{
		{name: "daily", amount: "86400", cycle: CycleDaily, perDay: "86400"},
		{name: "weekly", amount: "700", cycle: CycleWeekly, perDay: "100"},
		{name: "monthly", amount: "3043.75", cycle: CycleMonthly, perDay: "100"},
		{name: "yearly", amount: "36525", cycle: CycleYearly, perDay: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerSecondRate(dec(tt.amount), tt.cycle).Mul(decimal.NewFromInt(86400))
			assertApprox(t, got, dec(tt.perDay))
		})
	}
}

func TestCycle_Valid(t *testing.T) {
	for _, c := range []Cycle{CycleDaily, CycleWeekly, CycleMonthly, CycleYearly} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	for _, c := range []Cycle{"", "hourly", "Monthly"} {
		if c.Valid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}
