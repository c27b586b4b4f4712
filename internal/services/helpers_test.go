package services

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"moneyflow/internal/finance"
)

// recordingDispatcher captures forecast requests instead of running them.
type recordingDispatcher struct {
	mu       sync.Mutex
	requests []string
	err      error
}

func (d *recordingDispatcher) Request(_ context.Context, userID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, userID)
	return d.err
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func cyclePtr(c finance.Cycle) *finance.Cycle {
	return &c
}

func strPtr(s string) *string {
	return &s
}
