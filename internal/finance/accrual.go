package finance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SourceAccrual is the amount a single source has accrued since the
// reference time, and its share of the total as a percentage.
type SourceAccrual struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Share  decimal.Decimal `json:"share"`
}

// Projection is the accumulated income between Since and At.
type Projection struct {
	Since     time.Time       `json:"since"`
	At        time.Time       `json:"at"`
	Total     decimal.Decimal `json:"total"`
	PerSource []SourceAccrual `json:"per_source"`
}

// Project computes how much income the active sources have accrued
// between since and now. It is a function of now only: calling it again
// later recomputes from since instead of adding to a previous result.
func Project(sources []IncomeSource, since, now time.Time) Projection {
	elapsed := now.Sub(since)
	if elapsed < 0 {
		elapsed = 0
	}
	seconds := decimal.New(elapsed.Milliseconds(), -3)

	p := Projection{
		Since:     since,
		At:        now,
		Total:     decimal.Zero,
		PerSource: make([]SourceAccrual, 0, len(sources)),
	}
	for _, s := range sources {
		if !s.Active() {
			continue
		}
		amount := PerSecondRate(s.Amount, s.Cycle).Mul(seconds)
		p.Total = p.Total.Add(amount)
		p.PerSource = append(p.PerSource, SourceAccrual{ID: s.ID, Name: s.Name, Amount: amount})
	}

	for i := range p.PerSource {
		if p.Total.IsPositive() {
			p.PerSource[i].Share = p.PerSource[i].Amount.Div(p.Total).Mul(hundred)
		} else {
			p.PerSource[i].Share = decimal.Zero
		}
	}
	return p
}

// Clock returns the current time. Stream takes one so tests can drive it.
type Clock func() time.Time

// Stream emits a fresh projection immediately and then once per
// interval until ctx is done or emit fails. Each tick recomputes from
// since, so delayed or skipped ticks do not introduce drift.
func Stream(ctx context.Context, interval time.Duration, since time.Time, sources []IncomeSource, clock Clock, emit func(Projection) error) error {
	if interval <= 0 {
		return errors.New("finance: stream interval must be positive")
	}
	if clock == nil {
		clock = time.Now
	}

	if err := emit(Project(sources, since, clock())); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := emit(Project(sources, since, clock())); err != nil {
				return err
			}
		}
	}
}
