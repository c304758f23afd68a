// Package corpaction implements the corporate-actions collaborator from
// spec.md §4.1/§6: a pluggable pre-pass that mutates trade quantities for
// stock splits and trade symbols for ticker renames, run exactly once
// after ledger normalisation and before the Year Orchestrator starts. The
// core never calls a network itself (spec.md §9) — everything here lives
// outside that boundary.
package corpaction

import (
	"context"
	"time"

	"austaxcgt/internal/ledger"
)

// Adjuster mutates a not-yet-frozen Ledger in place.
type Adjuster interface {
	Adjust(ctx context.Context, l *ledger.Ledger) error
}

// NoopAdjuster applies no corporate actions. It is the default when a
// caller has no split/rename data to supply.
type NoopAdjuster struct{}

func (NoopAdjuster) Adjust(context.Context, *ledger.Ledger) error { return nil }

// SplitEvent describes a forward stock split (or reverse split, with
// Ratio < 1): every BUY/SELL dated strictly before EffectiveDate has its
// Quantity multiplied by Ratio, reflecting the post-split share count.
type SplitEvent struct {
	Symbol        string
	EffectiveDate time.Time
	Ratio         float64
}

// TickerChange renames every trade of From dated strictly before
// EffectiveDate to the canonical current ticker To.
type TickerChange struct {
	From          string
	To            string
	EffectiveDate time.Time
}

// StaticAdjuster applies a fixed, caller-supplied table of splits and
// ticker changes. This is the reimplementation's analogue of the
// original's "download once, replay many" approach to market-data
// vendors (deprecated_functions.py tried EODHD, Nasdaq Data Link and
// Polygon and settled on none of them reliably) — the core only ever
// needs the resulting table, not live access to a vendor.
type StaticAdjuster struct {
	Splits        []SplitEvent
	TickerChanges []TickerChange
}

func (a StaticAdjuster) Adjust(_ context.Context, l *ledger.Ledger) error {
	if l.Frozen() {
		return nil
	}
	for i := 0; i < l.Len(); i++ {
		t, ok := l.Trade(i)
		if !ok {
			continue
		}
		for _, s := range a.Splits {
			if t.Symbol == s.Symbol && t.TradeDate.Before(s.EffectiveDate) {
				if err := l.AdjustQuantity(t.ID, t.Quantity*s.Ratio); err != nil {
					return err
				}
				t.Quantity *= s.Ratio
			}
		}
		for _, c := range a.TickerChanges {
			if t.Symbol == c.From && t.TradeDate.Before(c.EffectiveDate) {
				if err := l.AdjustSymbol(t.ID, c.To); err != nil {
					return err
				}
				t.Symbol = c.To
			}
		}
	}
	return nil
}
