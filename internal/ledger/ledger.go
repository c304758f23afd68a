package ledger

import (
	"fmt"
	"sort"
)

// Ledger is the normalised, append-free table of trades. It is mutable
// only between construction and Freeze — the window in which a
// corporate-action adjuster may rewrite Quantity/Symbol on existing rows
// (splits, ticker renames) — and immutable afterwards.
type Ledger struct {
	trades []Trade
	byID   map[int]int // trade id -> index into trades
	frozen bool
}

// New builds a Ledger from already-normalised trades (sequential ids,
// uppercased side/symbol, derived unit price and FY already computed).
// It starts unfrozen so a corporate-action adjuster can run before Freeze.
func New(trades []Trade) *Ledger {
	byID := make(map[int]int, len(trades))
	for i, t := range trades {
		byID[t.ID] = i
	}
	return &Ledger{trades: trades, byID: byID}
}

// Freeze locks the ledger against further mutation. Must be called exactly
// once, after any corporate-action adjustment and before the orchestrator
// starts (spec.md §6).
func (l *Ledger) Freeze() {
	l.frozen = true
}

// Frozen reports whether the ledger has been frozen.
func (l *Ledger) Frozen() bool { return l.frozen }

// AdjustQuantity overwrites the quantity of an existing trade (e.g. to
// reflect a post-split share count). Only valid before Freeze.
func (l *Ledger) AdjustQuantity(id int, quantity float64) error {
	if l.frozen {
		return fmt.Errorf("ledger: cannot adjust quantity on trade %d: ledger is frozen", id)
	}
	idx, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("ledger: no trade with id %d", id)
	}
	l.trades[idx].Quantity = quantity
	return nil
}

// AdjustSymbol overwrites the symbol of an existing trade (e.g. to a
// canonical current ticker after a rename). Only valid before Freeze.
func (l *Ledger) AdjustSymbol(id int, symbol string) error {
	if l.frozen {
		return fmt.Errorf("ledger: cannot adjust symbol on trade %d: ledger is frozen", id)
	}
	idx, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("ledger: no trade with id %d", id)
	}
	l.trades[idx].Symbol = symbol
	return nil
}

// Trade returns the trade with the given id.
func (l *Ledger) Trade(id int) (Trade, bool) {
	idx, ok := l.byID[id]
	if !ok {
		return Trade{}, false
	}
	return l.trades[idx], true
}

// Len returns the number of trades in the ledger.
func (l *Ledger) Len() int { return len(l.trades) }

// Symbols returns every distinct symbol in the ledger, ascending.
func (l *Ledger) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range l.trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			out = append(out, t.Symbol)
		}
	}
	sort.Strings(out)
	return out
}

// FinancialYears returns every distinct FY in the ledger, ascending.
func (l *Ledger) FinancialYears() []int {
	seen := make(map[int]bool)
	var out []int
	for _, t := range l.trades {
		if !seen[t.FY] {
			seen[t.FY] = true
			out = append(out, t.FY)
		}
	}
	sort.Ints(out)
	return out
}

// BuysUpTo returns every BUY trade of symbol whose FY is <= fy, in trade
// order. Callers filter by available quantity separately (spec.md §3's
// parcel-availability rule, which depends on mutable accounting state
// this package does not hold).
func (l *Ledger) BuysUpTo(symbol string, fy int) []Trade {
	var out []Trade
	for _, t := range l.trades {
		if t.Side == Buy && t.Symbol == symbol && t.FY <= fy {
			out = append(out, t)
		}
	}
	return out
}

// SellsIn returns every SELL trade of symbol whose FY equals fy, in trade
// order.
func (l *Ledger) SellsIn(symbol string, fy int) []Trade {
	var out []Trade
	for _, t := range l.trades {
		if t.Side == Sell && t.Symbol == symbol && t.FY == fy {
			out = append(out, t)
		}
	}
	return out
}
