// Package shortsell implements the short-sell adjuster from spec.md §4.3:
// detecting and peeling off uncovered sale quantity before the LP ever
// sees it, cheapest-sale-first.
package shortsell

import (
	"sort"
	"time"

	"austaxcgt/internal/ledger"
)

// Fragment is one peeled short-sell unit, rendered by the report writer
// with a NONE/"Short Sell" buy side (spec.md §3, §6).
type Fragment struct {
	SellID    int
	SellDate  time.Time
	Quantity  float64
	UnitPrice float64
}

// Adjust peels delta units of sale quantity off sells, cheapest
// unit_price first, and returns the residual sells (zero-quantity sells
// dropped — they contribute nothing to the LP), the peeled fragments in
// the order they were peeled (cheapest unit_price first), and the total
// cash from peeled fragments (short_sell_gain).
//
// delta must be total_sell - total_buy for this (symbol, FY); the caller
// is expected to have already checked delta > 0 before calling.
func Adjust(sells []ledger.Trade, delta float64) (residual []ledger.Trade, fragments []Fragment, gain float64) {
	sorted := make([]ledger.Trade, len(sells))
	copy(sorted, sells)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UnitPrice < sorted[j].UnitPrice })

	remaining := make(map[int]float64, len(sorted))
	for _, s := range sorted {
		remaining[s.ID] = s.Quantity
	}

	for _, s := range sorted {
		if delta <= 0 {
			break
		}
		qty := remaining[s.ID]
		if qty <= 0 {
			continue
		}
		peeled := qty
		if peeled > delta {
			peeled = delta
		}
		remaining[s.ID] = qty - peeled
		delta -= peeled
		gain += peeled * s.UnitPrice
		fragments = append(fragments, Fragment{
			SellID:    s.ID,
			SellDate:  s.TradeDate,
			Quantity:  peeled,
			UnitPrice: s.UnitPrice,
		})
	}

	for _, s := range sells {
		if r := remaining[s.ID]; r > 0 {
			s.Quantity = r
			residual = append(residual, s)
		}
	}
	return residual, fragments, gain
}
