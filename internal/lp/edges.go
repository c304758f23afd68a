package lp

import (
	"austaxcgt/internal/ledger"
)

// BuyParcel pairs a BUY trade with however much of it remains unconsumed
// (spec.md §3's qty_avail), since the raw trade quantity alone does not
// reflect prior years' consumption.
type BuyParcel struct {
	Trade     ledger.Trade
	Available float64
}

// Edge is one permitted match between a BUY parcel and a SELL execution
// (spec.md §3): buy.TradeDate <= sell.TradeDate.
type Edge struct {
	BuyID       int
	SellID      int
	BuyIdx      int // index into the buys slice passed to buildEdges
	SellIdx     int // index into the sells slice
	PerUnitGain float64
	LongTerm    bool
}

// buildEdges enumerates every eligible (buy, sell) pair for one
// (symbol, FY) slice, in sell-major, buy-minor order (matching the
// Python reference's nested-loop iteration order in lp_solver.py).
func buildEdges(buys []BuyParcel, sells []ledger.Trade) []Edge {
	var edges []Edge
	for si, s := range sells {
		for bi, b := range buys {
			if b.Available <= 0 || s.Quantity <= 0 {
				continue
			}
			if b.Trade.TradeDate.After(s.TradeDate) {
				continue
			}
			edges = append(edges, Edge{
				BuyID:       b.Trade.ID,
				SellID:      s.ID,
				BuyIdx:      bi,
				SellIdx:     si,
				PerUnitGain: s.UnitPrice - b.Trade.UnitPrice,
				LongTerm:    ledger.IsLongTerm(b.Trade.TradeDate, s.TradeDate),
			})
		}
	}
	return edges
}
