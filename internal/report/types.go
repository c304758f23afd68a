// Package report defines the per-FY result shape spec.md §3 hands to the
// report-writer collaborator, plus a console implementation of that
// writer.
package report

import "time"

// Pair is one entry in a symbol's buy/sell assignment list: either a real
// LP match (BuyDate non-nil) or a short-sell fragment (BuyDate nil,
// rendered by writers as the literal string "Short Sell").
type Pair struct {
	BuyDate     *time.Time
	SellDate    time.Time
	Quantity    float64
	PerUnitGain float64
}

// Result is the aggregate outcome for one financial year, exactly as
// spec.md §3 defines it.
type Result struct {
	FY                  int
	BuyAndSellPairs     map[string][]Pair
	TotalCapitalGain    float64
	CapitalGainDiscount float64
	Loss                float64
	ShortSellGain       float64
	TaxableCapitalGain  float64
}

// NewResult returns a zeroed Result for financial year fy, ready for the
// orchestrator to accumulate into.
func NewResult(fy int) *Result {
	return &Result{FY: fy, BuyAndSellPairs: make(map[string][]Pair)}
}
