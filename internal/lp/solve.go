// Package lp implements the LP Formulator and LP Driver from spec.md
// §4.4/§4.5: for one (symbol, FY) slice, build the minimum-tax matching
// LP and hand it to an external HiGHS-class solver.
package lp

import (
	"fmt"

	"austaxcgt/internal/ledger"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// zeroThreshold is the tolerance below which a solved flow is treated as
// zero when building the assignment report (spec.md §4.4).
const zeroThreshold = 1e-9

// simplexTol is the feasibility/optimality tolerance passed to the
// solver.
const simplexTol = 1e-10

// FailedError wraps a non-optimal LP termination (infeasible, unbounded,
// solver error) for one symbol. Fatal to the run (spec.md §7).
type FailedError struct {
	Symbol  string
	Message string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("lp: solve failed for symbol %s: %s", e.Symbol, e.Message)
}

// Assignment is one non-zero edge flow extracted from the solved LP:
// buy_id, sell_id, quantity, per-unit gain and the long-term flag.
type Assignment struct {
	BuyID       int
	SellID      int
	Quantity    float64
	PerUnitGain float64
	LongTerm    bool
}

// Result is the outcome of minimising tax for one (symbol, FY) slice:
// the three auxiliary totals, the derived taxable amount, and the
// flow assignments (spec.md §4.4's "Outputs").
type Result struct {
	ShortTerm float64 // A'
	LongTerm  float64 // B'
	Loss      float64 // L'
	Taxable   float64 // A' + 0.5B' - L'
	X         []Assignment
}

// Solve builds and solves the LP for one symbol over eligible buys and
// residual (post short-sell) sells, per spec.md §4.4/§4.5. An empty
// sells slice returns a zero Result with no assignments, without
// invoking the solver.
func Solve(buys []BuyParcel, sells []ledger.Trade, symbol string) (Result, error) {
	if len(sells) == 0 {
		return Result{}, nil
	}

	p := formulate(buys, sells)

	// No eligible buys at all: the equalities are infeasible (sells
	// require positive flow with no edges to supply it) — surface this
	// as a short sell having gone undetected rather than an opaque
	// solver failure. The orchestrator's short-sell adjuster is expected
	// to have already peeled any uncovered quantity before Solve is
	// called; reaching this with empty edges and non-zero sells
	// indicates that invariant was violated upstream.
	if p.numEdges == 0 {
		return Result{}, &FailedError{Symbol: symbol, Message: "no eligible buy parcels for outstanding sell quantity"}
	}

	optF, x, err := lp.Simplex(p.c, p.A, p.b, simplexTol, nil)
	if err != nil {
		return Result{}, &FailedError{Symbol: symbol, Message: err.Error()}
	}
	_ = optF

	result := Result{
		ShortTerm: x[p.apIdx],
		LongTerm:  x[p.bpIdx],
		Loss:      x[p.lpIdx],
	}
	result.Taxable = result.ShortTerm + 0.5*result.LongTerm - result.Loss

	for k, e := range p.edges {
		qty := x[k]
		if qty > zeroThreshold {
			result.X = append(result.X, Assignment{
				BuyID:       e.BuyID,
				SellID:      e.SellID,
				Quantity:    qty,
				PerUnitGain: e.PerUnitGain,
				LongTerm:    e.LongTerm,
			})
		}
	}

	return result, nil
}
