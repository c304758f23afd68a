package lp

import (
	"austaxcgt/internal/ledger"
	"gonum.org/v1/gonum/mat"
)

// problem is the standard-form LP (minimize c'x s.t. Ax=b, x>=0) built
// for one (symbol, FY) slice, plus enough bookkeeping to map the solved
// vector back onto edges. Every inequality spec.md §4.4 lists is turned
// into an equality with an explicit non-negative slack column, since
// gonum's lp.Simplex only accepts the standard equality form.
type problem struct {
	edges []Edge

	c []float64
	A *mat.Dense
	b []float64

	numEdges int
	apIdx    int // short-term gross gain
	bpIdx    int // long-term gross gain
	lpIdx    int // gross loss magnitude
}

// formulate builds the LP described in spec.md §4.4 for one symbol-year.
// buys must already be filtered to Available > 0 and sells to
// Quantity > 0 (post short-sell adjustment).
func formulate(buys []BuyParcel, sells []ledger.Trade) problem {
	edges := buildEdges(buys, sells)

	numEdges := len(edges)
	numBuys := len(buys)

	apIdx := numEdges
	bpIdx := numEdges + 1
	lpIdx := numEdges + 2
	buySlackStart := numEdges + 3
	redSlackStart := buySlackStart + numBuys // slackA, slackB, slackL

	numVars := redSlackStart + 3

	aRow := make([]float64, numEdges)
	bRow := make([]float64, numEdges)
	lRow := make([]float64, numEdges)
	for k, e := range edges {
		switch {
		case e.PerUnitGain > 0 && !e.LongTerm:
			aRow[k] = e.PerUnitGain
		case e.PerUnitGain > 0 && e.LongTerm:
			bRow[k] = e.PerUnitGain
		default:
			lRow[k] = -e.PerUnitGain
		}
	}

	numRows := len(sells) + 3 + numBuys + 3
	A := mat.NewDense(numRows, numVars, nil)
	b := make([]float64, numRows)
	row := 0

	// (1) per-sell equality: sum_{e:s} x_e = residual_quantity(s)
	for si, s := range sells {
		for k, e := range edges {
			if e.SellIdx == si {
				A.Set(row, k, 1)
			}
		}
		b[row] = s.Quantity
		row++
	}

	// (2) auxiliary binding equalities: A' = A_row.x, B' = B_row.x, L' = L_row.x
	for k := range edges {
		A.Set(row, k, -aRow[k])
	}
	A.Set(row, apIdx, 1)
	b[row] = 0
	row++

	for k := range edges {
		A.Set(row, k, -bRow[k])
	}
	A.Set(row, bpIdx, 1)
	b[row] = 0
	row++

	for k := range edges {
		A.Set(row, k, -lRow[k])
	}
	A.Set(row, lpIdx, 1)
	b[row] = 0
	row++

	// (3) per-buy capacity: sum_{e:b} x_e + slack_b = qty_avail(b)
	for bi, parcel := range buys {
		for k, e := range edges {
			if e.BuyIdx == bi {
				A.Set(row, k, 1)
			}
		}
		A.Set(row, buySlackStart+bi, 1)
		b[row] = parcel.Available
		row++
	}

	// (4) redundant non-negativity rows, kept for solver stability per
	// spec.md §4.4: -A_row.x + slackA = 0, etc. Trivially satisfied given
	// (2) and x>=0, but mirrors the reference formulation exactly.
	for k := range edges {
		A.Set(row, k, -aRow[k])
	}
	A.Set(row, redSlackStart, 1)
	row++

	for k := range edges {
		A.Set(row, k, -bRow[k])
	}
	A.Set(row, redSlackStart+1, 1)
	row++

	for k := range edges {
		A.Set(row, k, -lRow[k])
	}
	A.Set(row, redSlackStart+2, 1)
	row++

	c := make([]float64, numVars)
	c[apIdx] = 1.0
	c[bpIdx] = 0.5

	return problem{
		edges:    edges,
		c:        c,
		A:        A,
		b:        b,
		numEdges: numEdges,
		apIdx:    apIdx,
		bpIdx:    bpIdx,
		lpIdx:    lpIdx,
	}
}
