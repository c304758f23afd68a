// Package ledger holds the normalised, immutable trade history the rest
// of the calculator operates on, plus the CSV loader that builds it.
package ledger

import "time"

// Side is the executed direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Trade is one normalised execution. Quantity is always > 0; a SELL's
// direction is carried in Side, never in the sign of Quantity.
//
// UnitPrice and FY are derived fields, computed once at load time and
// never revisited (spec.md §3).
type Trade struct {
	ID                int
	Symbol            string
	Side              Side
	TradeDate         time.Time
	Quantity          float64
	TransactionAmount float64
	UnitPrice         float64
	FY                int
}

// FinancialYear returns the Australian financial year label (the ending
// calendar year) for a date: 1 Jul–30 Jun, labelled by the year it ends in.
func FinancialYear(d time.Time) int {
	if d.Month() >= time.July {
		return d.Year() + 1
	}
	return d.Year()
}

// IsLongTerm reports whether a sale on sellDate of a parcel bought on
// buyDate qualifies for the CGT discount: strictly more than 365 days
// held (ATO's 12-month rule, excluding both the acquisition and disposal
// day, approximated here as in the original implementation).
func IsLongTerm(buyDate, sellDate time.Time) bool {
	return sellDate.Sub(buyDate).Hours()/24 > 365
}
