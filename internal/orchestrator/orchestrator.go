// Package orchestrator implements the Year Orchestrator from spec.md
// §4.6: it iterates financial years ascending and symbols within each
// year lexicographically, committing Lot Accounting State updates
// immediately after each symbol-year's LP solve so later years only see
// residual parcels.
package orchestrator

import (
	"austaxcgt/internal/accounting"
	"austaxcgt/internal/ledger"
	"austaxcgt/internal/lp"
	"austaxcgt/internal/report"
	"austaxcgt/internal/shortsell"
)

// Orchestrator owns the Lot Accounting State explicitly (spec.md §9's
// fix for the original's default-mutable-argument bug: this state is a
// field constructed fresh in New, never a shared package-level or
// parameter default).
type Orchestrator struct {
	ledger            *ledger.Ledger
	accounting        *accounting.State
	allowShortSelling bool
}

// New returns an Orchestrator over a frozen ledger. allowShortSelling
// decides whether an uncovered sale fails the FY (spec.md §4.3) — this
// run is non-interactive, so the decision is made up front via
// Config.AllowShortSelling rather than prompting.
func New(l *ledger.Ledger, allowShortSelling bool) *Orchestrator {
	return &Orchestrator{
		ledger:            l,
		accounting:        accounting.New(),
		allowShortSelling: allowShortSelling,
	}
}

// Run executes the full algorithm in spec.md §4.6 and returns one Result
// per financial year present in the ledger. No partial results are
// returned on failure (spec.md §7): an error discards the whole run.
func (o *Orchestrator) Run() (map[int]*report.Result, error) {
	results := make(map[int]*report.Result)

	for _, fy := range o.ledger.FinancialYears() {
		res := report.NewResult(fy)
		var shortSellSymbols []string

		for _, symbol := range o.ledger.Symbols() {
			if err := o.solveSymbolYear(symbol, fy, res, &shortSellSymbols); err != nil {
				return nil, err
			}
		}

		if !o.allowShortSelling && len(shortSellSymbols) > 0 {
			return nil, &ShortSellDetectedError{FY: fy, Symbols: shortSellSymbols}
		}
		results[fy] = res
	}

	return results, nil
}

func (o *Orchestrator) solveSymbolYear(symbol string, fy int, res *report.Result, shortSellSymbols *[]string) error {
	eligibleBuys := o.ledger.BuysUpTo(symbol, fy)
	var buys []lp.BuyParcel
	for _, b := range eligibleBuys {
		if avail := o.accounting.Available(b); avail > accounting.Epsilon {
			buys = append(buys, lp.BuyParcel{Trade: b, Available: avail})
		}
	}

	sells := o.ledger.SellsIn(symbol, fy)
	if len(sells) == 0 {
		return nil
	}

	totalSell := sumQuantity(sells)
	totalBuy := sumAvailable(buys)

	var shortSellGain float64
	if totalBuy < totalSell {
		*shortSellSymbols = append(*shortSellSymbols, symbol)
		residual, fragments, gain := shortsell.Adjust(sells, totalSell-totalBuy)
		sells = residual
		shortSellGain = gain
		for _, f := range fragments {
			res.BuyAndSellPairs[symbol] = append(res.BuyAndSellPairs[symbol], report.Pair{
				SellDate:    f.SellDate,
				Quantity:    f.Quantity,
				PerUnitGain: f.UnitPrice,
			})
		}
		res.ShortSellGain += gain
	}

	r, err := lp.Solve(buys, sells, symbol)
	if err != nil {
		return err
	}

	for _, a := range r.X {
		buyTrade, _ := o.ledger.Trade(a.BuyID)
		if err := o.accounting.Consume(buyTrade, a.Quantity); err != nil {
			return err
		}
		sellTrade, _ := o.ledger.Trade(a.SellID)
		buyDate := buyTrade.TradeDate
		res.BuyAndSellPairs[symbol] = append(res.BuyAndSellPairs[symbol], report.Pair{
			BuyDate:     &buyDate,
			SellDate:    sellTrade.TradeDate,
			Quantity:    a.Quantity,
			PerUnitGain: a.PerUnitGain,
		})
	}

	res.TotalCapitalGain += r.ShortTerm + r.LongTerm + shortSellGain
	res.CapitalGainDiscount += 0.5 * r.LongTerm
	res.Loss += r.Loss
	res.TaxableCapitalGain += r.Taxable + shortSellGain

	return nil
}

func sumQuantity(trades []ledger.Trade) float64 {
	var total float64
	for _, t := range trades {
		total += t.Quantity
	}
	return total
}

func sumAvailable(buys []lp.BuyParcel) float64 {
	var total float64
	for _, b := range buys {
		total += b.Available
	}
	return total
}
