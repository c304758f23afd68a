package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Writer renders a completed run (one Result per FY) to some output.
// The core's orchestrator never depends on a Writer; it is a pure
// external collaborator, consuming the §3 result shape (spec.md §6).
type Writer interface {
	Write(w io.Writer, results map[int]*Result) error
}

// ConsoleWriter renders results as aligned plain-text tables, one per FY,
// using text/tabwriter — grounded on the console reporting style in
// other_examples/e6f6ca19_slatteryjim-cost-basis-tracking (ledger.go),
// since no example in the retrieved pack ships a spreadsheet library.
type ConsoleWriter struct {
	// TruncateQuantities mirrors Config.TruncatePresentedQuantities
	// (spec.md §9): when true, qty_sold is rendered as an integer.
	TruncateQuantities bool
}

func money(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + humanize.CommafWithDigits(v, 2)
}

func (cw ConsoleWriter) Write(w io.Writer, results map[int]*Result) error {
	var fys []int
	for fy := range results {
		fys = append(fys, fy)
	}
	sort.Ints(fys)

	for _, fy := range fys {
		r := results[fy]
		fmt.Fprintf(w, "FY%d\n", fy)

		var symbols []string
		for s := range r.BuyAndSellPairs {
			symbols = append(symbols, s)
		}
		sort.Strings(symbols)

		tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
		fmt.Fprintln(tw, "symbol\tbuy date\tsell date\tquantity\tper-unit gain")
		for _, symbol := range symbols {
			for _, p := range r.BuyAndSellPairs[symbol] {
				buyDate := "Short Sell"
				if p.BuyDate != nil {
					buyDate = p.BuyDate.Format("2006-01-02")
				}
				qty := fmt.Sprintf("%.4f", p.Quantity)
				if cw.TruncateQuantities {
					qty = fmt.Sprintf("%d", int64(p.Quantity))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", symbol, buyDate, p.SellDate.Format("2006-01-02"), qty, money(p.PerUnitGain))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(w, "  total capital gain:    %s\n", money(r.TotalCapitalGain))
		fmt.Fprintf(w, "  capital gain discount: %s\n", money(r.CapitalGainDiscount))
		fmt.Fprintf(w, "  loss:                  %s\n", money(r.Loss))
		fmt.Fprintf(w, "  short sell gain:       %s\n", money(r.ShortSellGain))
		fmt.Fprintf(w, "  taxable capital gain:  %s\n\n", money(r.TaxableCapitalGain))
	}
	return nil
}
