package corpaction

import (
	"context"

	"austaxcgt/internal/ledger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fetcher retrieves the corporate-action history for a single symbol from
// an external market-data vendor. Implementations are supplied by the
// caller; this package ships none, matching spec.md's "the core does not
// retry or inspect network failures here."
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) ([]SplitEvent, []TickerChange, error)
}

// FetchingAdjuster fetches per-symbol corporate actions concurrently
// (bounded by the number of distinct symbols) and applies them with the
// same logic as StaticAdjuster. Modelled on the teacher's ESI client
// fan-out per character and the server's singleflight-guarded cache
// builds: errgroup bounds the fan-out, singleflight collapses duplicate
// concurrent fetches for the same symbol.
type FetchingAdjuster struct {
	Fetcher Fetcher

	group singleflight.Group
}

func (a *FetchingAdjuster) Adjust(ctx context.Context, l *ledger.Ledger) error {
	symbols := l.Symbols()

	type fetched struct {
		symbol        string
		splits        []SplitEvent
		tickerChanges []TickerChange
	}
	results := make([]fetched, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			v, err, _ := a.group.Do(symbol, func() (any, error) {
				splits, changes, err := a.Fetcher.Fetch(gctx, symbol)
				if err != nil {
					return nil, err
				}
				return fetched{symbol: symbol, splits: splits, tickerChanges: changes}, nil
			})
			if err != nil {
				return err
			}
			results[i] = v.(fetched)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	static := StaticAdjuster{}
	for _, r := range results {
		static.Splits = append(static.Splits, r.splits...)
		static.TickerChanges = append(static.TickerChanges, r.tickerChanges...)
	}
	return static.Adjust(ctx, l)
}
