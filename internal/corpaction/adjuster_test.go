package corpaction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"austaxcgt/internal/ledger"
)

func loadLedger(t *testing.T, body string) *ledger.Ledger {
	t.Helper()
	l, err := (ledger.CSVLoader{}).Load(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return l
}

func TestNoopAdjuster(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\nAAA,BUY,01/01/2019,10,100\n")
	if err := (NoopAdjuster{}).Adjust(context.Background(), l); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	trade, _ := l.Trade(0)
	if trade.Quantity != 10 {
		t.Errorf("quantity changed under Noop: %v", trade.Quantity)
	}
}

func TestStaticAdjuster_Split(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\nTSLA,BUY,01/01/2019,10,2000\n")
	adj := StaticAdjuster{
		Splits: []SplitEvent{
			{Symbol: "TSLA", EffectiveDate: time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC), Ratio: 5},
		},
	}
	if err := adj.Adjust(context.Background(), l); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	trade, _ := l.Trade(0)
	if trade.Quantity != 50 {
		t.Errorf("quantity = %v, want 50 after 5:1 split", trade.Quantity)
	}
}

func TestStaticAdjuster_TickerChange(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\nOLD,BUY,01/01/2019,10,100\n")
	adj := StaticAdjuster{
		TickerChanges: []TickerChange{
			{From: "OLD", To: "NEW", EffectiveDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	if err := adj.Adjust(context.Background(), l); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	trade, _ := l.Trade(0)
	if trade.Symbol != "NEW" {
		t.Errorf("symbol = %q, want NEW", trade.Symbol)
	}
}

func TestStaticAdjuster_NoopAfterFreeze(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\nAAA,BUY,01/01/2019,10,100\n")
	l.Freeze()
	adj := StaticAdjuster{Splits: []SplitEvent{{Symbol: "AAA", EffectiveDate: time.Now(), Ratio: 2}}}
	if err := adj.Adjust(context.Background(), l); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	trade, _ := l.Trade(0)
	if trade.Quantity != 10 {
		t.Errorf("quantity mutated on frozen ledger: %v", trade.Quantity)
	}
}

type stubFetcher struct {
	calls map[string]int
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, symbol string) ([]SplitEvent, []TickerChange, error) {
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[symbol]++
	if s.err != nil {
		return nil, nil, s.err
	}
	return []SplitEvent{{Symbol: symbol, EffectiveDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), Ratio: 2}}, nil, nil
}

func TestFetchingAdjuster_AppliesPerSymbolFetches(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\n"+
		"AAA,BUY,01/01/2019,10,100\n"+
		"BBB,BUY,01/01/2019,20,200\n")
	f := &stubFetcher{}
	a := &FetchingAdjuster{Fetcher: f}
	if err := a.Adjust(context.Background(), l); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	aTrade, _ := l.Trade(0)
	bTrade, _ := l.Trade(1)
	if aTrade.Quantity != 20 || bTrade.Quantity != 40 {
		t.Errorf("quantities = %v, %v, want 20, 40", aTrade.Quantity, bTrade.Quantity)
	}
}

func TestFetchingAdjuster_PropagatesError(t *testing.T) {
	l := loadLedger(t, "symbol,side,trade_date,quantity,transaction_amount\nAAA,BUY,01/01/2019,10,100\n")
	a := &FetchingAdjuster{Fetcher: &stubFetcher{err: errors.New("vendor down")}}
	if err := a.Adjust(context.Background(), l); err == nil {
		t.Fatal("expected error to propagate")
	}
}
