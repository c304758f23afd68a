package shortsell

import (
	"testing"
	"time"

	"austaxcgt/internal/ledger"
)

func sell(id int, qty, price float64) ledger.Trade {
	return ledger.Trade{ID: id, Side: ledger.Sell, Quantity: qty, UnitPrice: price, TradeDate: time.Date(2020, 1, id, 0, 0, 0, 0, time.UTC)}
}

func TestAdjust_PeelsCheapestFirst(t *testing.T) {
	sells := []ledger.Trade{
		sell(1, 5, 10), // cheapest
		sell(2, 5, 20),
	}
	residual, fragments, gain := Adjust(sells, 7)

	if len(fragments) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(fragments))
	}
	if fragments[0].SellID != 1 || fragments[0].Quantity != 5 {
		t.Errorf("first fragment = %+v, want sell 1 qty 5 (fully peeled, cheapest)", fragments[0])
	}
	if fragments[1].SellID != 2 || fragments[1].Quantity != 2 {
		t.Errorf("second fragment = %+v, want sell 2 qty 2", fragments[1])
	}
	wantGain := 5*10 + 2*20.0
	if gain != wantGain {
		t.Errorf("gain = %v, want %v", gain, wantGain)
	}
	if len(residual) != 1 || residual[0].ID != 2 || residual[0].Quantity != 3 {
		t.Errorf("residual = %+v, want sell 2 with qty 3", residual)
	}
}

func TestAdjust_ExactCoverageLeavesNoResidual(t *testing.T) {
	sells := []ledger.Trade{sell(1, 4, 10)}
	residual, fragments, gain := Adjust(sells, 4)
	if len(residual) != 0 {
		t.Errorf("expected no residual, got %+v", residual)
	}
	if len(fragments) != 1 || fragments[0].Quantity != 4 {
		t.Errorf("fragments = %+v", fragments)
	}
	if gain != 40 {
		t.Errorf("gain = %v, want 40", gain)
	}
}
