package ledger

import (
	"strings"
	"testing"
	"time"
)

func mustCSV(t *testing.T, body string) *Ledger {
	t.Helper()
	l, err := (CSVLoader{}).Load(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return l
}

func TestCSVLoader_MissingColumns(t *testing.T) {
	_, err := (CSVLoader{}).Load(strings.NewReader("symbol,side,quantity\nAAA,BUY,1\n"))
	if err == nil {
		t.Fatal("expected ValidationError")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Missing) != 2 {
		t.Fatalf("expected 2 missing columns, got %v", ve.Missing)
	}
}

func TestCSVLoader_NormalisesAndDerives(t *testing.T) {
	body := "Symbol,Side,Trade_Date,Quantity,Transaction_Amount\n" +
		"tsla.nasdaq,buy,01/07/2019,10,200\n" +
		"TSLA,sell,15/08/2020,4,120\n"
	l := mustCSV(t, body)

	if l.Len() != 2 {
		t.Fatalf("expected 2 trades, got %d", l.Len())
	}
	buy, ok := l.Trade(0)
	if !ok {
		t.Fatal("missing trade 0")
	}
	if buy.Symbol != "TSLA" {
		t.Errorf("symbol = %q, want TSLA (suffix stripped, uppercased)", buy.Symbol)
	}
	if buy.Side != Buy {
		t.Errorf("side = %q, want BUY", buy.Side)
	}
	if buy.UnitPrice != 20 {
		t.Errorf("unit price = %v, want 20", buy.UnitPrice)
	}
	// 1 Jul 2019 -> FY2020
	if buy.FY != 2020 {
		t.Errorf("fy = %d, want 2020", buy.FY)
	}

	sell, _ := l.Trade(1)
	// 15 Aug 2020 -> FY2021
	if sell.FY != 2021 {
		t.Errorf("fy = %d, want 2021", sell.FY)
	}
}

func TestCSVLoader_RejectsBadSide(t *testing.T) {
	body := "symbol,side,trade_date,quantity,transaction_amount\nAAA,HOLD,01/01/2020,1,1\n"
	if _, err := (CSVLoader{}).Load(strings.NewReader(body)); err == nil {
		t.Fatal("expected error for invalid side")
	}
}

func TestFinancialYear_Boundary(t *testing.T) {
	june30 := time.Date(2020, time.June, 30, 0, 0, 0, 0, time.UTC)
	july1 := time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC)
	if FinancialYear(june30) != 2020 {
		t.Errorf("30 Jun 2020 -> FY %d, want 2020", FinancialYear(june30))
	}
	if FinancialYear(july1) != 2021 {
		t.Errorf("1 Jul 2020 -> FY %d, want 2021", FinancialYear(july1))
	}
}

func TestIsLongTerm_Boundary(t *testing.T) {
	buy := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	sell365 := buy.AddDate(0, 0, 365)
	sell366 := buy.AddDate(0, 0, 366)
	if IsLongTerm(buy, sell365) {
		t.Error("365 days should be short-term")
	}
	if !IsLongTerm(buy, sell366) {
		t.Error("366 days should be long-term")
	}
}

func TestLedger_Queries(t *testing.T) {
	body := "symbol,side,trade_date,quantity,transaction_amount\n" +
		"AAA,BUY,01/01/2019,10,100\n" +
		"BBB,BUY,01/01/2019,10,100\n" +
		"AAA,SELL,08/01/2019,5,60\n"
	l := mustCSV(t, body)

	if syms := l.Symbols(); len(syms) != 2 || syms[0] != "AAA" || syms[1] != "BBB" {
		t.Errorf("Symbols() = %v", syms)
	}
	fys := l.FinancialYears()
	if len(fys) != 1 || fys[0] != 2019 {
		t.Errorf("FinancialYears() = %v", fys)
	}
	if buys := l.BuysUpTo("AAA", 2019); len(buys) != 1 {
		t.Errorf("BuysUpTo(AAA,2019) = %d, want 1", len(buys))
	}
	if sells := l.SellsIn("AAA", 2019); len(sells) != 1 {
		t.Errorf("SellsIn(AAA,2019) = %d, want 1", len(sells))
	}
}

func TestLedger_FreezeBlocksAdjustment(t *testing.T) {
	body := "symbol,side,trade_date,quantity,transaction_amount\nAAA,BUY,01/01/2019,10,100\n"
	l := mustCSV(t, body)
	l.Freeze()
	if err := l.AdjustQuantity(0, 20); err == nil {
		t.Fatal("expected error adjusting a frozen ledger")
	}
}
