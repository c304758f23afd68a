package store

import (
	"database/sql"
	"testing"
	"time"

	"austaxcgt/internal/report"

	_ "modernc.org/sqlite"
)

// openTestStore opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestStore_SaveAndLoadResultsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	defer s.Close()

	runID, token, err := s.StartRun(time.Now().Format(time.RFC3339), "trades.csv", "USD", false)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if runID <= 0 {
		t.Fatalf("StartRun returned id %d", runID)
	}
	if token == "" {
		t.Fatal("StartRun returned empty token")
	}
	if resolved, err := s.RunIDForToken(token); err != nil || resolved != runID {
		t.Errorf("RunIDForToken(%q) = %d, %v; want %d, nil", token, resolved, err, runID)
	}

	buyDate := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	want := map[int]*report.Result{
		2020: {
			FY: 2020,
			BuyAndSellPairs: map[string][]report.Pair{
				"AAA": {{BuyDate: &buyDate, SellDate: buyDate.AddDate(1, 0, 1), Quantity: 4, PerUnitGain: 10}},
			},
			TotalCapitalGain:    40,
			CapitalGainDiscount: 20,
			Loss:                0,
			ShortSellGain:       0,
			TaxableCapitalGain:  20,
		},
	}

	if err := s.SaveResults(runID, want); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}

	got, err := s.LoadResults(runID)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}

	r, ok := got[2020]
	if !ok {
		t.Fatalf("expected FY2020 in loaded results, got %v", got)
	}
	if r.TotalCapitalGain != 40 || r.TaxableCapitalGain != 20 || r.CapitalGainDiscount != 20 {
		t.Errorf("loaded totals = %+v, want TotalCapitalGain=40 TaxableCapitalGain=20 CapitalGainDiscount=20", r)
	}
	pairs := r.BuyAndSellPairs["AAA"]
	if len(pairs) != 1 || pairs[0].Quantity != 4 || pairs[0].PerUnitGain != 10 {
		t.Errorf("loaded pairs = %+v", pairs)
	}
}

func TestStore_LoadResultsForUnknownRunIsEmpty(t *testing.T) {
	s := openTestStore(t)
	defer s.Close()

	got, err := s.LoadResults(999)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results for unknown run, got %v", got)
	}
}
