// Package store persists completed per-FY results to SQLite, the same way
// the reference db package persists scan history: open, migrate once on a
// versioned schema, then plain database/sql calls.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"austaxcgt/internal/logger"
	"austaxcgt/internal/report"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection holding one row per (run, FY).
type Store struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping store: %w", err)
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	logger.Success("Store", fmt.Sprintf("Opened %s", path))
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate() error {
	version := 0
	s.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := s.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS runs (
				id           INTEGER PRIMARY KEY AUTOINCREMENT,
				token        TEXT NOT NULL UNIQUE,
				started_at   TEXT NOT NULL,
				source_path  TEXT NOT NULL,
				base_asset   TEXT NOT NULL,
				allow_shorts INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS fy_results (
				run_id               INTEGER NOT NULL REFERENCES runs(id),
				fy                   INTEGER NOT NULL,
				total_capital_gain   REAL NOT NULL,
				capital_gain_discount REAL NOT NULL,
				loss                 REAL NOT NULL,
				short_sell_gain      REAL NOT NULL,
				taxable_capital_gain REAL NOT NULL,
				pairs_json           TEXT NOT NULL,
				PRIMARY KEY (run_id, fy)
			);
			CREATE INDEX IF NOT EXISTS idx_fy_results_fy ON fy_results(fy);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("Store", "Applied migration v1")
	}
	return nil
}

// StartRun inserts a new run row and returns its numeric id along with an
// opaque token safe to hand back to an external caller (e.g. the HTTP
// surface), rather than exposing the autoincrement id directly.
func (s *Store) StartRun(startedAt, sourcePath, baseAsset string, allowShorts bool) (int64, string, error) {
	token := uuid.New().String()
	res, err := s.sql.Exec(
		`INSERT INTO runs (token, started_at, source_path, base_asset, allow_shorts) VALUES (?, ?, ?, ?, ?)`,
		token, startedAt, sourcePath, baseAsset, allowShorts,
	)
	if err != nil {
		return 0, "", fmt.Errorf("start run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, "", fmt.Errorf("start run: %w", err)
	}
	return id, token, nil
}

// RunIDForToken resolves an external run token back to its numeric id.
func (s *Store) RunIDForToken(token string) (int64, error) {
	var id int64
	err := s.sql.QueryRow(`SELECT id FROM runs WHERE token = ?`, token).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("run token %q: %w", token, err)
	}
	return id, nil
}

// SaveResults persists every FY result for a run. BuyAndSellPairs is
// stored as JSON rather than normalised further, since it is write-once
// and read back whole (spec.md §6's report consumer reads the same
// shape the orchestrator produced).
func (s *Store) SaveResults(runID int64, results map[int]*report.Result) error {
	stmt, err := s.sql.Prepare(`
		INSERT INTO fy_results (run_id, fy, total_capital_gain, capital_gain_discount, loss, short_sell_gain, taxable_capital_gain, pairs_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	defer stmt.Close()

	for fy, r := range results {
		pairsJSON, err := json.Marshal(r.BuyAndSellPairs)
		if err != nil {
			return fmt.Errorf("save results: encode pairs for FY%d: %w", fy, err)
		}
		if _, err := stmt.Exec(runID, fy, r.TotalCapitalGain, r.CapitalGainDiscount, r.Loss, r.ShortSellGain, r.TaxableCapitalGain, string(pairsJSON)); err != nil {
			return fmt.Errorf("save results: FY%d: %w", fy, err)
		}
	}
	return nil
}

// LoadResults returns every FY result stored for a run, keyed by FY.
func (s *Store) LoadResults(runID int64) (map[int]*report.Result, error) {
	rows, err := s.sql.Query(`
		SELECT fy, total_capital_gain, capital_gain_discount, loss, short_sell_gain, taxable_capital_gain, pairs_json
		FROM fy_results WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}
	defer rows.Close()

	out := make(map[int]*report.Result)
	for rows.Next() {
		var fy int
		var pairsJSON string
		r := &report.Result{}
		if err := rows.Scan(&fy, &r.TotalCapitalGain, &r.CapitalGainDiscount, &r.Loss, &r.ShortSellGain, &r.TaxableCapitalGain, &pairsJSON); err != nil {
			return nil, fmt.Errorf("load results: scan: %w", err)
		}
		r.FY = fy
		if err := json.Unmarshal([]byte(pairsJSON), &r.BuyAndSellPairs); err != nil {
			return nil, fmt.Errorf("load results: decode pairs for FY%d: %w", fy, err)
		}
		out[fy] = r
	}
	return out, rows.Err()
}
