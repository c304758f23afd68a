package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// requiredColumns mirrors the Python reference's required_cols set
// (main.py: create_trades_dataframe).
var requiredColumns = []string{"symbol", "side", "trade_date", "quantity", "transaction_amount"}

// ValidationError is raised when the input CSV has no header row, is
// missing required columns, or a row has an invalid side, date, quantity
// or transaction amount. It is fatal and raised before any solving takes
// place (spec.md §7). A record that encoding/csv itself cannot read (for
// example a wrong field count) is returned as a wrapped plain error
// instead.
type ValidationError struct {
	Missing []string
	Detail  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("ledger: missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("ledger: %s", e.Detail)
}

// dayFirstLayouts are tried in order, matching pandas' dayfirst=True
// leniency (main.py parses trade_date with pd.to_datetime(dayfirst=True)).
var dayFirstLayouts = []string{
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2006-01-02",
}

func parseDayFirst(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q: %w", s, lastErr)
}

// Loader builds a Ledger from some external source. The CSV
// implementation below is the only one this package ships; spec.md §6
// treats the format itself (headers, day-first dates) as the contract.
type Loader interface {
	Load(r io.Reader) (*Ledger, error)
}

// CSVLoader reads a trade history CSV into a Ledger, applying the
// transforms spec.md §4.1 lists in order: uppercase side, strip exchange
// suffix at the first '.', day-first date parsing, numeric coercion,
// FY derivation, sequential id assignment.
//
// Grounded on bufdev-ibctl's internal/pkg/ibkractivitycsv statement
// parser: case-insensitive, whitespace-trimmed header matching driven by
// column name rather than position.
type CSVLoader struct{}

func (CSVLoader) Load(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &ValidationError{Detail: "empty CSV: no header row"}
		}
		return nil, fmt.Errorf("ledger: read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ValidationError{Missing: missing}
	}

	var trades []Trade
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ledger: read row %d: %w", rowNum, err)
		}
		rowNum++

		symbol := strings.ToUpper(strings.SplitN(strings.TrimSpace(row[colIdx["symbol"]]), ".", 2)[0])
		side := Side(strings.ToUpper(strings.TrimSpace(row[colIdx["side"]])))
		if side != Buy && side != Sell {
			return nil, &ValidationError{Detail: fmt.Sprintf("row %d: side must be BUY or SELL, got %q", rowNum, row[colIdx["side"]])}
		}

		tradeDate, err := parseDayFirst(row[colIdx["trade_date"]])
		if err != nil {
			return nil, &ValidationError{Detail: fmt.Sprintf("row %d: %v", rowNum, err)}
		}

		quantity, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx["quantity"]]), 64)
		if err != nil || quantity <= 0 {
			return nil, &ValidationError{Detail: fmt.Sprintf("row %d: quantity must be a positive number, got %q", rowNum, row[colIdx["quantity"]])}
		}

		amount, err := strconv.ParseFloat(strings.TrimSpace(row[colIdx["transaction_amount"]]), 64)
		if err != nil || amount < 0 {
			return nil, &ValidationError{Detail: fmt.Sprintf("row %d: transaction_amount must be a non-negative number, got %q", rowNum, row[colIdx["transaction_amount"]])}
		}

		trades = append(trades, Trade{
			ID:                len(trades),
			Symbol:            symbol,
			Side:              side,
			TradeDate:         tradeDate,
			Quantity:          quantity,
			TransactionAmount: amount,
			UnitPrice:         amount / quantity,
			FY:                FinancialYear(tradeDate),
		})
	}

	return New(trades), nil
}
