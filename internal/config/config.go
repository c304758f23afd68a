// Package config holds the plain-struct run configuration for the CGT
// calculator, following the flat-struct-with-defaults shape the rest of
// this codebase's ambient stack uses for settings.
package config

// Config holds the settings for one compute run. It is JSON-tagged so a
// caller (CLI flags or the thin HTTP surface) can (de)serialize it easily.
type Config struct {
	// BaseAsset is the currency cost basis and gains are tallied in.
	// It is informational only — the core never converts currencies
	// (see spec Non-goals).
	BaseAsset string `json:"base_asset"`

	// AllowShortSelling decides the ShortSellDetected branch in
	// spec.md §4.3/§4.6 up front, since this is a non-interactive run.
	// When false, a symbol-year with uncovered sales fails the FY.
	AllowShortSelling bool `json:"allow_short_selling"`

	// TruncatePresentedQuantities flags whether internal/report truncates
	// qty_sold to an integer (legacy behaviour) or prints the real value.
	// Never consulted by internal/accounting or internal/lp — see
	// spec.md §9's note on the presentation-boundary truncation bug.
	TruncatePresentedQuantities bool `json:"truncate_presented_quantities"`
}

// Default returns a Config with sensible defaults: USD base asset, short
// selling disallowed (the safer default — a caller must opt in), and
// fractional quantities preserved in reports.
func Default() Config {
	return Config{
		BaseAsset:                   "USD",
		AllowShortSelling:           false,
		TruncatePresentedQuantities: false,
	}
}
