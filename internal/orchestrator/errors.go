package orchestrator

import (
	"fmt"
	"strings"
)

// ShortSellDetectedError is raised for the first FY whose symbols include
// an uncovered sale when short selling is not permitted for this run
// (spec.md §4.3/§4.6/§7).
type ShortSellDetectedError struct {
	FY      int
	Symbols []string
}

func (e *ShortSellDetectedError) Error() string {
	return fmt.Sprintf("orchestrator: short selling detected in FY%d on symbols: %s", e.FY, strings.Join(e.Symbols, ", "))
}
