package hierarchy

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

var leadingNumberRE = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount never fails: absent or non-numeric input is zero, and input with
// trailing garbage keeps its leading numeric part ("12.5 TL" is 12.5).
func ParseAmount(raw domain.RawAmount) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	prefix := leadingNumberRE.FindString(s)
	if prefix == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero
	}
	return d
}
