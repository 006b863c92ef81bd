// Package hierarchy turns flat dotted account codes into three-level records
// and turns persisted level records back into an aggregated tree.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

const (
	groupCodeLen    = 3
	subGroupCodeLen = 5

	groupLabel    = "Ana Grup"
	subGroupLabel = "Alt Grup"
)

// Decompose derives the level records of one ledger entry: the group (first
// three digits), the sub-group (first five digits, formatted "XXX.YY") when the
// code is long enough, and the account itself under its original code.
//
// Entries whose code is missing or has fewer than three digits yield no records
// and an error wrapping domain.ErrMalformedEntry.
func Decompose(entry domain.LedgerEntry) ([]domain.LevelRecord, error) {
	code := strings.TrimSpace(entry.AccountCode)
	if code == "" {
		return nil, fmt.Errorf("Decompose: missing account code: %w", domain.ErrMalformedEntry)
	}

	digits := []rune(strings.ReplaceAll(code, ".", ""))
	if len(digits) < groupCodeLen {
		return nil, fmt.Errorf("Decompose: account code %q too short: %w", code, domain.ErrMalformedEntry)
	}

	debt := ParseAmount(entry.Debit)
	credit := ParseAmount(entry.Credit)

	groupCode := string(digits[:groupCodeLen])
	records := make([]domain.LevelRecord, 0, 3)
	records = append(records, domain.LevelRecord{
		Code:   groupCode,
		Name:   fmt.Sprintf("%s - %s", groupCode, groupLabel),
		Debt:   debt,
		Credit: credit,
		Level:  domain.LevelGroup,
	})

	if len(digits) >= subGroupCodeLen {
		subCode := groupCode + "." + string(digits[groupCodeLen:subGroupCodeLen])
		records = append(records, domain.LevelRecord{
			Code:   subCode,
			Name:   fmt.Sprintf("%s - %s", subCode, subGroupLabel),
			Debt:   debt,
			Credit: credit,
			Level:  domain.LevelSubGroup,
		})
	}

	records = append(records, domain.LevelRecord{
		Code:   code,
		Name:   entry.AccountName,
		Debt:   debt,
		Credit: credit,
		Level:  domain.LevelAccount,
	})

	return records, nil
}
