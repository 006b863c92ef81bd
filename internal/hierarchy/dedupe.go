package hierarchy

import "github.com/josh-kwaku/ledger-sync/internal/domain"

// Dedupe keeps the first record seen for every (code, level) key, in input
// order. Later duplicates are dropped, not summed: group totals are rebuilt
// from the account leaves by Aggregate on read.
func Dedupe(records []domain.LevelRecord) []domain.LevelRecord {
	seen := make(map[domain.RecordKey]struct{}, len(records))
	unique := make([]domain.LevelRecord, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
