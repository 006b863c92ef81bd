package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// SeedLevelRecord inserts a record directly, bypassing the repository.
func SeedLevelRecord(t *testing.T, db *sql.DB, code, name string, level domain.Level, debt, credit string) *domain.LevelRecord {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	r := &domain.LevelRecord{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Debt:      decimal.RequireFromString(debt),
		Credit:    decimal.RequireFromString(credit),
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.Exec(
		`INSERT INTO financial_data (id, code, name, debt, credit, level, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Code, r.Name, r.Debt, r.Credit, r.Level, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed level record %s/%d: %v", code, level, err)
	}
	return r
}

func CountLevelRecords(t *testing.T, db *sql.DB, code string, level domain.Level) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM financial_data WHERE code = $1 AND level = $2`, code, level).Scan(&count)
	if err != nil {
		t.Fatalf("count level records %s/%d: %v", code, level, err)
	}
	return count
}
