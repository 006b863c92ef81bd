package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS financial_data (
	id         TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	debt       TEXT NOT NULL DEFAULT '0',
	credit     TEXT NOT NULL DEFAULT '0',
	level      INTEGER NOT NULL CHECK (level BETWEEN 1 AND 3),
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	UNIQUE (code, level)
);
CREATE INDEX IF NOT EXISTS idx_financial_data_level_code ON financial_data (level, code);`

// NewSQLiteDB opens (or creates) the database file and applies the schema.
// Amounts are stored as text so decimals round-trip exactly.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteDB: open: %w", err)
	}
	// a single writer avoids SQLITE_BUSY and keeps ":memory:" on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("NewSQLiteDB: schema: %w", err)
	}
	return db, nil
}

type SQLiteLevelRecordRepository struct {
	db *sql.DB
}

func NewSQLiteLevelRecordRepository(db *sql.DB) *SQLiteLevelRecordRepository {
	return &SQLiteLevelRecordRepository{db: db}
}

func (r *SQLiteLevelRecordRepository) FindByKey(ctx context.Context, code string, level domain.Level) (*domain.LevelRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+levelRecordColumns+` FROM financial_data WHERE code = ? AND level = ?`,
		code, level,
	)
	rec, err := scanLevelRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByKey: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("FindByKey: %w", err)
	}
	return rec, nil
}

func (r *SQLiteLevelRecordRepository) Upsert(ctx context.Context, rec *domain.LevelRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO financial_data (`+levelRecordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (code, level) DO UPDATE SET
			name = excluded.name,
			debt = excluded.debt,
			credit = excluded.credit,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Code, rec.Name, rec.Debt, rec.Credit, rec.Level,
		rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

func (r *SQLiteLevelRecordRepository) ListAll(ctx context.Context) ([]domain.LevelRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+levelRecordColumns+` FROM financial_data ORDER BY level, code`,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()

	var records []domain.LevelRecord
	for rows.Next() {
		rec, err := scanLevelRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ListAll: scan: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAll: rows: %w", err)
	}
	return records, nil
}

func (r *SQLiteLevelRecordRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM financial_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (r *SQLiteLevelRecordRepository) ClearAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM financial_data`)
	if err != nil {
		return 0, fmt.Errorf("ClearAll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ClearAll: rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteLevelRecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
