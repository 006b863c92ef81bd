package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// LevelRecordRepository stores level records in Postgres. The table carries a
// unique constraint on (code, level).
type LevelRecordRepository struct {
	db *sql.DB
}

func NewLevelRecordRepository(db *sql.DB) *LevelRecordRepository {
	return &LevelRecordRepository{db: db}
}

func (r *LevelRecordRepository) FindByKey(ctx context.Context, code string, level domain.Level) (*domain.LevelRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+levelRecordColumns+` FROM financial_data WHERE code = $1 AND level = $2`,
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

// Upsert inserts the record or, when (code, level) already exists, overwrites
// name, debt, credit and updated_at. id and created_at of an existing row are kept.
func (r *LevelRecordRepository) Upsert(ctx context.Context, rec *domain.LevelRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO financial_data (`+levelRecordColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code, level) DO UPDATE SET
			name = EXCLUDED.name,
			debt = EXCLUDED.debt,
			credit = EXCLUDED.credit,
			updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.Code, rec.Name, rec.Debt, rec.Credit, rec.Level,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

func (r *LevelRecordRepository) ListAll(ctx context.Context) ([]domain.LevelRecord, error) {
	// byte-wise collation so "120.01" sorts the same on every locale
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+levelRecordColumns+` FROM financial_data ORDER BY level, code COLLATE "C"`,
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

func (r *LevelRecordRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM financial_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (r *LevelRecordRepository) ClearAll(ctx context.Context) (int64, error) {
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

func (r *LevelRecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
