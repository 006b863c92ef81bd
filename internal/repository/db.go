package repository

import (
	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

const levelRecordColumns = `id, code, name, debt, credit, level, created_at, updated_at`

func scanLevelRecord(s scanner) (*domain.LevelRecord, error) {
	var r domain.LevelRecord
	err := s.Scan(
		&r.ID, &r.Code, &r.Name,
		&r.Debt, &r.Credit, &r.Level,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
