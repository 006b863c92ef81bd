package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

// MemoryLevelRecordRepository keeps records in process memory. Safe for
// concurrent use; contents are lost on restart.
type MemoryLevelRecordRepository struct {
	mu      sync.RWMutex
	records map[domain.RecordKey]domain.LevelRecord
}

func NewMemoryLevelRecordRepository() *MemoryLevelRecordRepository {
	return &MemoryLevelRecordRepository{
		records: make(map[domain.RecordKey]domain.LevelRecord),
	}
}

func (m *MemoryLevelRecordRepository) FindByKey(_ context.Context, code string, level domain.Level) (*domain.LevelRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[domain.RecordKey{Code: code, Level: level}]
	if !ok {
		return nil, fmt.Errorf("FindByKey: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (m *MemoryLevelRecordRepository) Upsert(_ context.Context, rec *domain.LevelRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := rec.Key()
	if existing, ok := m.records[k]; ok {
		existing.Name = rec.Name
		existing.Debt = rec.Debt
		existing.Credit = rec.Credit
		existing.UpdatedAt = rec.UpdatedAt
		m.records[k] = existing
		return nil
	}
	m.records[k] = *rec
	return nil
}

func (m *MemoryLevelRecordRepository) ListAll(_ context.Context) ([]domain.LevelRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.LevelRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *MemoryLevelRecordRepository) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

func (m *MemoryLevelRecordRepository) ClearAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.records))
	m.records = make(map[domain.RecordKey]domain.LevelRecord)
	return n, nil
}

func (m *MemoryLevelRecordRepository) Ping(_ context.Context) error {
	return nil
}
