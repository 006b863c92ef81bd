package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

type levelRecordStore interface {
	FindByKey(ctx context.Context, code string, level domain.Level) (*domain.LevelRecord, error)
	Upsert(ctx context.Context, rec *domain.LevelRecord) error
	ListAll(ctx context.Context) ([]domain.LevelRecord, error)
	Count(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

func newRecord(code, name string, level domain.Level, debt, credit string) *domain.LevelRecord {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.LevelRecord{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Debt:      decimal.RequireFromString(debt),
		Credit:    decimal.RequireFromString(credit),
		Level:     level,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// runStoreContract checks the behaviour every storage backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) levelRecordStore) {
	t.Run("find missing returns not found", func(t *testing.T) {
		store := newStore(t)
		_, err := store.FindByKey(context.Background(), "120", domain.LevelGroup)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("upsert inserts then updates in place", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		first := newRecord("120.01", "Alt Grup", domain.LevelSubGroup, "10", "2")
		require.NoError(t, store.Upsert(ctx, first))

		second := newRecord("120.01", "Renamed", domain.LevelSubGroup, "99.95", "0")
		second.UpdatedAt = first.UpdatedAt.Add(time.Minute)
		require.NoError(t, store.Upsert(ctx, second))
		require.NoError(t, store.Upsert(ctx, second))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := store.FindByKey(ctx, "120.01", domain.LevelSubGroup)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID, "identity is kept")
		assert.Equal(t, "Renamed", got.Name)
		assert.True(t, got.Debt.Equal(decimal.RequireFromString("99.95")), "debt: got %s", got.Debt)
		assert.True(t, got.Credit.IsZero(), "credit: got %s", got.Credit)
		assert.WithinDuration(t, second.UpdatedAt, got.UpdatedAt, time.Second)
	})

	t.Run("same code on different levels is distinct", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Upsert(ctx, newRecord("120", "120 - Ana Grup", domain.LevelGroup, "1", "0")))
		require.NoError(t, store.Upsert(ctx, newRecord("120", "Kasa", domain.LevelAccount, "2", "0")))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("list orders by level then code", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, r := range []*domain.LevelRecord{
			newRecord("120.01.002", "b", domain.LevelAccount, "0", "0"),
			newRecord("320", "g2", domain.LevelGroup, "0", "0"),
			newRecord("120.01", "s", domain.LevelSubGroup, "0", "0"),
			newRecord("120.01.001", "a", domain.LevelAccount, "0", "0"),
			newRecord("120", "g1", domain.LevelGroup, "0", "0"),
		} {
			require.NoError(t, store.Upsert(ctx, r))
		}

		all, err := store.ListAll(ctx)
		require.NoError(t, err)

		var codes []string
		for _, r := range all {
			codes = append(codes, r.Code)
		}
		assert.Equal(t, []string{"120", "320", "120.01", "120.01.001", "120.01.002"}, codes)
	})

	t.Run("clear all empties the store", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Upsert(ctx, newRecord("120", "g", domain.LevelGroup, "0", "0")))
		require.NoError(t, store.Upsert(ctx, newRecord("120.01", "s", domain.LevelSubGroup, "0", "0")))

		removed, err := store.ClearAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		all, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		removed, err = store.ClearAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
