package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-sync/internal/config"
	"github.com/josh-kwaku/ledger-sync/internal/repository"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := Open(ctx, &config.Config{StorageDriver: config.StorageDriverMemory})
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &repository.MemoryLevelRecordRepository{}, store)
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{
			StorageDriver: config.StorageDriverSQLite,
			SQLitePath:    filepath.Join(t.TempDir(), "ledger.db"),
		}
		store, closeFn, err := Open(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &repository.SQLiteLevelRecordRepository{}, store)
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := Open(ctx, &config.Config{StorageDriver: "redis"})
		assert.ErrorContains(t, err, "redis")
	})
}
