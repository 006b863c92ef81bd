// Package storage opens the level record store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josh-kwaku/ledger-sync/internal/config"
	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/repository"
	"github.com/josh-kwaku/ledger-sync/migrations"
)

// Store is the full surface shared by the postgres, sqlite and memory
// repositories.
type Store interface {
	FindByKey(ctx context.Context, code string, level domain.Level) (*domain.LevelRecord, error)
	Upsert(ctx context.Context, rec *domain.LevelRecord) error
	ListAll(ctx context.Context) ([]domain.LevelRecord, error)
	Count(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Open returns the configured store and a func releasing its resources.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
			MaxOpenConns:     cfg.DBMaxOpenConns,
			MaxIdleConns:     cfg.DBMaxIdleConns,
			ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
			ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
			ConnectAttempts:  cfg.DBConnectAttempts,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("storage.Open: %w", err)
		}
		if cfg.DBAutoMigrate {
			if err := migrations.Apply(ctx, db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("storage.Open: %w", err)
			}
		}
		return repository.NewLevelRecordRepository(db), func() { db.Close() }, nil

	case config.StorageDriverSQLite:
		db, err := repository.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("storage.Open: %w", err)
		}
		return repository.NewSQLiteLevelRecordRepository(db), func() { db.Close() }, nil

	case config.StorageDriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemoryLevelRecordRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("storage.Open: unknown driver %q", cfg.StorageDriver)
	}
}
