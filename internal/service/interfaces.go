package service

import (
	"context"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

type entrySource interface {
	FetchEntries(ctx context.Context) ([]domain.LedgerEntry, error)
}

type levelWriter interface {
	FindByKey(ctx context.Context, code string, level domain.Level) (*domain.LevelRecord, error)
	Upsert(ctx context.Context, rec *domain.LevelRecord) error
}

type levelReader interface {
	ListAll(ctx context.Context) ([]domain.LevelRecord, error)
	Count(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event domain.SyncCompleted) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.SyncCompleted) error { return nil }
