package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/hierarchy"
)

// SyncService pulls the chart of accounts from the upstream source and merges
// the derived level records into storage. Only one run is active at a time;
// a run requested while another is in flight fails with ErrSyncInProgress.
type SyncService struct {
	source    entrySource
	store     levelWriter
	publisher eventPublisher
	logger    *slog.Logger
	now       func() time.Time

	running sync.Mutex
}

func NewSyncService(source entrySource, store levelWriter, publisher eventPublisher, logger *slog.Logger) *SyncService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &SyncService{
		source:    source,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RunSync either returns the counters of a completed run or a run-level error
// (source unreachable or unparseable, or another run active); never both.
func (s *SyncService) RunSync(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncResult, error) {
	if !s.running.TryLock() {
		return nil, fmt.Errorf("RunSync: %w", domain.ErrSyncInProgress)
	}
	defer s.running.Unlock()

	runID := uuid.New()
	log := s.logger.With("run_id", runID, "trigger", trigger)
	startedAt := s.now()
	log.Info("sync started")

	entries, err := s.source.FetchEntries(ctx)
	if err != nil {
		log.Error("sync aborted", "error", err)
		return nil, fmt.Errorf("RunSync: %w", err)
	}

	result := s.ingest(ctx, log, entries)
	finishedAt := s.now()

	log.Info("sync completed",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"unique", result.Unique,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration_ms", finishedAt.Sub(startedAt).Milliseconds(),
	)

	event := domain.SyncCompleted{
		RunID:      runID,
		Trigger:    trigger,
		Processed:  result.Processed,
		Skipped:    result.Skipped,
		Unique:     result.Unique,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish sync event", "error", err)
	}

	return result, nil
}

func (s *SyncService) ingest(ctx context.Context, log *slog.Logger, entries []domain.LedgerEntry) *domain.SyncResult {
	result := &domain.SyncResult{Processed: len(entries)}

	var all []domain.LevelRecord
	for i, entry := range entries {
		records, err := hierarchy.Decompose(entry)
		if err != nil {
			if errors.Is(err, domain.ErrMalformedEntry) {
				result.Skipped++
				log.Debug("ledger entry skipped", "index", i, "account_code", entry.AccountCode, "error", err)
				continue
			}
			result.Failed++
			log.Error("ledger entry failed", "index", i, "account_code", entry.AccountCode, "error", err)
			continue
		}
		all = append(all, records...)
	}

	unique := hierarchy.Dedupe(all)
	result.Unique = len(unique)
	log.Info("level records derived", "total", len(all), "unique", len(unique))

	// one upsert at a time keeps write concurrency on the (code, level) key at 1
	for _, rec := range unique {
		if err := s.Merge(ctx, rec); err != nil {
			result.Failed++
			log.Error("merge failed", "code", rec.Code, "level", rec.Level, "error", err)
			continue
		}
		result.Succeeded++
	}

	return result
}

// Merge stores rec under its (code, level) key: a new record is created when
// the key is absent, otherwise name, debt, credit and updated_at are replaced.
// Failures come back as *domain.RecordError.
func (s *SyncService) Merge(ctx context.Context, rec domain.LevelRecord) error {
	now := s.now()

	existing, err := s.store.FindByKey(ctx, rec.Code, rec.Level)
	switch {
	case err == nil:
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		rec.ID = uuid.New()
		rec.CreatedAt = now
	default:
		return &domain.RecordError{Code: rec.Code, Level: rec.Level, Err: err}
	}
	rec.UpdatedAt = now

	if err := s.store.Upsert(ctx, &rec); err != nil {
		return &domain.RecordError{Code: rec.Code, Level: rec.Level, Err: err}
	}
	return nil
}
