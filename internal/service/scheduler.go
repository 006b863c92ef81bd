package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/josh-kwaku/ledger-sync/internal/domain"
)

type syncRunner interface {
	RunSync(ctx context.Context, trigger domain.SyncTrigger) (*domain.SyncResult, error)
}

// Scheduler triggers a sync every interval. Ticks that land while a run is
// still in flight are dropped.
type Scheduler struct {
	runner     syncRunner
	logger     *slog.Logger
	interval   time.Duration
	runOnStart bool
}

func NewScheduler(runner syncRunner, logger *slog.Logger, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{
		runner:     runner,
		logger:     logger,
		interval:   interval,
		runOnStart: runOnStart,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("sync scheduler started", "interval", s.interval, "run_on_start", s.runOnStart)

	if s.runOnStart {
		s.run(ctx, domain.SyncTriggerStartup)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sync scheduler stopped")
			return
		case <-ticker.C:
			s.run(ctx, domain.SyncTriggerScheduled)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, trigger domain.SyncTrigger) {
	if _, err := s.runner.RunSync(ctx, trigger); err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			s.logger.Info("scheduled sync skipped, previous run still active", "trigger", trigger)
			return
		}
		s.logger.Error("scheduled sync failed", "trigger", trigger, "error", err)
	}
}
