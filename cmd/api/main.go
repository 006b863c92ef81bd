package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/josh-kwaku/ledger-sync/internal/config"
	"github.com/josh-kwaku/ledger-sync/internal/domain"
	"github.com/josh-kwaku/ledger-sync/internal/events/kafka"
	"github.com/josh-kwaku/ledger-sync/internal/logging"
	"github.com/josh-kwaku/ledger-sync/internal/service"
	"github.com/josh-kwaku/ledger-sync/internal/storage"
)

type syncPublisher interface {
	Publish(ctx context.Context, event domain.SyncCompleted) error
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("ledger-sync", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var publisher syncPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
		slog.Info("sync events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	upstream := service.NewUpstreamClient(service.UpstreamConfig{
		BaseURL:            cfg.UpstreamBaseURL,
		Layout:             cfg.UpstreamLayout,
		RecordID:           cfg.UpstreamRecordID,
		Script:             cfg.UpstreamScript,
		Username:           cfg.UpstreamUsername,
		Password:           cfg.UpstreamPassword,
		Timeout:            cfg.UpstreamTimeout,
		InsecureSkipVerify: cfg.UpstreamInsecureSkipVerify,
	})
	syncSvc := service.NewSyncService(upstream, store, publisher, logger)
	hierarchySvc := service.NewHierarchyService(store, logger)

	scheduler := service.NewScheduler(syncSvc, logger, cfg.SyncInterval, cfg.SyncOnStartup)
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Start(ctx)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(store, syncSvc, hierarchySvc, upstream),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	<-schedulerDone
	slog.Info("server stopped")
}
