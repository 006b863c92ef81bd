package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/ledger-sync/internal/config"
	"github.com/josh-kwaku/ledger-sync/internal/logging"
	"github.com/josh-kwaku/ledger-sync/internal/service"
	"github.com/josh-kwaku/ledger-sync/internal/storage"
)

type app struct {
	cfg       *config.Config
	store     storage.Store
	close     func()
	upstream  *service.UpstreamClient
	sync      *service.SyncService
	hierarchy *service.HierarchyService
}

// execute runs one ledgerctl invocation and releases the store afterwards,
// including when the command fails.
func execute(ctx context.Context, args []string, out io.Writer) error {
	a := &app{}
	defer a.shutdown()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operate the ledger sync store from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")

	cmd.AddCommand(
		newSyncCmd(a),
		newTreeCmd(a),
		newClearCmd(a),
		newProbeCmd(a),
	)
	return cmd
}

func (a *app) shutdown() {
	if a.close != nil {
		a.close()
	}
}

func (a *app) init(cmd *cobra.Command, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.InitWriter(os.Stderr, "ledgerctl", cfg.LogLevel, "development")

	store, closeFn, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.store = store
	a.close = closeFn
	a.upstream = service.NewUpstreamClient(service.UpstreamConfig{
		BaseURL:            cfg.UpstreamBaseURL,
		Layout:             cfg.UpstreamLayout,
		RecordID:           cfg.UpstreamRecordID,
		Script:             cfg.UpstreamScript,
		Username:           cfg.UpstreamUsername,
		Password:           cfg.UpstreamPassword,
		Timeout:            cfg.UpstreamTimeout,
		InsecureSkipVerify: cfg.UpstreamInsecureSkipVerify,
	})
	a.sync = service.NewSyncService(a.upstream, store, nil, logger)
	a.hierarchy = service.NewHierarchyService(store, logger)

	slog.Debug("ledgerctl ready", "storage", cfg.StorageDriver)
	return nil
}
