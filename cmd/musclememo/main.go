package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claude/musclememo/internal/config"
	"github.com/claude/musclememo/internal/journal"
	"github.com/claude/musclememo/internal/logging"
	"github.com/claude/musclememo/internal/reconcile"
	"github.com/claude/musclememo/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "musclememo",
		Short:         "Muscle Memo workout journal: CSV import/export and session reconciliation",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults plus MUSCLEMEMO_* env when empty)")

	root.AddCommand(newMigrateCmd(&configPath))
	root.AddCommand(newImportCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newSessionsCmd(&configPath))
	root.AddCommand(newRecordCmd(&configPath))
	root.AddCommand(newDeleteCmd(&configPath))
	root.AddCommand(newMergeCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newLogsCmd(&configPath))
	root.AddCommand(newMCPCmd(&configPath))
	return root
}

// app holds what every command needs once config is loaded.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *storage.DB
	journal *journal.Service
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("closing database", "error", err)
	}
}

// loadConfig reads config and builds the stderr logger.
func loadConfig(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr), nil
}

// openApp migrates and opens the database and builds the journal service.
func openApp(ctx context.Context, configPath string) (*app, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := storage.RunMigrations(cfg.Storage.Path); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	db, err := storage.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Debug("database opened", "path", db.Path(), "timezone", loc.String())

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		journal: journal.New(db, reconcile.New(loc), log),
	}, nil
}
