// Package main runs the goalpost reminder engine: it sends morning and
// evening task digests to task owners and reopens completed recurring tasks,
// and serves a small ops HTTP surface for health, status and manual triggers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/phrazzld/goalpost/internal/platform/postgres"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply the embedded schema migrations before starting")
	flag.Parse()

	if err := run(*migrate); err != nil {
		slog.Error("goalpost exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application and blocks until SIGINT or SIGTERM.
func run(migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"timezone", cfg.Scheduler.Timezone,
		"morning_time", cfg.Scheduler.MorningTime,
		"evening_time", cfg.Scheduler.EveningTime,
		"dry_run", cfg.Mailer.DryRun,
		"ops_enabled", cfg.Server.OpsToken != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if migrate || cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.run(ctx)
}
