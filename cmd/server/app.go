package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/goalpost/internal/api"
	"github.com/phrazzld/goalpost/internal/config"
	"github.com/phrazzld/goalpost/internal/contact"
	"github.com/phrazzld/goalpost/internal/notify"
	"github.com/phrazzld/goalpost/internal/platform/identity"
	"github.com/phrazzld/goalpost/internal/platform/mailer"
	"github.com/phrazzld/goalpost/internal/platform/postgres"
	"github.com/phrazzld/goalpost/internal/scheduler"
	"github.com/phrazzld/goalpost/internal/store"
)

// application holds the shared dependencies of the running process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore store.TaskStore
	resolver  *contact.CachingResolver
	notifier  notify.Notifier
	engine    *scheduler.Engine
}

// newApplication builds every component from configuration. It performs no
// I/O; the database handle must already be open.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	app.taskStore = postgres.NewPostgresTaskStore(db)

	identityResolver, err := identity.NewResolver(cfg.Identity, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity resolver: %w", err)
	}
	app.resolver = contact.NewCachingResolver(identityResolver, contact.NewCache(cfg.Scheduler.CacheTTL))

	app.notifier, err = newNotifier(cfg.Mailer, log)
	if err != nil {
		return nil, err
	}

	dispatcher := scheduler.NewDispatcher(
		app.taskStore,
		app.resolver,
		app.notifier,
		scheduler.NewDispatcherConfig(cfg.Scheduler),
		log,
	)
	resetter := scheduler.NewResetter(app.taskStore, scheduler.NewResetterConfig(cfg.Scheduler), log)
	app.engine = scheduler.NewEngine(dispatcher, resetter, log)

	return app, nil
}

// newNotifier selects the dry-run or the HTTP mail notifier.
func newNotifier(cfg config.MailerConfig, log *slog.Logger) (notify.Notifier, error) {
	if cfg.DryRun {
		log.Warn("mailer dry run enabled, digests will only be logged")
		return mailer.NewLogNotifier(log), nil
	}
	n, err := mailer.NewHTTPNotifier(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail notifier: %w", err)
	}
	return n, nil
}

// router builds the ops HTTP handler.
func (app *application) router() http.Handler {
	return api.NewRouter(api.NewOpsHandler(app.engine), app.config.Server.OpsToken, app.logger)
}

// run starts the engine and serves HTTP until ctx is cancelled, then shuts
// the HTTP server down before stopping the engine.
func (app *application) run(ctx context.Context) error {
	if err := app.engine.Start(); err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer app.engine.Stop()

	return app.startHTTPServer(ctx, app.router())
}
