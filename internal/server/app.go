// Package server wires configuration, logging, storage, services and the
// HTTP transport into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/github"
	"github.com/dmitrijs2005/devconnector/internal/server/httpapi"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
)

// Runner is a long-running component stopped by cancelling its context.
type Runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server Runner
	// flush is called once on exit to drain buffered logs.
	flush func()
}

// NewLogger builds the logger named by cfg.LogFormat.
func NewLogger(cfg *config.Config) (logging.Logger, func(), error) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	switch cfg.LogFormat {
	case "", "slog":
		return logging.NewJSONSlogLogger(os.Stdout, level), func() {}, nil
	case "zap":
		z, err := logging.NewProductionZapLogger(cfg.Debug)
		if err != nil {
			return nil, nil, fmt.Errorf("zap init error: %w", err)
		}
		return z, func() { _ = z.Sync() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, flush, err := NewLogger(c)
	if err != nil {
		return nil, err
	}

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	gh := github.NewClient(github.Options{
		BaseURL:      c.GitHubAPIBaseURL,
		Timeout:      c.GitHubTimeout,
		Token:        c.GitHubToken,
		ClientID:     c.GitHubClientID,
		ClientSecret: c.GitHubClientSecret,
	})

	srv := httpapi.NewHTTPServer(c, logger,
		services.NewUserService(db, rm, c),
		services.NewProfileService(db, rm, gh),
		services.NewPostService(db, rm),
	)

	return &App{config: c, logger: logger, db: db, server: srv, flush: flush}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database pool.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "db close error", "error", cerr.Error())
		}
	}

	app.logger.Info(ctx, "App stopped")
	if app.flush != nil {
		app.flush()
	}
	return err
}
