// Package server wires the configured store, asset storage, mailer and
// services into the HTTP server and runs it until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/logging"
	"github.com/dmitrijs2005/dailyroutine/internal/server/assets"
	"github.com/dmitrijs2005/dailyroutine/internal/server/config"
	"github.com/dmitrijs2005/dailyroutine/internal/server/httpserver"
	"github.com/dmitrijs2005/dailyroutine/internal/server/mail"
	"github.com/dmitrijs2005/dailyroutine/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyroutine/internal/server/services"
)

const drainTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	feed   *services.ActivityService
	server *httpserver.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogLevel, c.LogFormat, os.Stdout)

	store, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	files, err := newAssetStore(ctx, c)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("asset store init error: %w", err), store.Close(ctx))
	}

	mailer, err := mail.New(c, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("mail init error: %w", err), store.Close(ctx))
	}

	feed := services.NewActivityService(store, logger)
	svc := httpserver.Services{
		Users:      services.NewUserService(store, c, assets.NewAvatars(files), mailer, feed, logger),
		Tags:       services.NewTagService(store, logger),
		Tasks:      services.NewTaskService(store, logger),
		Events:     services.NewEventService(store, feed, logger),
		Activities: feed,
		Invites:    services.NewInviteService(store, c, mailer, logger),
	}

	return &App{
		config: c,
		logger: logger,
		store:  store,
		feed:   feed,
		server: httpserver.NewHTTPServer(c, logger, svc),
	}, nil
}

// newAssetStore keeps avatars in process memory when the document store is
// in memory too, and in the S3 bucket otherwise.
func newAssetStore(ctx context.Context, c *config.Config) (assets.Store, error) {
	if c.StoreDriver == config.DriverMemory {
		return assets.NewMemoryStore(c.S3PublicBaseURL), nil
	}
	s, err := assets.NewS3Store(ctx, c)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate prepares the store schema and releases the connection.
func (app *App) Migrate(ctx context.Context) error {
	err := app.store.RunMigrations(ctx)
	return errors.Join(err, app.store.Close(ctx))
}

// Run migrates the store, serves HTTP until ctx is cancelled or the process
// receives SIGINT, SIGTERM or SIGQUIT, then drains pending activity writes
// and closes the store.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver)

	var runErr error
	if err := app.store.RunMigrations(ctx); err != nil {
		runErr = fmt.Errorf("migrations: %w", err)
	} else if err := app.server.Run(ctx); err != nil {
		runErr = fmt.Errorf("http server: %w", err)
	}
	if runErr != nil {
		app.logger.Error(ctx, runErr.Error())
	}

	return errors.Join(runErr, app.shutdown())
}

func (app *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	var errs []error
	if err := app.feed.Wait(ctx); err != nil {
		errs = append(errs, fmt.Errorf("activity drain: %w", err))
	}
	if err := app.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(errs...)
}
