// Package server initializes and runs the timeline server. It opens the
// database, applies migrations, wires the services, handles graceful
// shutdown, and starts the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/timeline/internal/classifier"
	"github.com/dmitrijs2005/timeline/internal/logging"
	"github.com/dmitrijs2005/timeline/internal/server/config"
	"github.com/dmitrijs2005/timeline/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timeline/internal/server/services"

	gs "github.com/dmitrijs2005/timeline/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewSQLRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, rm: rm}, nil
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

// services wires the application services. The mood queues live as long
// as ctx.
func (app *App) services(ctx context.Context) gs.Services {
	months := services.NewMonthIndexAggregator(app.db, app.rm)
	archive := services.NewArchiveService(app.db, app.rm)
	entries := services.NewEntryService(app.db, app.rm, months, archive, app.logger)

	feed := services.NewPollingFeed(entries, app.config.FeedInterval, app.logger)
	mood := classifier.NewHTTPClient(app.config.ClassifierURL, app.config.ClassifierAPIKey, app.config.ClassifierTimeout)
	opts := services.QueueOptions{
		BatchSize: app.config.QueueBatchSize,
		Delay:     app.config.QueueDelay,
		Backoff:   app.config.QueueBackoff,
	}

	return gs.Services{
		Entries: entries,
		Batches: services.NewBatchService(app.db, app.rm, entries, app.logger),
		Bulk:    services.NewBulkDeleteService(app.db, app.rm, archive, app.logger),
		Archive: archive,
		Images:  services.NewImageService(app.config),
		Queues:  services.NewQueueManager(ctx, entries, mood, feed, opts, app.logger),
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, svc gs.Services) {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, svc, app.config.SecretKey)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or the server fails, then
// stops the mood queues and closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	svc := app.services(ctx)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, svc)
	}()

	wg.Wait()

	svc.Queues.StopAll()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
