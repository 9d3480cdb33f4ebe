// Package server wires the revision service together: it opens the
// database, applies migrations, connects the optional revision cache,
// builds the services and runs the gRPC endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/revisions/internal/logging"
	"github.com/dmitrijs2005/revisions/internal/server/cache"
	"github.com/dmitrijs2005/revisions/internal/server/config"
	"github.com/dmitrijs2005/revisions/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/revisions/internal/server/services"
	"github.com/dmitrijs2005/revisions/internal/timex"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/revisions/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	redis           *redis.Client
	revisionService *services.RevisionService
	itemService     *services.ItemService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var revisionCache *cache.Cache
	// a zero ttl would make Redis keep listings forever
	if c.RedisAddr != "" && c.RevisionCacheTTL > 0 {
		client, err := cache.NewClient(ctx, c.RedisAddr)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
		revisionCache = cache.New(client, c.RevisionCacheTTL)
		logger.Info(ctx, "Revision cache enabled", "address", c.RedisAddr, "ttl", c.RevisionCacheTTL.String())
	}

	rm := repomanager.NewPostgresRepositoryManager(revisionCache, logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	clock := timex.NewSystemClock()
	app.revisionService = services.NewRevisionService(rm.Items(db), rm.Revisions(db), clock, logger)
	app.itemService = services.NewItemService(db, rm, clock, logger)

	return app, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.revisionService, app.itemService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.close(); err != nil {
		app.logger.Error(ctx, "error closing resources", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
