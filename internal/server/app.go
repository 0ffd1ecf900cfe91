// Package server wires the linkfolio backend together: storage, identity,
// the directory, the HTTP and gRPC surfaces and background jobs, and runs
// them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/linkfolio/internal/logging"
	"github.com/dmitrijs2005/linkfolio/internal/server/auth"
	"github.com/dmitrijs2005/linkfolio/internal/server/config"
	"github.com/dmitrijs2005/linkfolio/internal/server/directory"
	"github.com/dmitrijs2005/linkfolio/internal/server/httpapi"
	"github.com/dmitrijs2005/linkfolio/internal/server/metrics"
	"github.com/dmitrijs2005/linkfolio/internal/server/ratelimit"
	"github.com/dmitrijs2005/linkfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkfolio/internal/server/services"
	"github.com/dmitrijs2005/linkfolio/internal/server/storage"

	gs "github.com/dmitrijs2005/linkfolio/internal/server/grpc"
)

const (
	rateLimitWindow = time.Minute
	janitorInterval = time.Hour
	shutdownTimeout = 5 * time.Second
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	http    *http.Server
	grpc    *gs.GRPCServer
	janitor *services.TokenJanitor
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.closers = append(app.closers, db.Close)

	limiter := app.newLimiter(ctx)
	mtr := metrics.New()

	identity := services.NewIdentityService(db, m, c)
	resolver := auth.NewResolver(identity, logger)
	avatars := storage.NewS3Store(c)

	authService := services.NewAuthService(db, m, identity, logger)
	profileService := services.NewProfileService(db, m, avatars, logger)
	linkService := services.NewLinkService(db, m, logger, c.SerializeLinkWrites)
	paginator := directory.NewPaginator(m.Profiles(db), logger, c.DedupSearchTotal)

	api := httpapi.NewServer(httpapi.Deps{
		Auth:           authService,
		Profiles:       profileService,
		Links:          linkService,
		Directory:      paginator,
		Resolver:       resolver,
		Limiter:        limiter,
		Metrics:        mtr,
		Logger:         logger,
		CORSOrigins:    c.CORSOrigins,
		RequestTimeout: c.RequestTimeout,
		Ping:           db.PingContext,
	})

	app.http = &http.Server{
		Addr:              c.EndpointAddrHTTP,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, paginator, profileService, linkService, resolver, mtr)
	app.janitor = services.NewTokenJanitor(db, m, logger, janitorInterval)

	return app, nil
}

// newLimiter prefers the shared redis window and falls back to an in-process
// limiter when redis is not configured or unreachable. A non-positive limit
// disables rate limiting.
func (app *App) newLimiter(ctx context.Context) ratelimit.Limiter {
	c := app.config
	if c.RateLimitPerMinute <= 0 {
		return nil
	}

	if c.RedisDSN != "" {
		rdb, err := ratelimit.NewRedisClient(ctx, c.RedisDSN)
		if err == nil {
			app.closers = append(app.closers, rdb.Close)
			return ratelimit.NewRedisLimiter(rdb, c.RateLimitPerMinute, rateLimitWindow)
		}
		app.logger.Warn(ctx, "redis unavailable, using in-memory rate limiter", "error", err)
	}

	return ratelimit.NewMemoryLimiter(c.RateLimitPerMinute, rateLimitWindow)
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
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := app.http.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.http.Addr)

	if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx)
	}()

	wg.Wait()

	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(ctx, "close error", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
