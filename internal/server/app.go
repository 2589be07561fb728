// Package server wires configuration, storage, token keys and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophident/internal/logging"
	"github.com/dmitrijs2005/gophident/internal/server/auth"
	"github.com/dmitrijs2005/gophident/internal/server/config"
	"github.com/dmitrijs2005/gophident/internal/server/httpapi"
	"github.com/dmitrijs2005/gophident/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophident/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp loads the signing keys, opens the database, applies migrations
// and assembles the HTTP handler. Key problems are reported before any
// database work is attempted.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	keys, err := auth.LoadKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load jwt keys: %w", err)
	}

	tokens, err := auth.NewTokenService(keys, cfg.JWT.Algorithm, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	hasher := auth.NewPasswordHasher(
		auth.WithAlgorithm(cfg.Password.Algorithm),
		auth.WithBcryptCost(cfg.Password.BcryptCost),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "gophident"),
	)

	srv := httpapi.NewServer(
		services.NewAuthService(db, rm, hasher, tokens, logger),
		services.NewCurrentUserResolver(db, rm, tokens),
		services.NewAccountService(db, rm, hasher, logger),
		httpapi.NewMetrics(registry),
		cfg.CORS,
		logger,
	)

	return &App{config: cfg, logger: logger, db: db, handler: srv.Handler()}, nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(repomanager.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns())
	db.SetMaxIdleConns(cfg.MaxIdleConns())
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddrHTTP, err)
	}

	err = app.serve(ctx, ln)
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil {
			app.logger.Error(ctx, "close db", "error", cerr)
		}
	}
	return err
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	app.logger.Info(ctx, "Starting app...", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown", "error", err)
	}
	wg.Wait()

	app.logger.Info(ctx, "Stopped")
	return runErr
}
