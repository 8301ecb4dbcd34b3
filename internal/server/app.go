// Package server initializes and runs the CoinKeeper API server: it opens
// the database, applies migrations, wires services into the HTTP layer, and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ysemenov/coinkeeper/internal/logging"
	"github.com/ysemenov/coinkeeper/internal/server/config"
	"github.com/ysemenov/coinkeeper/internal/server/httpapi"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/repomanager"
	"github.com/ysemenov/coinkeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repomanager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	userService := services.NewUserService(db, rm, cfg)
	recordService := services.NewRecordService(db, rm)

	handlers := httpapi.NewHandlers(userService, recordService, logger)
	router := httpapi.NewRouter(handlers, []byte(cfg.SecretKey), logger)
	srv := httpapi.NewServer(cfg.EndpointAddr, router, logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or an
// OS signal arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.db.Close(); err != nil {
		return fmt.Errorf("db close error: %w", err)
	}
	return nil
}
