// Package app initializes and runs the main application service.
// It configures logging, storage, and routing, and handles graceful
// shutdown.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/biodraft/internal/config"
	"github.com/patric-chuzhbe/biodraft/internal/db/memstorage"
	"github.com/patric-chuzhbe/biodraft/internal/generator"
	"github.com/patric-chuzhbe/biodraft/internal/ipchecker"
	"github.com/patric-chuzhbe/biodraft/internal/logger"
	"github.com/patric-chuzhbe/biodraft/internal/metrics"
	"github.com/patric-chuzhbe/biodraft/internal/router"
	"github.com/patric-chuzhbe/biodraft/internal/service"
)

// App encapsulates the configuration, HTTP handler, and storage backend
// needed to run the biography assistant service.
type App struct {
	cfg         *config.Config
	db          *memstorage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - setting up the in-memory storage
// - setting up the router and middleware
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err = logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	app.db, err = memstorage.New()
	if err != nil {
		return nil, err
	}

	checker, err := ipchecker.New(app.cfg.TrustedSubnet)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		service.New(app.db),
		generator.NewCanned(),
		checker,
		metrics.New(),
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal, exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
