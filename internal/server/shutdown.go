package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"invensmart/internal/config"
)

const hookTimeout = 10 * time.Second

// GracefulServer runs an http.Server and drains it on SIGINT/SIGTERM,
// running registered shutdown hooks concurrently with the HTTP drain.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	cfg    *config.Config

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, cfg *config.Config) *GracefulServer {
	return &GracefulServer{server: server, logger: logger, cfg: cfg}
}

func (gs *GracefulServer) RegisterShutdownHook(fn func(ctx context.Context) error) {
	gs.mu.Lock()
	gs.hooks = append(gs.hooks, fn)
	gs.mu.Unlock()
}

// ListenAndServe blocks until the server fails or a termination signal
// arrives, then drains within the configured shutdown timeout.
func (gs *GracefulServer) ListenAndServe() error {
	serveErr := make(chan error, 1)
	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.cfg.Server.ReadTimeout,
			"write_timeout", gs.cfg.Server.WriteTimeout,
		)
		serveErr <- gs.server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-sigs:
		gs.logger.Info("shutdown signal received", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), gs.cfg.Server.ShutdownTimeout)
		defer cancel()
		return gs.drain(ctx)
	}
}

func (gs *GracefulServer) drain(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.cfg.Server.ShutdownTimeout)

	gs.mu.Lock()
	hooks := append([]func(ctx context.Context) error(nil), gs.hooks...)
	gs.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		gs.logger.Info("stopping HTTP server")
		if err := gs.server.Shutdown(ctx); err != nil {
			gs.logger.Error("HTTP server shutdown failed", "error", err)
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
		return nil
	})

	for i, hook := range hooks {
		g.Go(func() error {
			hookCtx, cancel := context.WithTimeout(gctx, hookTimeout)
			defer cancel()
			if err := hook(hookCtx); err != nil {
				gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
				return fmt.Errorf("shutdown hook %d failed: %w", i, err)
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		gs.logger.Info("graceful shutdown completed")
		return err
	case <-ctx.Done():
		gs.logger.Warn("shutdown timeout exceeded, forcing exit")
		return ctx.Err()
	}
}
