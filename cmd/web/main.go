package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"invensmart/internal/analytics"
	"invensmart/internal/config"
	"invensmart/internal/dataset"
	"invensmart/internal/middleware"
	"invensmart/internal/observability"
	"invensmart/internal/server"
	"invensmart/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	loadTimeout   = 30 * time.Second
)

func dashboardHandler(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Dashboard(svc.Categories()).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	store := dataset.NewStore(cfg.Dataset.CacheDir, logger)
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	// Dataset load failure halts startup: everything downstream is a
	// pure function of these records.
	if err := store.Load(ctx, cfg.Dataset.CSVFile); err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	svc := analytics.NewService(store, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(svc),
	}

	srv := server.NewServer(svc, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
