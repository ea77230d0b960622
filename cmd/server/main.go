package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/dlavarnway/wicket/internal"
	"github.com/dlavarnway/wicket/internal/handler"
	"github.com/dlavarnway/wicket/internal/metrics"
	"github.com/dlavarnway/wicket/internal/middleware"
	"github.com/dlavarnway/wicket/internal/options"
	"github.com/dlavarnway/wicket/internal/service"
	"github.com/dlavarnway/wicket/internal/session"
)

// version is overridable at build time with -ldflags "-X main.version=...".
var version = "dev"

func run() error {
	started := time.Now()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Load runtime options and the user directory
	optsService := options.NewService(filepath.Join(cfg.DataDir, "options.json"), logger)
	if err := optsService.Load(); err != nil {
		return fmt.Errorf("options load failed: %w", err)
	}

	userService := service.NewUserService(filepath.Join(cfg.DataDir, "users.json"), logger)
	if err := userService.Load(); err != nil {
		return fmt.Errorf("users load failed: %w", err)
	}

	// Session store and background sweeper
	store := session.NewStore()
	metrics.RegisterSessionGauge(store.Count)

	sweeper := session.NewSweeper(store, func() (time.Duration, error) {
		return optsService.SessionTimeout(), nil
	}, cfg.SweepInterval, logger)
	sweeper.Start()
	defer sweeper.Stop()

	// Middleware
	isSecure := cfg.IsProduction()
	guard := middleware.NewAuthGuard(store, optsService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	corsMw := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	// Handlers
	authHandler := handler.NewAuthHandler(userService, store, logger, isSecure)
	apiHandler := handler.NewAPIHandler(optsService, started, version, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	authHandler.RegisterRoutes(mux)
	apiHandler.RegisterRoutes(mux, guard.RequireSession)

	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Static SPA bundle with index.html fallback
	mux.Handle("/", handler.SPAHandler(cfg.ClientDir))

	// Outer middleware: security headers, CORS, request logging, metrics
	stack := middleware.Stack(
		securityMw.Handler,
		corsMw.Handler,
		loggingMw.Handler,
		metrics.Middleware,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: stack(mux),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server started",
			"address", server.Addr,
			"env", cfg.Env,
			"session_timeout_minutes", optsService.Get().SessionTimeoutMinutes,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	sweeper.Stop()

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
