package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plaque-gateway/internal/assistant"
	"plaque-gateway/internal/backend"
	"plaque-gateway/internal/config"
	httphandler "plaque-gateway/internal/http"
	"plaque-gateway/internal/http/middleware"
	"plaque-gateway/internal/logger"
	"plaque-gateway/internal/metrics"
	"plaque-gateway/internal/registration"
	"plaque-gateway/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment, cfg.LogLevel)

	var appMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		appMetrics = metrics.New(nil)
	}

	plateClient := registration.NewClient(cfg.Provider, nil, appLogger)
	vehicleService := service.NewVehicleService(plateClient, cfg.Provider.BatchConcurrency, appMetrics, appLogger)

	backendClient := backend.NewClient(cfg.Backend, nil, appLogger)
	backendService := service.NewBackendService(backendClient, appMetrics, appLogger)

	runner, err := assistant.NewRunner(cfg.Assistant, appMetrics, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to configure assistant")
	}

	if cfg.Auth.SharedToken == "" {
		appLogger.Warn().Msg("GATEWAY_TOKEN not set, API is open")
	}

	handler := httphandler.NewHandler(vehicleService, backendService, runner, cfg, appLogger)
	authMiddleware := middleware.SharedToken(cfg.Auth.SharedToken)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, backendClient, appMetrics, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().
		Str("addr", addr).
		Str("backend_url", backendClient.BaseURL()).
		Str("plate_api", cfg.Provider.URL).
		Int("batch_concurrency", cfg.Provider.BatchConcurrency).
		Bool("metrics", cfg.MetricsEnabled).
		Msg("starting plaque gateway")
	for _, route := range router.Routes() {
		appLogger.Info().Str("method", route.Method).Str("path", route.Path).Msg("route registered")
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error().Err(err).Msg("failed to start server")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server exited")
}
