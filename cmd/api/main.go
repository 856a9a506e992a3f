package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/campus-guide-ai/cmd/mainconfig"
	"github.com/wolfman30/campus-guide-ai/internal/api/router"
	"github.com/wolfman30/campus-guide-ai/internal/app/bootstrap"
	appconfig "github.com/wolfman30/campus-guide-ai/internal/config"
	"github.com/wolfman30/campus-guide-ai/internal/http/handlers"
	"github.com/wolfman30/campus-guide-ai/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting campus-guide API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	registry, metricsHandler := setupMetrics()
	assistant, err := bootstrap.BuildAssistant(ctx, cfg, awsCfg, registry, logger)
	if err != nil {
		logger.Error("failed to build assistant", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := assistant.Close(); err != nil {
			logger.Warn("failed to release clients", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHandler(cfg, assistant, metricsHandler, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.SynthesisTimeout + cfg.RetrievalTimeout*3 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}
	logger.Info("server stopped")
}

// setupMetrics builds a dedicated registry with Go/process collectors.
func setupMetrics() (*prometheus.Registry, http.Handler) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func newHandler(cfg *appconfig.Config, assistant *bootstrap.Assistant, metricsHandler http.Handler, logger *logging.Logger) http.Handler {
	healthOpts := make([]handlers.HealthOption, 0, len(assistant.HealthChecks))
	for name, check := range assistant.HealthChecks {
		healthOpts = append(healthOpts, handlers.WithHealthCheck(name, check))
	}

	return router.New(&router.Config{
		Logger:             logger,
		Chat:               handlers.NewChatHandler(assistant.Orchestrator, logger),
		Health:             handlers.NewHealthHandler(cfg.BedrockModelIDEnglish, cfg.BedrockModelIDArabic, cfg.BedrockEmbeddingModelID, healthOpts...),
		Reviews:            handlers.NewReviewsHandler(assistant.Reviews, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRateLimitRPS:   cfg.ChatRateLimitRPS,
		ChatRateLimitBurst: cfg.ChatRateLimitBurst,
		AdminToken:         cfg.AdminToken,
	})
}
