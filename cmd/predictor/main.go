package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/bike-demand-service/internal/adapter/artifact"
	httpadapter "github.com/couchcryptid/bike-demand-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bike-demand-service/internal/adapter/kafka"
	"github.com/couchcryptid/bike-demand-service/internal/adapter/mlclient"
	"github.com/couchcryptid/bike-demand-service/internal/config"
	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/observability"
	"github.com/couchcryptid/bike-demand-service/internal/predict"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	model, err := newModel(cfg, metrics, logger)
	if err != nil {
		logger.Error("model unavailable, refusing to start", "error", err)
		os.Exit(1)
	}
	metrics.ModelLoaded.Set(1)

	// Prediction events are optional (KAFKA_ENABLED).
	var publisher predict.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("prediction events enabled", "topic", cfg.KafkaPredictionTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("prediction events disabled")
	}

	svc := predict.New(model, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newModel selects the remote model when MODEL_URL is set, otherwise loads the
// local artifact eagerly so a missing or invalid artifact halts startup.
func newModel(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Model, error) {
	if cfg.ModelURL != "" {
		client := mlclient.NewClient(cfg.ModelURL, cfg.ModelTimeout, cfg.ModelRateLimit, cfg.ModelRateBurst, metrics, logger)
		logger.Info("remote model enabled",
			"url", cfg.ModelURL,
			"timeout", cfg.ModelTimeout,
			"rate_limit", cfg.ModelRateLimit,
			"cache_size", cfg.ModelCacheSize,
		)
		return mlclient.NewCachedModel(client, cfg.ModelCacheSize, metrics), nil
	}

	handle := artifact.NewHandle(cfg.ModelPath, logger)
	if _, err := handle.Load(); err != nil {
		return nil, err
	}
	return handle, nil
}
