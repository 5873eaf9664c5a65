// Package predict orchestrates one demand prediction: validate the raw form
// input, derive the feature vector, ask the model, and publish the result.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/observability"
)

var (
	// ErrModelNotReady means the model is not wired or failed to load.
	ErrModelNotReady = errors.New("model not ready")

	// ErrModelFailed wraps an error returned by the model itself.
	ErrModelFailed = errors.New("model prediction failed")
)

// Publisher receives prediction events after a successful prediction.
type Publisher interface {
	Publish(ctx context.Context, event domain.PredictionEvent) error
}

type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Service serves predictions. It holds no mutable state of its own and is
// safe for concurrent use.
type Service struct {
	model     domain.Model
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. publisher may be nil to disable event publication.
func New(model domain.Model, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		model:     model,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a model is wired and, if the model reports
// readiness, loaded.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.model == nil {
		return fmt.Errorf("%w: no model configured", ErrModelNotReady)
	}
	if rc, ok := s.model.(readinessChecker); ok {
		if err := rc.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrModelNotReady, err)
		}
	}
	return nil
}

// Predict runs the full prediction for one form submission. The call is
// all-or-nothing: on error no prediction is returned and nothing is published.
func (s *Service) Predict(ctx context.Context, in domain.RawInput) (domain.Prediction, error) {
	start := time.Now()
	in = in.WithCurrentDate()

	if err := in.Validate(); err != nil {
		s.metrics.PredictionErrors.WithLabelValues("invalid_input").Inc()
		return domain.Prediction{}, err
	}

	features, err := domain.Derive(in)
	if err != nil {
		s.metrics.PredictionErrors.WithLabelValues("lookup").Inc()
		s.logger.Error("feature derivation failed", "error", err)
		return domain.Prediction{}, err
	}

	if err := s.CheckReadiness(ctx); err != nil {
		s.metrics.PredictionErrors.WithLabelValues("model").Inc()
		return domain.Prediction{}, err
	}

	value, err := s.model.Predict(ctx, features)
	if err != nil {
		s.metrics.PredictionErrors.WithLabelValues("model").Inc()
		s.logger.Error("model prediction failed", "error", err, "hour", features.Hour, "weekday", in.Weekday)
		return domain.Prediction{}, fmt.Errorf("%w: %w", ErrModelFailed, err)
	}

	p := domain.NewPrediction(value, in.Weekday, features)

	s.metrics.PredictionsTotal.Inc()
	s.metrics.PredictedCount.Observe(float64(p.Count))
	s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())

	s.logger.Debug("prediction served",
		"weekday", in.Weekday,
		"hour", features.Hour,
		"value", value,
		"count", p.Count,
	)

	s.publish(ctx, in, p)
	return p, nil
}

// publish is best-effort. A failed publish is logged and counted but never
// fails the prediction.
func (s *Service) publish(ctx context.Context, in domain.RawInput, p domain.Prediction) {
	if s.publisher == nil {
		return
	}
	event := domain.NewPredictionEvent(in, p)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish prediction event failed", "id", event.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}
