package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the predictor.
type Metrics struct {
	PredictionsTotal   prometheus.Counter
	PredictionErrors   *prometheus.CounterVec // labels: reason={invalid_input,lookup,model}
	PredictionDuration prometheus.Histogram
	PredictedCount     prometheus.Histogram
	ModelLoaded        prometheus.Gauge

	// Remote model metrics.
	ModelRequests    *prometheus.CounterVec // labels: outcome={success,error}
	ModelCache       *prometheus.CounterVec // labels: result={hit,miss}
	ModelAPIDuration prometheus.Histogram

	// Prediction event publishing.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all predictor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionErrors,
		m.PredictionDuration,
		m.PredictedCount,
		m.ModelLoaded,
		m.ModelRequests,
		m.ModelCache,
		m.ModelAPIDuration,
		m.EventsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "predictions_total",
			Help:      "Total predictions served.",
		}),
		PredictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "prediction_errors_total",
			Help:      "Failed prediction requests by reason.",
		}, []string{"reason"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bike_demand",
			Name:      "prediction_duration_seconds",
			Help:      "Duration of derive + model predict for one request.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		PredictedCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bike_demand",
			Name:      "predicted_count",
			Help:      "Distribution of predicted hourly rentals.",
			Buckets:   []float64{10, 50, 100, 200, 300, 500, 750, 1000},
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bike_demand",
			Name:      "model_loaded",
			Help:      "1 when a model is available to serve predictions, 0 otherwise.",
		}),
		ModelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "model_requests_total",
			Help:      "Remote model requests by outcome.",
		}, []string{"outcome"}),
		ModelCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "model_cache_total",
			Help:      "Remote model cache lookups by result.",
		}, []string{"result"}),
		ModelAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bike_demand",
			Name:      "model_api_duration_seconds",
			Help:      "Remote model request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "events_published_total",
			Help:      "Prediction events written to the predictions topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bike_demand",
			Name:      "publish_errors_total",
			Help:      "Prediction events that failed to publish.",
		}),
	}
}
