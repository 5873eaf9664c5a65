// Package mlclient calls a remotely served demand model over HTTP.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/observability"
	"golang.org/x/time/rate"
)

// Client implements domain.Model against a remote prediction endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a model client. rps and burst bound the request rate
// sent to the model server.
func NewClient(endpoint string, timeout time.Duration, rps float64, burst int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// Predict sends the feature vector to the model server and returns its prediction.
func (c *Client) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	start := time.Now()
	value, err := c.doRequest(ctx, features)
	c.metrics.ModelAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.ModelRequests.WithLabelValues("error").Inc()
		c.logger.Warn("model request failed", "endpoint", c.endpoint, "error", err)
		return 0, err
	}
	c.metrics.ModelRequests.WithLabelValues("success").Inc()
	return value, nil
}

func (c *Client) doRequest(ctx context.Context, features domain.FeatureVector) (float64, error) {
	body, err := json.Marshal(request{Columns: domain.FeatureNames, Features: features.Named()})
	if err != nil {
		return 0, fmt.Errorf("marshal model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("model server error: status %d: %s", resp.StatusCode, msg)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("decode response: missing prediction")
	}
	if math.IsNaN(*out.Prediction) || math.IsInf(*out.Prediction, 0) {
		return 0, fmt.Errorf("model returned non-finite prediction %v", *out.Prediction)
	}
	return *out.Prediction, nil
}

// Model server wire types.

type request struct {
	Columns  []string           `json:"columns"`
	Features map[string]float64 `json:"features"`
}

type response struct {
	Prediction *float64 `json:"prediction"`
}

var _ domain.Model = (*Client)(nil)
