package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
	"github.com/couchcryptid/bike-demand-service/internal/predict"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBytes = 64 << 10

// Predictor serves one prediction per form submission.
type Predictor interface {
	sharedobs.ReadinessChecker
	Predict(ctx context.Context, in domain.RawInput) (domain.Prediction, error)
}

// Server exposes the prediction form API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /options, /predict, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, predictor Predictor, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		logger:    logger,
	}

	mux.HandleFunc("GET /options", s.handleOptions)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(predictor))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type optionsResponse struct {
	Options  domain.Options  `json:"options"`
	Defaults domain.RawInput `json:"defaults"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	defaults := domain.DefaultInput()
	defaults.Date = time.Time{}
	sharedobs.WriteJSON(w, http.StatusOK, optionsResponse{
		Options:  domain.CategoryOptions(),
		Defaults: defaults,
	})
}

// handlePredict decodes a form submission over the form defaults, so omitted
// fields take their slider or dropdown default.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	in := domain.DefaultInput()
	in.Date = time.Time{}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	p, err := s.predictor.Predict(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("prediction failed", "status", status, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrLabelNotFound):
		return http.StatusBadRequest
	case errors.Is(err, predict.ErrModelNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, predict.ErrModelFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
