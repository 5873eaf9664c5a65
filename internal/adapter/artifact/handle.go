package artifact

import (
	"context"
	"log/slog"
	"sync"

	"github.com/couchcryptid/bike-demand-service/internal/domain"
)

// Handle loads the artifact at a fixed path at most once and shares the result
// for the life of the process. A failed load is memoized as well: the artifact
// is read-only, so retrying cannot succeed without a restart.
type Handle struct {
	path   string
	logger *slog.Logger

	once  sync.Once
	model *Model
	err   error
}

// NewHandle creates a handle for the artifact at path. Nothing is read until
// the first Load or Predict.
func NewHandle(path string, logger *slog.Logger) *Handle {
	return &Handle{path: path, logger: logger}
}

// Load returns the loaded model, reading the artifact on first use.
func (h *Handle) Load() (*Model, error) {
	h.once.Do(func() {
		h.model, h.err = Load(h.path)
		if h.err != nil {
			h.logger.Error("model artifact load failed", "path", h.path, "error", h.err)
			return
		}
		h.logger.Info("model artifact loaded",
			"path", h.path,
			"name", h.model.Name(),
			"kind", h.model.Kind(),
		)
	})
	return h.model, h.err
}

// Predict implements domain.Model. No prediction is attempted without a loaded model.
func (h *Handle) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	m, err := h.Load()
	if err != nil {
		return 0, err
	}
	return m.Predict(ctx, features)
}

// CheckReadiness returns the load error, if any.
func (h *Handle) CheckReadiness(_ context.Context) error {
	_, err := h.Load()
	return err
}

var _ domain.Model = (*Handle)(nil)
