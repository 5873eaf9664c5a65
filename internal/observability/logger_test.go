package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/bike-demand-service/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level   string
		format  string
		debugOn bool
		infoOn  bool
		warnOn  bool
	}{
		{level: "debug", format: "json", debugOn: true, infoOn: true, warnOn: true},
		{level: "info", format: "text", debugOn: false, infoOn: true, warnOn: true},
		{level: "warn", format: "json", debugOn: false, infoOn: false, warnOn: true},
		{level: "verbose", format: "json", debugOn: false, infoOn: true, warnOn: true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})

			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, logger.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnOn, logger.Enabled(ctx, slog.LevelWarn))
			assert.Same(t, logger, slog.Default())
		})
	}
}
