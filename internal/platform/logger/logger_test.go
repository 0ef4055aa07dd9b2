package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasktrack/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"mixed case", "DEBUG"},
		{"invalid level falls back to info", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			assert.NotNil(t, log)
			assert.Same(t, log, slog.Default(), "setup installs the default logger")
		})
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, nil))
}

func TestFromContextFallbacks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.Same(t, slog.Default(), FromContext(ctx))

	def := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, def, FromContextOrDefault(ctx, def))
	assert.Same(t, slog.Default(), FromContextOrDefault(ctx, nil))
}
