package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/config"
	"github.com/wrenhall/tome-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case level", logLevel: "DEBUG"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		stored := slog.Default().With("component", "test")
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		assert.NotNil(t, logger.FromContext(context.Background()))
	})
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.Default().With("component", "fallback")

	t.Run("prefers context logger", func(t *testing.T) {
		stored := slog.Default().With("component", "stored")
		ctx := logger.WithLogger(context.Background(), stored)

		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("uses fallback when context is empty", func(t *testing.T) {
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("uses process default when fallback is nil", func(t *testing.T) {
		assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
	})
}
