package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/goalpost/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			level, ok := ParseLevel(tc.name)
			assert.Equal(t, tc.level, level)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	t.Run("respects configured level", func(t *testing.T) {
		var out, warn bytes.Buffer
		l := setup(config.ServerConfig{LogLevel: "warn"}, &out, &warn)
		require.NotNil(t, l)

		l.Info("hidden")
		l.Warn("shown", "key", "value")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), `"msg":"shown"`)
		assert.Contains(t, out.String(), `"key":"value"`)
		assert.Empty(t, warn.String())
		assert.Same(t, l, slog.Default())
	})

	t.Run("invalid level falls back to info with warning", func(t *testing.T) {
		var out, warn bytes.Buffer
		l := setup(config.ServerConfig{LogLevel: "loud"}, &out, &warn)

		l.Debug("hidden")
		l.Info("shown")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "shown")
		assert.True(t, strings.Contains(warn.String(), "invalid log level configured"))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("falls back to default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), FromContext(context.Background()))
	})

	t.Run("returns stored logger with correlation id", func(t *testing.T) {
		l, buf := GetTestLogger(t)
		ctx := WithLogger(context.Background(), l)
		ctx = WithCorrelationID(ctx, "tick-42")

		FromContext(ctx).Info("hello")

		entries, err := buf.GetLogEntries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "tick-42", entries[0]["correlation_id"])
		assert.Equal(t, "tick-42", CorrelationID(ctx))
	})

	t.Run("stored logger without correlation id", func(t *testing.T) {
		l, _ := GetTestLogger(t)
		ctx := WithLogger(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})
}

func TestCountLogEntries(t *testing.T) {
	l, buf := GetTestLogger(t)
	l.Warn("owner skipped")
	l.Warn("owner skipped")
	l.Info("owner skipped")

	assert.Equal(t, 2, CountLogEntries(t, buf, slog.LevelWarn, "owner skipped"))
	assert.Equal(t, 1, CountLogEntries(t, buf, slog.LevelInfo, "owner skipped"))
	AssertLogContains(t, buf, "owner skipped")
}
