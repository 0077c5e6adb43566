package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		option string
		want   slog.Leveler
		ok     bool
	}{
		{"", nil, true},
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", nil, false},
	}
	for _, tt := range tests {
		got, ok := level(tt.option)
		assert.Equal(t, tt.ok, ok, tt.option)
		assert.Equal(t, tt.want, got, tt.option)
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	options := &Options{LogLevel: "warn", LogFile: path, LogFormat: "json"}

	logger := New(options)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), `"msg":"shown","key":"value"`)
}

func TestNewFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	options := &Options{LogLevel: "loud", LogFile: path, LogFormat: "xml"}

	logger := New(options)
	logger.Info("after fallback")

	assert.Empty(t, options.LogLevel)
	assert.Equal(t, "text", options.LogFormat)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "could not parse logger format")
	assert.Contains(t, string(b), "could not parse logger level")
	assert.Contains(t, string(b), `msg="after fallback"`)
}

func TestNewUnwritableFile(t *testing.T) {
	options := &Options{LogFile: filepath.Join(t.TempDir(), "missing", "service.log")}

	logger := New(options)
	require.NotNil(t, logger)
	assert.Empty(t, options.LogFile)
}

func TestNewDevNull(t *testing.T) {
	logger := New(&Options{LogFile: os.DevNull})
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestOutputStdout(t *testing.T) {
	for _, option := range []string{"", "-"} {
		out, err := output(option)
		require.NoError(t, err)
		assert.Same(t, os.Stdout, out)
	}
}
