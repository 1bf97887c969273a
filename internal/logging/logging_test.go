package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "stockroom.log")
	logger, cleanup, err := New("info", "json", path)
	require.NoError(t, err)

	logger.Info("item created", "id", 3)
	logger.Debug("dropped below level")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"item created"`)
	assert.NotContains(t, string(data), "dropped below level")
}

func TestNewToText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTo(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("item operation failed", "op", "refresh")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "op=refresh")
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New("info", "text", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
