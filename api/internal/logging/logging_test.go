package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":    "DEBUG",
		"INFO":     "INFO",
		"":         "INFO",
		"warning":  "WARN",
		"error":    "ERROR",
		"critical": "CRITICAL",
	}
	for in, want := range tests {
		lvl, err := ParseLevel(in)
		require.NoError(t, err, in)
		var buf bytes.Buffer
		New(&buf, lvl).Log(context.Background(), lvl, "m")
		assert.Contains(t, buf.String(), "level="+want, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelCritical)

	logger.Error("dropped")
	logger.Log(context.Background(), LevelCritical, "kept", "missing", "TELEGRAM_TOKEN")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.Contains(t, buf.String(), "missing=TELEGRAM_TOKEN")
}

func TestSetup_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program.log")

	logger, closer, err := Setup(path, "debug")
	require.NoError(t, err)
	logger.Debug("poll started", "cursor", 1000)
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "poll started")
	assert.Contains(t, string(b), "cursor=1000")
}

func TestSetup_NoFile(t *testing.T) {
	logger, closer, err := Setup("", "info")
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())

	_, _, err = Setup(filepath.Join(t.TempDir(), "missing-dir", "x.log"), "info")
	assert.Error(t, err)
}
