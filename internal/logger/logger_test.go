package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arb33/multipart-form-decoder/internal/config"
	"github.com/arb33/multipart-form-decoder/internal/logger"
)

func TestNew_Console(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	l, closer, err := logger.New(config.LogConfig{Level: "info"}, buf)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	l.Debug().Msg("hidden")
	l.Info().Str("part", "1").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "part=1")
}

func TestNew_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "mpdecode.log")
	cfg := config.Default().Log
	cfg.Level = "debug"
	cfg.File = path

	buf := &bytes.Buffer{}
	l, closer, err := logger.New(cfg, buf)
	require.NoError(t, err)

	l.Debug().Int("parts", 2).Msg("done")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &event))
	assert.Equal(t, "done", event["message"])
	assert.Equal(t, "debug", event["level"])
	assert.Equal(t, float64(2), event["parts"])

	assert.Contains(t, buf.String(), "done")
}

func TestNew_BadLevel(t *testing.T) {
	t.Parallel()

	_, closer, err := logger.New(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoError(t, closer.Close())
}
