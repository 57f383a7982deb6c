package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arb33/multipart-form-decoder/internal/config"
	"github.com/arb33/multipart-form-decoder/message"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpdecode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, message.DefaultLookahead, cfg.Decoder.Lookahead)
	assert.Equal(t, message.DefaultBufferSize, cfg.Decoder.BufferSize)
	assert.Equal(t, message.DefaultMaxHeaderSize, cfg.Decoder.MaxHeaderSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.DecoderOptions(), 3)
}

func TestLoad(t *testing.T) {
	t.Setenv("MPDECODE_TEST_LOG", "/var/log/mpdecode.log")

	path := writeConfig(t, `
decoder:
  boundary: XyZ
  bufferSize: 65536
  maxHeaderSize: -1
log:
  level: debug
  file: ${MPDECODE_TEST_LOG}
  compress: true
output:
  progress: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "XyZ", cfg.Decoder.Boundary)
	assert.Equal(t, message.DefaultLookahead, cfg.Decoder.Lookahead)
	assert.Equal(t, 65536, cfg.Decoder.BufferSize)
	assert.Equal(t, -1, cfg.Decoder.MaxHeaderSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/mpdecode.log", cfg.Log.File)
	assert.True(t, cfg.Log.Compress)
	assert.Equal(t, 30, cfg.Log.MaxAgeDays)
	assert.True(t, cfg.Output.Progress)
	assert.False(t, cfg.Output.NoColor)
	assert.Len(t, cfg.DecoderOptions(), 4)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "decoder: [not, a, map]"))
	assert.ErrorContains(t, err, "parsing config file")

	_, err = config.Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "log.level")

	_, err = config.Load(writeConfig(t, "decoder:\n  lookahead: 1000000\n"))
	assert.ErrorContains(t, err, "decoder.lookahead")

	_, err = config.Load(writeConfig(t, "decoder:\n  bufferSize: -4\n"))
	assert.ErrorContains(t, err, "decoder.bufferSize")
}
