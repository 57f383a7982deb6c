// Package logger builds the zerolog logger used by the mpdecode command.
package logger

import (
	"io"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arb33/multipart-form-decoder/internal/config"
)

// New returns a logger writing human-readable lines to console at the
// configured level. When a log file is configured, the same events are also
// written as JSON to a rotating file, and the returned io.Closer closes it.
// The closer is never nil.
func New(cfg config.LogConfig, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer = zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		w = zerolog.MultiLevelWriter(w, fileWriter)
		closer = fileWriter
	}

	l := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	return l, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
