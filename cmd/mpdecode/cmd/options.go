package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/arb33/multipart-form-decoder/internal/config"
	"github.com/arb33/multipart-form-decoder/internal/logger"
	"github.com/arb33/multipart-form-decoder/internal/progress"
	"github.com/arb33/multipart-form-decoder/message"
	"github.com/arb33/multipart-form-decoder/message/header/param"
)

// options holds the flags shared by every mpdecode command.
type options struct {
	configFile    string
	boundary      string
	contentType   string
	lookahead     int
	bufferSize    int
	maxHeaderSize int
	logLevel      string
	logFile       string
	progress      bool
	summary       bool
	noColor       bool
}

func (o *options) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&o.boundary, "boundary", "", "use this boundary instead of reading it from the first line of the capture")
	flags.StringVar(&o.contentType, "content-type", "", "take the boundary from this Content-Type header value")
	flags.IntVar(&o.lookahead, "lookahead", message.DefaultLookahead, "bytes searched for the boundary line")
	flags.IntVar(&o.bufferSize, "buffer-size", message.DefaultBufferSize, "size of the read buffer")
	flags.IntVar(&o.maxHeaderSize, "max-header-size", message.DefaultMaxHeaderSize, "largest header block accepted, 0 or less for no limit")
	flags.StringVar(&o.logLevel, "log-level", zerolog.LevelWarnValue, "log level (trace, debug, info, warn, error)")
	flags.StringVar(&o.logFile, "log-file", "", "also write JSON logs to this rotating file")
	flags.BoolVar(&o.progress, "progress", false, "show a progress bar on stderr")
	flags.BoolVar(&o.summary, "summary", false, "print the number of parts found to stderr")
	flags.BoolVar(&o.noColor, "no-color", false, "disable colored output")

	cmd.MarkFlagsMutuallyExclusive("boundary", "content-type")
}

// config loads the configuration file, if any, and applies the flags that
// were set on the command line over it.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		cfg, err = config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("boundary") {
		cfg.Decoder.Boundary = o.boundary
	}
	if flags.Changed("content-type") {
		v, err := param.Parse(o.contentType)
		if err != nil {
			return nil, fmt.Errorf("parsing --content-type: %w", err)
		}
		if !strings.HasPrefix(v.Value(), "multipart/") {
			return nil, fmt.Errorf("--content-type %q is not a multipart type", o.contentType)
		}
		if v.Boundary() == "" {
			return nil, fmt.Errorf("--content-type %q has no boundary parameter", o.contentType)
		}
		cfg.Decoder.Boundary = v.Boundary()
	}
	if flags.Changed("lookahead") {
		cfg.Decoder.Lookahead = o.lookahead
	}
	if flags.Changed("buffer-size") {
		cfg.Decoder.BufferSize = o.bufferSize
	}
	if flags.Changed("max-header-size") {
		cfg.Decoder.MaxHeaderSize = o.maxHeaderSize
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = o.progress
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = o.summary
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor = o.noColor
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run is everything a command needs to decode one capture.
type run struct {
	cfg     *config.Config
	log     zerolog.Logger
	decoder *message.Decoder

	progress *progress.Progress
	closers  []io.Closer
}

// start opens the capture at path and prepares a decoder for it.
func (o *options) start(cmd *cobra.Command, path string) (*run, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}

	log, logCloser, err := logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	r := &run{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	f, err := os.Open(path)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("opening capture: %w", err)
	}
	r.closers = append(r.closers, f)

	var src io.Reader = f
	if cfg.Output.Progress {
		fi, err := f.Stat()
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("opening capture: %w", err)
		}
		r.progress = progress.New(cmd.ErrOrStderr())
		src = r.progress.Track(f, fi.Size(), filepath.Base(path))
	}

	log.Debug().Str("capture", path).Interface("decoder", cfg.Decoder).Msg("starting")

	r.decoder, err = message.NewDecoder(src, append(cfg.DecoderOptions(), message.WithLogger(log))...)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return r, nil
}

// Close stops the progress bar and closes the capture and the log file.
func (r *run) Close() {
	if r.progress != nil {
		r.progress.Wait()
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		_ = r.closers[i].Close()
	}
}
