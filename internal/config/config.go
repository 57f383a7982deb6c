// Package config handles configuration loading for the mpdecode command.
//
// Configuration is loaded from an optional YAML file with support for
// environment variable expansion (${VAR} or $VAR syntax). Command-line flags
// take precedence over anything set in the file.
//
// # Example Configuration
//
//	decoder:
//	  lookahead: 1024
//	  bufferSize: 8192
//	  maxHeaderSize: 10240
//
//	log:
//	  level: debug
//	  file: ${HOME}/.mpdecode/mpdecode.log
//	  maxSizeMB: 5
//
//	output:
//	  progress: true
//	  summary: true
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/arb33/multipart-form-decoder/message"
)

// maxLookahead bounds the boundary search window to something sane for a
// boundary line.
const maxLookahead = 64 * 1024

// Config is the root configuration structure
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
}

// DecoderConfig holds multipart decoder settings
type DecoderConfig struct {
	// Boundary skips boundary discovery when set (no "--" prefix)
	Boundary      string `yaml:"boundary"`
	Lookahead     int    `yaml:"lookahead"`
	BufferSize    int    `yaml:"bufferSize"`
	MaxHeaderSize int    `yaml:"maxHeaderSize"` // negative for no limit
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`

	// File enables a rotating log file in addition to stderr
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
	Compress   bool   `yaml:"compress"`
}

// OutputConfig holds console output settings
type OutputConfig struct {
	Progress bool `yaml:"progress"`
	NoColor  bool `yaml:"noColor"`

	// Summary prints the run totals to stderr
	Summary bool `yaml:"summary"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Decoder.Lookahead == 0 {
		c.Decoder.Lookahead = message.DefaultLookahead
	}
	if c.Decoder.BufferSize == 0 {
		c.Decoder.BufferSize = message.DefaultBufferSize
	}
	if c.Decoder.MaxHeaderSize == 0 {
		c.Decoder.MaxHeaderSize = message.DefaultMaxHeaderSize
	}
	if c.Log.Level == "" {
		c.Log.Level = zerolog.LevelWarnValue
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 5
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 5
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 30
	}
}

// Validate checks the configuration for values the decoder cannot use. It is
// called by Load and should be called again after flags are applied.
func (c *Config) Validate() error {
	if c.Decoder.Lookahead < 1 || c.Decoder.Lookahead > maxLookahead {
		return fmt.Errorf("decoder.lookahead must be between 1 and %d, got %d", maxLookahead, c.Decoder.Lookahead)
	}

	if c.Decoder.BufferSize < 0 {
		return fmt.Errorf("decoder.bufferSize must be positive, got %d", c.Decoder.BufferSize)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}

// DecoderOptions converts the decoder settings into message.Option values.
func (c *Config) DecoderOptions() []message.Option {
	opts := []message.Option{
		message.WithLookahead(c.Decoder.Lookahead),
		message.WithBufferSize(c.Decoder.BufferSize),
		message.WithMaxHeaderSize(c.Decoder.MaxHeaderSize),
	}
	if c.Decoder.Boundary != "" {
		opts = append(opts, message.WithBoundary([]byte(c.Decoder.Boundary)))
	}
	return opts
}
