// Package config loads the YAML configuration of the savvy command.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"` // "stderr", "stdout", "file" or "none"
	File   string `yaml:"file"`
}

// ReaderConfig holds decoding settings.
type ReaderConfig struct {
	PageSize            int    `yaml:"page_size"`
	StrictVariableCount bool   `yaml:"strict_variable_count"`
	Charset             string `yaml:"charset"`
	LongNames           bool   `yaml:"long_names"`
	SuppressMissing     bool   `yaml:"suppress_missing"`
}

// S3Config holds the settings used for s3:// inputs.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// OutputConfig selects what is printed and how.
type OutputConfig struct {
	Format string `yaml:"format"` // "json" or "yaml"
	Mode   string `yaml:"mode"`   // "meta", "schema", "all" or "describe"
	SQLite string `yaml:"sqlite"`
}

// Config is the top-level configuration struct.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Reader  ReaderConfig  `yaml:"reader"`
	S3      S3Config      `yaml:"s3"`
	Output  OutputConfig  `yaml:"output"`
	Workers int           `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			File:   "savvy.log",
		},
		Reader: ReaderConfig{
			PageSize:            64 * 1024, // 64 KiB
			StrictVariableCount: true,
			LongNames:           true,
			SuppressMissing:     true,
		},
		Output: OutputConfig{
			Format: "json",
			Mode:   "meta",
		},
		Workers: 4,
	}
}

// Load reads configuration from an io.Reader. Values missing from the
// document keep their defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	// A nil reader is an empty file.
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}

	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads configuration from a YAML file by path. An empty path or
// a missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Load(nil)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}

// Validate checks enumerated settings and numeric bounds.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stderr", "stdout", "file", "none":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}

	switch strings.ToLower(c.Output.Mode) {
	case "meta", "schema", "all", "describe":
	default:
		return fmt.Errorf("invalid output mode: %q", c.Output.Mode)
	}

	if c.Reader.PageSize <= 0 {
		return fmt.Errorf("invalid page size: %d", c.Reader.PageSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}

	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q", name)
	}
}
