// Package config loads topic-allocator settings from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"topic-allocator/internal/allocate"
	"topic-allocator/internal/report"
	"topic-allocator/internal/table"
)

// Environment variables that override file settings.
const (
	EnvDB       = "TOPIC_ALLOCATOR_DB"
	EnvFormat   = "TOPIC_ALLOCATOR_FORMAT"
	EnvLogLevel = "TOPIC_ALLOCATOR_LOG_LEVEL"
)

// Config holds all topic-allocator configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig configures table parsing.
type InputConfig struct {
	// Delimiter is a single character; "auto" or empty sniffs it from the header.
	Delimiter string `yaml:"delimiter"`
	Transpose bool   `yaml:"transpose"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format    string `yaml:"format"` // text, csv, json, yaml
	Precision int    `yaml:"precision"`
}

// BatchConfig configures concurrent solves.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: string(table.DefaultDelimiter),
		},
		Output: OutputConfig{
			Format:    report.FormatText.String(),
			Precision: 2,
		},
		Batch: BatchConfig{
			Concurrency: allocate.DefaultConfig().Concurrency,
		},
		Store: StoreConfig{
			Path: filepath.Join(".topic-allocator", "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(EnvDB); path != "" {
		c.Store.Path = path
	}

	if format := os.Getenv(EnvFormat); format != "" {
		c.Output.Format = format
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.Delimiter(); err != nil {
		return err
	}

	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return err
	}

	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		return fmt.Errorf("invalid output precision: %d (valid: 0-10)", c.Output.Precision)
	}

	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("invalid batch concurrency: %d (must be at least 1)", c.Batch.Concurrency)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path not configured (set store.path or %s)", EnvDB)
	}

	validLevel := false
	for _, l := range ValidLogLevels {
		if strings.EqualFold(c.Logging.Level, l) {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLogLevels)
	}

	return nil
}

// Delimiter resolves Input.Delimiter to a rune; 0 means auto-detect.
// "tab" and "\t" both select a tab.
func (c *Config) Delimiter() (rune, error) {
	return ParseDelimiter(c.Input.Delimiter)
}

// ParseDelimiter resolves a delimiter setting to a rune; 0 means auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid delimiter: %q (want a single character, \"tab\" or \"auto\")", s)
	}

	return r, nil
}

// Allocate returns the allocation settings derived from c.
func (c *Config) Allocate() (allocate.Config, error) {
	delim, err := c.Delimiter()
	if err != nil {
		return allocate.Config{}, err
	}

	return allocate.Config{
		Read: table.Options{
			Delimiter: delim,
			Transpose: c.Input.Transpose,
		},
		Concurrency: c.Batch.Concurrency,
	}, nil
}

// Report returns the rendering options derived from c.
func (c *Config) Report() (report.Options, error) {
	f, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		return report.Options{}, err
	}

	opts := report.DefaultOptions()
	opts.Format = f
	opts.Precision = c.Output.Precision

	if c.Input.Transpose {
		opts = opts.Transposed()
	}

	return opts, nil
}
