package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topic-allocator/internal/report"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvDB, EnvFormat, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, ";", cfg.Input.Delimiter)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.NotEmpty(t, cfg.Store.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  delimiter: ","
  transpose: true
output:
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ",", cfg.Input.Delimiter)
	assert.True(t, cfg.Input.Transpose)
	assert.Equal(t, "json", cfg.Output.Format)
	// Unset keys keep their defaults.
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Output.Format = "yaml"
	cfg.Batch.Concurrency = 9
	cfg.Store.Path = "/tmp/runs.db"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDB, "/var/lib/alloc.db")
	t.Setenv(EnvFormat, "csv")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/alloc.db", cfg.Store.Path)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)

	t.Run("empty values do not override", func(t *testing.T) {
		t.Setenv(EnvFormat, "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "text", cfg.Output.Format)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad delimiter", func(c *Config) { c.Input.Delimiter = ";;" }, "invalid delimiter"},
		{"quote delimiter", func(c *Config) { c.Input.Delimiter = `"` }, "invalid delimiter"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "unknown format"},
		{"negative precision", func(c *Config) { c.Output.Precision = -1 }, "invalid output precision"},
		{"zero concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "invalid batch concurrency"},
		{"no store", func(c *Config) { c.Store.Path = "" }, "store path not configured"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", 0},
		{"auto", 0},
		{"AUTO", 0},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"\t", '\t'},
		{";", ';'},
		{",", ','},
		{"|", '|'},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_AllocateAndReport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Delimiter = "tab"
	cfg.Input.Transpose = true
	cfg.Output.Format = "CSV"
	cfg.Output.Precision = 3
	cfg.Batch.Concurrency = 7

	ac, err := cfg.Allocate()
	require.NoError(t, err)
	assert.Equal(t, '\t', ac.Read.Delimiter)
	assert.True(t, ac.Read.Transpose)
	assert.Equal(t, 7, ac.Concurrency)

	ro, err := cfg.Report()
	require.NoError(t, err)
	assert.Equal(t, report.FormatCSV, ro.Format)
	assert.Equal(t, 3, ro.Precision)
	assert.Equal(t, [3]string{"Student", "Topic", "Priority"}, ro.Headers)
}
