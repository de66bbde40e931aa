package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cdoc.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	def := Default()
	fs.String("format", def.Format, "")
	fs.String("output", def.Output, "")
	fs.StringSlice("include", def.Include, "")
	fs.StringSlice("exclude", nil, "")
	fs.Int("workers", def.Workers, "")
	fs.String("log-level", def.LogLevel, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "-", cfg.Output)
	assert.Equal(t, []string{"**/*.c", "**/*.h"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
format: yaml
output: docs.yml
include:
  - "src/**/*.c"
exclude:
  - "src/gen/**"
workers: 4
log_level: debug
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Format:   "yaml",
		Output:   "docs.yml",
		Include:  []string{"src/**/*.c"},
		Exclude:  []string{"src/gen/**"},
		Workers:  4,
		LogLevel: "debug",
	}, cfg)
}

func TestLoadDefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cdoc.yml"), []byte("format: json\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, "format: yaml\nworkers: 4\nlog_level: info\n")
	t.Setenv("CDOC_WORKERS", "8")
	t.Setenv("CDOC_LOG_LEVEL", "error")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "debug", "--exclude", "a/**,b/**"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format, "config file beats defaults")
	assert.Equal(t, 8, cfg.Workers, "environment beats config file")
	assert.Equal(t, "debug", cfg.LogLevel, "flags beat environment")
	assert.Equal(t, []string{"a/**", "b/**"}, cfg.Exclude)
	assert.Equal(t, "-", cfg.Output, "unchanged flags keep defaults")
}

func TestLoadLogLevelAliases(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-level", "off"}))

	cfg, err := Load(writeConfig(t, "format: text\n"), fs)
	require.NoError(t, err)
	assert.Equal(t, "off", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "format: [unterminated\n"), nil)
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "format: xml\nworkers: -1\n"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
		assert.Contains(t, err.Error(), "Config.Format")
		assert.Contains(t, err.Error(), "Config.Workers")
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	for _, level := range []string{"warning", "off"} {
		cfg.LogLevel = level
		assert.NoError(t, cfg.Validate(), level)
	}

	cfg = Default()
	cfg.Include = []string{""}
	assert.Error(t, cfg.Validate())
}
