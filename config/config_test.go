package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.OutputDir)
	assert.Equal(t, 6, cfg.AncestorDepth)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, 4, cfg.WriteConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "mailfrag.yaml", `
output_dir: /srv/out
ancestor_depth: 4
format: markdown
log_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, 4, cfg.AncestorDepth)
	assert.Equal(t, "markdown", cfg.Format)
	assert.Equal(t, "json", cfg.LogFormat)
	// Unset keys keep their defaults.
	assert.Equal(t, 4, cfg.WriteConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "mailfrag.yaml", "format: markdown\nancestor_depth: 4\n")
	t.Setenv("MAILFRAG_FORMAT", "json")
	t.Setenv("MAILFRAG_WRITE_CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.WriteConcurrency)
	assert.Equal(t, 4, cfg.AncestorDepth)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "format: [unclosed"))
	assert.Error(t, err)

	t.Setenv("MAILFRAG_ANCESTOR_DEPTH", "deep")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := writeFile(t, "test.env", "MAILFRAG_LOG_LEVEL=debug\n")
	t.Setenv("MAILFRAG_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("MAILFRAG_LOG_LEVEL"))

	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadEnvFile_DefaultMissingIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvFile(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"depth", func(c *Config) { c.AncestorDepth = 0 }},
		{"format", func(c *Config) { c.Format = "docx" }},
		{"concurrency", func(c *Config) { c.WriteConcurrency = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
