// Package config loads mailfrag settings in layers: built-in defaults, an
// optional YAML file, then MAILFRAG_* environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gaurav-prasanna/mailfrag/core/align"
	"github.com/gaurav-prasanna/mailfrag/core/output"
	"github.com/gaurav-prasanna/mailfrag/core/render"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "MAILFRAG"

// DefaultEnvFile is loaded when no explicit env file is given.
const DefaultEnvFile = ".env"

// Log output formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config holds the complete application configuration.
type Config struct {
	// OutputDir is the base directory for media_* and outputs_*. Empty means
	// the directory of the running executable.
	OutputDir        string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	AncestorDepth    int    `yaml:"ancestor_depth" envconfig:"ANCESTOR_DEPTH"`
	Format           string `yaml:"format" envconfig:"FORMAT"`
	WriteConcurrency int    `yaml:"write_concurrency" envconfig:"WRITE_CONCURRENCY"`
	LogLevel         string `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat        string `yaml:"log_format" envconfig:"LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AncestorDepth:    align.DefaultDepth,
		Format:           render.FormatHTML,
		WriteConcurrency: output.DefaultConcurrency,
		LogLevel:         "info",
		LogFormat:        LogFormatConsole,
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment. Environment variables always
// override YAML values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding variables already set. An empty path loads
// DefaultEnvFile if it exists; an explicit path must exist.
func LoadEnvFile(path string) error {
	if path == "" {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.AncestorDepth < 1 {
		return fmt.Errorf("ancestor_depth must be >= 1, got %d", c.AncestorDepth)
	}
	if !slices.Contains(render.Formats, c.Format) {
		return fmt.Errorf("format must be one of %v, got %q", render.Formats, c.Format)
	}
	if c.WriteConcurrency < 1 {
		return fmt.Errorf("write_concurrency must be >= 1, got %d", c.WriteConcurrency)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("log_format must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.LogFormat)
	}
	return nil
}
