// Package cmd implements the CLI commands for mailfrag using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mailfrag/config"
	"github.com/gaurav-prasanna/mailfrag/logging"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagEnvFile   string
	flagLogLevel  string
	flagLogFormat string
)

// Shared state prepared by PersistentPreRunE.
var (
	cfg    *config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "mailfrag",
	Short: "mailfrag: split email messages into per-paragraph HTML fragments",
	Long: `mailfrag aligns the plain-text paragraphs of an email with the elements of its
HTML rendition and writes the containing block of each paragraph as a fragment,
in HTML, Markdown, JSON, or PDF. Image attachments are saved alongside.

Usage:
  mailfrag extract <path> [flags]`,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env", "", "dotenv file (default: .env when present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log_level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log_format", config.LogFormatConsole, "Log format (json or console)")
}

// setup layers the configuration (defaults, file, environment, flags) and
// builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(flagEnvFile); err != nil {
		return err
	}

	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log_level") {
		loaded.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("log_format") {
		loaded.LogFormat = flagLogFormat
	}

	l, err := logging.New(cmd.ErrOrStderr(), loaded.LogFormat, loaded.LogLevel)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l
	return nil
}

// Execute runs the root command. An interrupt cancels the running
// extraction between messages and writes.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
