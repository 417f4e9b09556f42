// Package cmd: extract command.
// This is the main command that orchestrates the pipeline:
// load → (fallback) → align → dedupe → sanitize → render → write.
//
// It handles flag validation, renderer selection, and the --only / --all modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/mailfrag/core/align"
	"github.com/gaurav-prasanna/mailfrag/core/load"
	"github.com/gaurav-prasanna/mailfrag/core/output"
	"github.com/gaurav-prasanna/mailfrag/core/pipeline"
	"github.com/gaurav-prasanna/mailfrag/core/render"
	"github.com/gaurav-prasanna/mailfrag/discover"
)

// Flag variables.
var (
	flagOnly      bool
	flagAll       bool
	flagFormat    string
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagOutputDir string
	flagDepth     int
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>",
	Short: "Extract paragraph fragments from a message file or directory",
	Long: `Extract reads an .eml or .mbox file, matches each plain-text paragraph to the
HTML rendition, and writes one output per distinct containing block to
outputs_<subject>/. Image attachments go to media_<subject>/. Messages without a
plain-text part get one derived from their HTML, written as <name>_modified.eml.

Examples:
  mailfrag extract newsletter.eml
  mailfrag extract newsletter.eml --markdown --output_dir ./out
  mailfrag extract archive.mbox --format json
  mailfrag extract ./inbox --all --depth 4`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Mode flags.
	extractCmd.Flags().BoolVar(&flagOnly, "only", false, "Process only the given file (default)")
	extractCmd.Flags().BoolVar(&flagAll, "all", false, "Process every message file below the given directory")

	// Output format.
	extractCmd.Flags().StringVar(&flagFormat, "format", render.FormatHTML, "Output format: html, markdown, json, or pdf")
	extractCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Shorthand for --format pdf")
	extractCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Shorthand for --format markdown")
	extractCmd.Flags().BoolVar(&flagJSON, "json", false, "Shorthand for --format json")

	extractCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Base output directory (default: executable's directory)")
	extractCmd.Flags().IntVar(&flagDepth, "depth", align.DefaultDepth, "Parent steps from a matched element to its containing block")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]

	// --- Validate flags ---
	if err := validateFlags(cmd); err != nil {
		return err
	}
	applyFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	renderer, err := render.Select(cfg.Format)
	if err != nil {
		return err
	}

	writer, err := output.New(cfg.OutputDir, cfg.WriteConcurrency, logger)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	p := &pipeline.Pipeline{
		Loader:   load.New(logger),
		Aligner:  align.New(cfg.AncestorDepth, logger),
		Renderer: renderer,
		Writer:   writer,
		Logger:   logger,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		return runAll(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), path, p)
	}
	return runOnly(ctx, cmd.OutOrStdout(), path, p)
}

// runOnly processes a single message file through the pipeline.
func runOnly(ctx context.Context, out io.Writer, path string, p *pipeline.Pipeline) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory (use --all)", path)
	}

	results, err := p.Run(ctx, path)
	printResults(out, "", results)
	return err
}

// runAll discovers every message file below root and processes each through
// the pipeline. A failing file is reported and counted; the rest still run.
func runAll(ctx context.Context, out, errOut io.Writer, root string, p *pipeline.Pipeline) error {
	fmt.Fprintf(out, "Discovering message files in %s...\n", root)

	files, err := discover.Discover(ctx, root)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	fmt.Fprintf(out, "Found %d message files to process\n", len(files))

	var errCount int
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "[%d/%d] Processing %s\n", i+1, len(files), file)

		results, err := p.Run(ctx, file)
		printResults(out, "  ", results)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
		}
	}

	if errCount > 0 {
		fmt.Fprintf(errOut, "\n%d/%d files failed\n", errCount, len(files))
	}
	return nil
}

func printResults(out io.Writer, indent string, results []*pipeline.Result) {
	for _, res := range results {
		if res.FallbackUsed {
			fmt.Fprintf(out, "%s• Derived text rendition: %s\n", indent, res.Source)
		}
		for _, path := range res.Images {
			fmt.Fprintf(out, "%s✓ Saved image: %s\n", indent, path)
		}
		for _, path := range res.Written {
			fmt.Fprintf(out, "%s✓ Written: %s\n", indent, path)
		}
		if res.Fragments == 0 {
			fmt.Fprintf(out, "%s• No fragments for %q (%d paragraphs, %d matched)\n",
				indent, res.Subject, res.Paragraphs, res.Matched)
		}
		if res.FailedWrites > 0 {
			fmt.Fprintf(out, "%s✗ %d writes failed\n", indent, res.FailedWrites)
		}
	}
}

// validateFlags checks that --only and --all are not both given and that at
// most one format shorthand is used, not conflicting with --format.
func validateFlags(cmd *cobra.Command) error {
	if flagOnly && flagAll {
		return fmt.Errorf("--only and --all are mutually exclusive")
	}

	shorthands := 0
	for _, set := range []bool{flagPDF, flagMarkdown, flagJSON} {
		if set {
			shorthands++
		}
	}
	if shorthands > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", shorthands)
	}
	if shorthands == 1 && cmd.Flags().Changed("format") {
		return fmt.Errorf("--format cannot be combined with --pdf, --markdown, or --json")
	}
	return nil
}

// applyFlags overrides configuration values with explicitly set flags.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = flagFormat
	}
	switch {
	case flagPDF:
		cfg.Format = render.FormatPDF
	case flagMarkdown:
		cfg.Format = render.FormatMarkdown
	case flagJSON:
		cfg.Format = render.FormatJSON
	}
	if flags.Changed("output_dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("depth") {
		cfg.AncestorDepth = flagDepth
	}
}
