package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const newsletter = "From: sender@example.com\r\n" +
	"Subject: Spring News\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b\"\r\n" +
	"\r\n" +
	"--b\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hello\r\n" +
	"\r\n" +
	"World\r\n" +
	"--b\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body>" +
	"<table><tbody><tr><td><div><div><span>Hello</span><span>*</span></div></div></td></tr></tbody></table>" +
	"<table><tbody><tr><td><div><div><span>World</span><span>#</span></div></div></td></tr></tbody></table>" +
	"</body></html>\r\n" +
	"--b--\r\n"

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	reset := func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				require.NoError(t, f.Value.Set(f.DefValue))
				f.Changed = false
			})
		}
	}
	reset(rootCmd)
	reset(extractCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeNewsletter(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(newsletter), 0644))
	return path
}

func TestExtract_SingleFile(t *testing.T) {
	in := writeNewsletter(t, t.TempDir(), "news.eml")
	outDir := t.TempDir()

	stdout, _, err := execute(t, "extract", in, "--output_dir", outDir, "--log_level", "error")
	require.NoError(t, err)

	dir := filepath.Join(outDir, "outputs_Spring_News")
	assert.Contains(t, stdout, "✓ Written: "+filepath.Join(dir, "output0.html"))
	assert.Contains(t, stdout, "✓ Written: "+filepath.Join(dir, "output1.html"))
	assert.FileExists(t, filepath.Join(dir, "output1.html"))
}

func TestExtract_FormatShorthand(t *testing.T) {
	in := writeNewsletter(t, t.TempDir(), "news.eml")
	outDir := t.TempDir()

	_, _, err := execute(t, "extract", in, "--markdown", "--output_dir", outDir, "--log_level", "error")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "outputs_Spring_News", "output0.md"))
}

func TestExtract_All(t *testing.T) {
	root := t.TempDir()
	writeNewsletter(t, root, "a.eml")
	writeNewsletter(t, root, filepath.Join("nested", "b.eml"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.eml"), []byte("not a header\r\n\r\nx"), 0644))
	outDir := t.TempDir()

	stdout, stderr, err := execute(t, "extract", root, "--all", "--format", "json", "--output_dir", outDir, "--log_level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 3 message files to process")
	assert.Equal(t, 4, strings.Count(stdout, "✓ Written:"))
	assert.Contains(t, stderr, "1/3 files failed")
	assert.FileExists(t, filepath.Join(outDir, "outputs_Spring_News", "output0.json"))
}

func TestExtract_FlagErrors(t *testing.T) {
	in := writeNewsletter(t, t.TempDir(), "news.eml")

	_, _, err := execute(t, "extract", in, "--only", "--all")
	assert.ErrorContains(t, err, "mutually exclusive")

	_, _, err = execute(t, "extract", in, "--pdf", "--json")
	assert.ErrorContains(t, err, "only one output format")

	_, _, err = execute(t, "extract", in, "--format", "docx", "--output_dir", t.TempDir())
	assert.ErrorContains(t, err, "invalid configuration")

	_, _, err = execute(t, "extract", in, "--depth", "0", "--output_dir", t.TempDir())
	assert.ErrorContains(t, err, "ancestor_depth")

	_, _, err = execute(t, "extract", filepath.Dir(in), "--output_dir", t.TempDir())
	assert.ErrorContains(t, err, "use --all")
}
