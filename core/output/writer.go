// Package output handles file naming and writing for mailfrag outputs.
// Images go to media_<subject>/ as <uuid><ext>, rendered fragments to
// outputs_<subject>/ as output<i><ext>. Writes run concurrently and fail
// independently.
package output

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/mailfrag/core"
)

const (
	mediaPrefix   = "media_"
	outputsPrefix = "outputs_"
	untitled      = "untitled"

	// DefaultConcurrency bounds parallel file writes.
	DefaultConcurrency = 4
)

// preferredExt overrides the mime table for common image types, whose
// sorted extension lists do not start with the usual one.
var preferredExt = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
}

// WriteReport lists the files written by one call and counts the failures.
type WriteReport struct {
	Written []string
	Failed  int
}

// Writer writes images, rendered fragments and rewritten messages to disk.
type Writer struct {
	BaseDir     string
	Concurrency int
	Logger      zerolog.Logger
}

// New creates a Writer rooted at baseDir. If baseDir is empty, it defaults to
// the directory of the running executable.
func New(baseDir string, concurrency int, logger zerolog.Logger) (*Writer, error) {
	if baseDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating executable: %w", err)
		}
		baseDir = filepath.Dir(exe)
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Writer{BaseDir: baseDir, Concurrency: concurrency, Logger: logger}, nil
}

// SubjectDirName turns a subject into a single safe path segment.
// Example: "Weekly News: 3/4" → Weekly_News__3_4
func SubjectDirName(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return untitled
	}
	var b strings.Builder
	for _, ch := range subject {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '.' || ch == '_' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// MediaDir is the directory image attachments of a subject are written to.
func (w *Writer) MediaDir(subject string) string {
	return filepath.Join(w.BaseDir, mediaPrefix+SubjectDirName(subject))
}

// OutputsDir is the directory rendered fragments of a subject are written to.
func (w *Writer) OutputsDir(subject string) string {
	return filepath.Join(w.BaseDir, outputsPrefix+SubjectDirName(subject))
}

// WriteImages saves every image/* attachment under MediaDir with a fresh
// UUID file name. Other attachments are ignored.
func (w *Writer) WriteImages(ctx context.Context, subject string, attachments []core.Attachment) (WriteReport, error) {
	dir := w.MediaDir(subject)
	var files []pendingFile
	for _, att := range attachments {
		if !IsImage(att.ContentType) {
			continue
		}
		name := uuid.NewString() + ImageExtension(att.Filename, att.ContentType)
		files = append(files, pendingFile{path: filepath.Join(dir, name), data: att.Content})
	}
	if len(files) == 0 {
		return WriteReport{}, nil
	}
	return w.writeAll(ctx, dir, files)
}

// WriteFragments saves rendered fragments as output<i><ext> under OutputsDir,
// i being the fragment's position in the list. Nil entries are skipped
// without renumbering the others.
func (w *Writer) WriteFragments(ctx context.Context, subject string, rendered [][]byte, ext string) (WriteReport, error) {
	dir := w.OutputsDir(subject)
	var files []pendingFile
	for i, data := range rendered {
		if data == nil {
			continue
		}
		files = append(files, pendingFile{path: filepath.Join(dir, fmt.Sprintf("output%d%s", i, ext)), data: data})
	}
	if len(files) == 0 {
		return WriteReport{}, nil
	}
	return w.writeAll(ctx, dir, files)
}

// WriteMessage writes a rewritten message next to its original.
func (w *Writer) WriteMessage(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}

type pendingFile struct {
	path string
	data []byte
}

// writeAll writes files concurrently. A failed write is logged and counted;
// only context cancellation stops the batch. Written keeps input order.
func (w *Writer) writeAll(ctx context.Context, dir string, files []pendingFile) (WriteReport, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Logger.Error().Err(err).Str("path", dir).Msg("creating directory")
		return WriteReport{Failed: len(files)}, nil
	}

	written := make([]bool, len(files))
	var (
		mu     sync.Mutex
		failed int
	)

	var g errgroup.Group
	g.SetLimit(w.Concurrency)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(f.path, f.data, 0644); err != nil {
				w.Logger.Error().Err(err).Str("path", f.path).Msg("writing file")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			written[i] = true
			return nil
		})
	}
	waitErr := g.Wait()

	report := WriteReport{Failed: failed}
	for i, ok := range written {
		if ok {
			report.Written = append(report.Written, files[i].path)
		}
	}
	if waitErr == nil {
		waitErr = ctx.Err()
	}
	return report, waitErr
}

// IsImage reports whether a content type names an image.
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// ImageExtension picks the file extension for an image attachment: the
// filename's own extension, else one derived from the content type.
func ImageExtension(filename, contentType string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return strings.ToLower(ext)
	}
	contentType = strings.ToLower(contentType)
	if ext, ok := preferredExt[contentType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
