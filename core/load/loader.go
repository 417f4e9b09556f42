package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/mailfrag/core"
)

// Ensure FileLoader implements the interface.
var _ core.Loader = (*FileLoader)(nil)

// FileLoader loads single-message files (.eml and anything else) and mbox
// archives.
type FileLoader struct {
	Logger zerolog.Logger
}

// New creates a FileLoader.
func New(logger zerolog.Logger) *FileLoader {
	return &FileLoader{Logger: logger}
}

// IsMbox reports whether path names an mbox archive.
func IsMbox(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mbox")
}

// Load returns every message stored at path. A single-message file that
// cannot be parsed fails the whole load; in an mbox archive a malformed
// entry is logged and skipped.
func (l *FileLoader) Load(ctx context.Context, path string) ([]*core.Message, error) {
	if IsMbox(path) {
		return l.loadMbox(ctx, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message file %s: %w", path, err)
	}
	msg, err := parse(raw, path, l.Logger)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []*core.Message{msg}, nil
}

func (l *FileLoader) loadMbox(ctx context.Context, path string) ([]*core.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mbox %s: %w", path, err)
	}
	defer f.Close()

	var messages []*core.Message
	reader := mbox.NewReader(f)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return messages, err
		}

		r, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return messages, fmt.Errorf("reading mbox %s entry %d: %w", path, i, err)
		}

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return messages, fmt.Errorf("reading mbox %s entry %d: %w", path, i, err)
		}

		source := EntryPath(path, i)
		msg, err := parse(buf.Bytes(), source, l.Logger)
		if err != nil {
			l.Logger.Error().Err(err).Str("mbox", path).Int("entry", i).Msg("skipping malformed mbox entry")
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// EntryPath names the i-th message of an mbox archive as if it were a
// standalone .eml file next to the archive.
func EntryPath(mboxPath string, i int) string {
	base := strings.TrimSuffix(mboxPath, filepath.Ext(mboxPath))
	return fmt.Sprintf("%s_%d.eml", base, i)
}
