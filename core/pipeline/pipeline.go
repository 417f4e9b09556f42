// Package pipeline runs the extraction stages over every message of a file:
// load, fallback when no text rendition exists, align, dedupe, sanitize,
// render and write.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/mailfrag/core"
	"github.com/gaurav-prasanna/mailfrag/core/align"
	"github.com/gaurav-prasanna/mailfrag/core/clean"
	"github.com/gaurav-prasanna/mailfrag/core/dom"
	"github.com/gaurav-prasanna/mailfrag/core/fallback"
	"github.com/gaurav-prasanna/mailfrag/core/output"
	"github.com/gaurav-prasanna/mailfrag/core/paragraph"
)

// Result summarizes the extraction of one message.
type Result struct {
	Subject      string
	Source       string
	Paragraphs   int
	Matched      int
	Fragments    int
	Written      []string
	Images       []string
	FailedWrites int
	FallbackUsed bool
}

// Pipeline wires the stages together.
type Pipeline struct {
	Loader   core.Loader
	Aligner  *align.Aligner
	Renderer core.Renderer
	Writer   *output.Writer
	Logger   zerolog.Logger
}

// Run extracts every message stored at path. A message that fails is logged
// and the others still run; the returned error joins every failure.
func (p *Pipeline) Run(ctx context.Context, path string) ([]*Result, error) {
	return p.run(ctx, path, false)
}

func (p *Pipeline) run(ctx context.Context, path string, derived bool) ([]*Result, error) {
	msgs, err := p.Loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	var (
		results []*Result
		errs    []error
	)
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		msg.Derived = derived

		res, err := p.process(ctx, msg)
		results = append(results, res...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			p.Logger.Error().Err(err).Str("path", msg.Source).Msg("extraction failed")
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

// process handles one message, detouring through the fallback builder when
// it has no text rendition. The detour runs at most once per message.
func (p *Pipeline) process(ctx context.Context, msg *core.Message) ([]*Result, error) {
	if msg.HasRendition() {
		res, err := p.extract(ctx, msg)
		if res == nil {
			return nil, err
		}
		return []*Result{res}, err
	}

	if msg.Derived {
		return nil, fmt.Errorf("%s: %w", msg.Source, core.ErrNoRendition)
	}

	data, err := fallback.Build(msg)
	if err != nil {
		return nil, fmt.Errorf("building text rendition for %s: %w", msg.Source, err)
	}
	modified := fallback.ModifiedPath(msg.Source)
	if err := p.Writer.WriteMessage(modified, data); err != nil {
		return nil, err
	}
	p.Logger.Info().Str("path", modified).Msg("no text rendition, rewrote message")

	results, err := p.run(ctx, modified, true)
	for _, res := range results {
		res.FallbackUsed = true
	}
	return results, err
}

// extract runs the alignment stages on a message that has a text rendition.
func (p *Pipeline) extract(ctx context.Context, msg *core.Message) (*Result, error) {
	res := &Result{Subject: msg.Subject, Source: msg.Source}

	images, err := p.Writer.WriteImages(ctx, msg.Subject, msg.Attachments)
	res.Images = images.Written
	res.FailedWrites += images.Failed
	if err != nil {
		return res, err
	}

	paragraphs := paragraph.Split(msg.TextAsHTML)
	res.Paragraphs = len(paragraphs)

	idx, err := dom.Build(msg.HTML)
	if err != nil {
		return res, fmt.Errorf("indexing HTML of %s: %w", msg.Source, err)
	}

	matches := p.Aligner.Align(paragraphs, idx)
	for _, m := range matches {
		if m.ElementIndex >= 0 {
			res.Matched++
		}
	}

	fragments := clean.SanitizeAll(clean.Dedupe(align.Fragments(matches)))
	res.Fragments = len(fragments)

	extractedAt := time.Now().UTC().Format(time.RFC3339)
	// A fragment that fails to render leaves a nil slot so later outputs keep
	// their positions.
	rendered := make([][]byte, len(fragments))
	for i, f := range fragments {
		meta := core.FragmentMetadata{
			Subject:     msg.Subject,
			Source:      msg.Source,
			Position:    i + 1,
			Total:       len(fragments),
			Language:    idx.Language(),
			ExtractedAt: extractedAt,
		}
		data, err := p.Renderer.Render(f, meta)
		if err != nil {
			p.Logger.Error().Err(err).Str("path", msg.Source).Int("fragment", i).Msg("rendering fragment")
			continue
		}
		rendered[i] = data
	}

	report, err := p.Writer.WriteFragments(ctx, msg.Subject, rendered, p.Renderer.Extension())
	res.Written = report.Written
	res.FailedWrites += report.Failed

	p.Logger.Info().
		Str("subject", msg.Subject).
		Int("paragraphs", res.Paragraphs).
		Int("matched", res.Matched).
		Int("fragments", res.Fragments).
		Int("images", len(res.Images)).
		Msg("extracted message")
	return res, err
}
