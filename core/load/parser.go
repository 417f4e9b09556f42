// Package load reads email messages from disk and parses their MIME
// structure into core.Message values.
package load

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/mailfrag/core"
	"github.com/gaurav-prasanna/mailfrag/core/paragraph"
)

// Parse parses a raw RFC 5322 message. It walks nested multiparts, keeping
// the first text/plain and text/html bodies and collecting every other part
// as an attachment. Parts in unknown charsets or transfer encodings are
// read as-is.
func Parse(raw []byte, source string) (*core.Message, error) {
	return parse(raw, source, zerolog.Nop())
}

func parse(raw []byte, source string, logger zerolog.Logger) (*core.Message, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty message", core.ErrContainerParse)
	}

	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil {
		if !tolerable(err) {
			return nil, fmt.Errorf("%w: %v", core.ErrContainerParse, err)
		}
		logger.Warn().Err(err).Str("source", source).Msg("reading message with undecoded body")
	}
	if entity == nil {
		return nil, fmt.Errorf("%w: no entity", core.ErrContainerParse)
	}

	msg := &core.Message{Raw: raw, Source: source}

	header := mail.Header{Header: entity.Header}
	subject, err := header.Subject()
	if err != nil {
		subject = entity.Header.Get("Subject")
	}
	msg.Subject = subject

	c := &collector{msg: msg, logger: logger.With().Str("source", source).Logger()}
	if err := c.walk(entity); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrContainerParse, err)
	}

	msg.TextAsHTML = paragraph.TextToHTML(msg.Text)
	return msg, nil
}

// tolerable reports errors that still leave a usable entity behind.
func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

// collector accumulates bodies and attachments while walking an entity tree.
type collector struct {
	msg     *core.Message
	logger  zerolog.Logger
	hasText bool
	hasHTML bool
}

func (c *collector) walk(e *message.Entity) error {
	if mr := e.MultipartReader(); mr != nil {
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil && (part == nil || !tolerable(err)) {
				return fmt.Errorf("reading multipart body: %w", err)
			}
			if err != nil {
				c.logger.Warn().Err(err).Msg("reading part with undecoded body")
			}
			if err := c.walk(part); err != nil {
				return err
			}
		}
	}
	return c.leaf(e)
}

func (c *collector) leaf(e *message.Entity) error {
	mediaType, _, err := e.Header.ContentType()
	if err != nil || mediaType == "" {
		mediaType = "text/plain"
	}
	disposition, _, _ := e.Header.ContentDisposition()

	ah := mail.AttachmentHeader{Header: e.Header}
	filename, _ := ah.Filename()

	body, err := io.ReadAll(e.Body)
	if err != nil {
		return fmt.Errorf("reading %s part: %w", mediaType, err)
	}

	isBody := disposition != "attachment" && filename == "" &&
		(mediaType == "text/plain" || mediaType == "text/html")
	if isBody {
		// Later alternatives of the same type are ignored.
		switch {
		case mediaType == "text/plain" && !c.hasText:
			c.msg.Text = string(body)
			c.hasText = true
		case mediaType == "text/html" && !c.hasHTML:
			c.msg.HTML = string(body)
			c.hasHTML = true
		}
		return nil
	}

	contentID := strings.Trim(strings.TrimSpace(e.Header.Get("Content-Id")), "<>")
	c.msg.Attachments = append(c.msg.Attachments, core.Attachment{
		Filename:    filename,
		ContentType: strings.ToLower(mediaType),
		Content:     body,
		ContentID:   contentID,
		Inline:      disposition == "inline" || contentID != "",
	})
	return nil
}
