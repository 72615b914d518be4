// Package email extracts text from RFC 822 email files (.eml).
// Outlook .msg containers are left to the generic fallback service.
package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"os"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/extractors/web"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor parses an email and returns its headers and body text.
// Multipart messages prefer the text/plain part; HTML-only messages are
// stripped to text. Attachments are ignored.
type Extractor struct{}

// New creates a new email extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "email" }

// Extensions returns the formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"eml"}
}

// Extract returns subject, correspondents and body text.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return "", fmt.Errorf("%s: malformed email: %w", path, domain.ErrNoContent)
	}

	var b strings.Builder
	for _, h := range []string{"Subject", "From", "To", "Date"} {
		if v := msg.Header.Get(h); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", h, v)
		}
	}

	body, err := messageBody(msg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	b.WriteString("\n")
	b.WriteString(body)

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}

// messageBody returns the best textual body of the message.
func messageBody(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		data, err := io.ReadAll(msg.Body)
		return string(data), err
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		data, readErr := io.ReadAll(msg.Body)
		return string(data), readErr
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return multipartBody(msg.Body, params["boundary"])
	}

	data, err := io.ReadAll(decoded(msg.Body, msg.Header.Get("Content-Transfer-Encoding")))
	if err != nil {
		return "", err
	}
	if mediaType == "text/html" {
		return web.StripHTML(string(data)), nil
	}
	return string(data), nil
}

// multipartBody walks the parts, preferring text/plain over text/html.
func multipartBody(r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		data, err := io.ReadAll(r)
		return string(data), err
	}

	var plain, html string
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}

		mediaType, params, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		body := decoded(part, part.Header.Get("Content-Transfer-Encoding"))

		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			if nested, err := multipartBody(body, params["boundary"]); err == nil && plain == "" {
				plain = nested
			}
		case mediaType == "text/plain":
			if data, err := io.ReadAll(body); err == nil && plain == "" {
				plain = string(data)
			}
		case mediaType == "text/html":
			if data, err := io.ReadAll(body); err == nil && html == "" {
				html = web.StripHTML(string(data))
			}
		}
	}

	if plain != "" {
		return plain, nil
	}
	return html, nil
}

// decoded unwraps quoted-printable transfer encoding. Base64 bodies are
// attachments in practice and are skipped by the part walk.
func decoded(r io.Reader, encoding string) io.Reader {
	if strings.EqualFold(encoding, "quoted-printable") {
		return quotedprintable.NewReader(r)
	}
	return r
}
