// Package plaintext extracts text from plain text file formats.
package plaintext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads text-based files. UTF-8 content is used as-is; anything
// else falls back to Windows-1252 then Latin-1 decoding, which covers the
// legacy encodings seen on the records server.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "plaintext" }

// Extensions returns the text formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{
		"txt", "md", "log", "csv", "json", "xml",
		"yaml", "yml", "ini", "cfg", "conf",
	}
}

// Extract returns the decoded file content.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", fmt.Errorf("%s: undecodable text encoding: %w", path, domain.ErrNoContent)
}
