// Package presentation extracts text from PowerPoint OOXML decks (.pptx).
// Legacy binary .ppt files are left to the generic fallback service.
package presentation

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor collects the text runs of every slide, in slide order.
type Extractor struct{}

// New creates a new presentation extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "presentation" }

// Extensions returns the formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"pptx"}
}

// Extract returns the deck text, one line per slide.
func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: not a pptx container: %w", path, domain.ErrEncryptedFile)
	}
	defer reader.Close()

	// Slide entries are not ordered in the archive.
	var slides []*zip.File
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") &&
			strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var lines []string
	for _, slide := range slides {
		rc, err := slide.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		if line := parseSlideXML(data); line != "" {
			lines = append(lines, line)
		}
	}

	text := strings.Join(lines, "\n")
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}

// parseSlideXML joins every a:t text run in the slide with spaces.
func parseSlideXML(data []byte) string {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var parts []string
	var inText bool
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText && strings.TrimSpace(string(t)) != "" {
				parts = append(parts, string(t))
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
