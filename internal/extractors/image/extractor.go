// Package image extracts text from raster images by OCR, using the
// tesseract binary.
package image

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// DefaultBinary is the tesseract executable resolved from PATH.
const DefaultBinary = "tesseract"

// Extractor runs tesseract OCR over image files. The binary path may be
// overridden per run (the records workstations install tesseract outside
// PATH), which is why construction takes the resolved command.
type Extractor struct {
	runner extractors.CommandRunner
	binary string
}

// New creates an OCR extractor. binary overrides the tesseract
// executable; empty uses PATH.
func New(binary string) *Extractor {
	return NewWithRunner(extractors.ExecRunner{}, binary)
}

// NewWithRunner creates an OCR extractor with a custom runner, used by
// tests.
func NewWithRunner(runner extractors.CommandRunner, binary string) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{runner: runner, binary: binary}
}

// Verify checks that the OCR binary is executable. Called once at batch
// setup rather than per file.
func (e *Extractor) Verify() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("ocr binary %q: %w", e.binary, err)
	}
	return nil
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "ocr" }

// Extensions returns the image formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"}
}

// Extract runs tesseract with stdout output.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	out, err := e.runner.Run(ctx, e.binary, path, "stdout")
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w", path, err)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}
