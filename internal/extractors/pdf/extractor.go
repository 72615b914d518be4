// Package pdf extracts text from PDF documents using the poppler
// pdftotext binary.
package pdf

import (
	"context"
	"errors"
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

// DefaultBinary is the pdftotext executable resolved from PATH.
const DefaultBinary = "pdftotext"

// Extractor shells out to pdftotext. Scanned PDFs with no text layer
// come back empty and are reported as ErrNoContent so the orchestrator
// logs them rather than embedding nothing.
type Extractor struct {
	runner extractors.CommandRunner
	binary string
}

// New creates a PDF extractor using the pdftotext binary from PATH.
func New() *Extractor {
	return NewWithRunner(extractors.ExecRunner{}, DefaultBinary)
}

// NewWithRunner creates a PDF extractor with a custom runner and binary,
// used by tests.
func NewWithRunner(runner extractors.CommandRunner, binary string) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Extractor{runner: runner, binary: binary}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "pdf" }

// Extensions returns the formats this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Extract runs pdftotext with layout preserved, writing to stdout.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}

	out, err := e.runner.Run(ctx, e.binary, "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.ToLower(string(exitErr.Stderr))
			if strings.Contains(stderr, "encrypted") ||
				strings.Contains(stderr, "incorrect password") {
				return "", fmt.Errorf("%s: %w", path, domain.ErrEncryptedFile)
			}
		}
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}
