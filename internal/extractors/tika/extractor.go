// Package tika provides the generic catch-all extraction capability,
// backed by an Apache Tika server's REST API.
package tika

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default configuration values.
const (
	DefaultServerURL = "http://localhost:9998"
	DefaultTimeout   = 60 * time.Second

	// DefaultRequestsPerSecond caps the load placed on a shared Tika
	// container. Extraction is sequential anyway, so the limiter only
	// matters when Tika handles most of a batch.
	DefaultRequestsPerSecond = 4
)

// Config holds configuration for the Tika extraction client.
type Config struct {
	// ServerURL is the Tika server base URL (default: http://localhost:9998).
	ServerURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond limits request rate against the server
	// (default: 4).
	RequestsPerSecond float64
}

// Extractor is an HTTP client for a Tika server. It is registered as the
// registry fallback: it declares a broad fixed set of formats and is
// consulted only for extensions no specific capability claims.
type Extractor struct {
	client    *http.Client
	serverURL string
	limiter   *rate.Limiter
}

// New creates a Tika extraction client.
func New(cfg Config) *Extractor {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Extractor{
		client:    &http.Client{Timeout: cfg.Timeout},
		serverURL: strings.TrimRight(cfg.ServerURL, "/"),
		limiter:   rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

// Name identifies the capability in logs.
func (e *Extractor) Name() string { return "tika" }

// Extensions returns the broad set of formats the Tika server covers.
func (e *Extractor) Extensions() []string {
	return []string{
		"pdf", "doc", "docx", "ppt", "pptx", "xls", "xlsx", "rtf",
		"html", "htm", "txt", "csv", "xml", "json", "md",
		"png", "jpg", "jpeg", "gif", "tif", "tiff", "eml", "msg",
		"odt", "ods",
	}
}

// Ping checks the server is up. Called at batch setup when the fallback
// is configured.
func (e *Extractor) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.serverURL+"/tika", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("tika server unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("tika server returned %s", resp.Status)
	}
	return nil
}

// Extract PUTs the file to /tika and returns the plain text response.
// The filename hint improves Tika's type detection.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.serverURL+"/tika", f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request for %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// Tika's response for encrypted or corrupted documents.
		return "", fmt.Errorf("%s: %w", path, domain.ErrEncryptedFile)
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("tika returned %s for %s", resp.Status, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading tika response: %w", err)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrNoContent)
	}
	return text, nil
}
