package extractors

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Ensure Registry implements the port.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extraction capabilities.
//
// Registration is strict: a capability with no declared extensions is a
// configuration error, and two capabilities claiming the same extension is
// a conflict. Both fail at registration time, never at dispatch time, so
// selection is deterministic and independent of registration order.
type Registry struct {
	byExt    map[string]driven.Extractor
	fallback driven.Extractor
}

// NewRegistry creates a registry with an optional catch-all fallback.
// The fallback is consulted only for extensions no specific capability
// claims, and only for extensions the fallback itself declares.
func NewRegistry(fallback driven.Extractor) *Registry {
	return &Registry{
		byExt:    make(map[string]driven.Extractor),
		fallback: fallback,
	}
}

// Register adds a capability for all of its declared extensions.
func (r *Registry) Register(e driven.Extractor) error {
	exts := e.Extensions()
	if len(exts) == 0 {
		return fmt.Errorf("extractor %s: %w: no declared extensions",
			e.Name(), domain.ErrInvalidInput)
	}
	for _, ext := range exts {
		ext = NormalizeExt(ext)
		if ext == "" {
			return fmt.Errorf("extractor %s: %w: empty extension",
				e.Name(), domain.ErrInvalidInput)
		}
		if prev, ok := r.byExt[ext]; ok {
			return fmt.Errorf("extension %q: %w: claimed by both %s and %s",
				ext, domain.ErrAlreadyExists, prev.Name(), e.Name())
		}
		r.byExt[ext] = e
	}
	return nil
}

// ForPath returns the extractor responsible for the file's extension.
func (r *Registry) ForPath(path string) (driven.Extractor, error) {
	ext := NormalizeExt(filepath.Ext(path))
	if e, ok := r.byExt[ext]; ok {
		return e, nil
	}
	if r.fallback != nil {
		for _, fe := range r.fallback.Extensions() {
			if NormalizeExt(fe) == ext {
				return r.fallback, nil
			}
		}
	}
	return nil, fmt.Errorf("extension %q: %w", ext, domain.ErrUnsupportedFormat)
}

// Extensions returns every extension with a specific capability, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// NormalizeExt lowercases an extension and strips any leading dot.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
