package driven

import "context"

// Extractor is a text extraction capability for a fixed set of file
// extensions. Implementations receive a path inside the pipeline's scratch
// workspace, never the original network location, so they are free to
// convert or rewrite the file in place.
//
// Extraction failures are capability-specific wrappings of the domain
// sentinels: missing file, unsupported or encrypted input, empty result.
// An extractor must not be selected for extensions it does not declare.
type Extractor interface {
	// Name identifies the capability in logs.
	Name() string

	// Extensions returns the file extensions this extractor handles,
	// lowercased, without the leading dot. Must be non-empty; a capability
	// with no declared extensions is a configuration error.
	Extensions() []string

	// Extract returns the text content of the file at path.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects the extraction capability for a file.
// Selection is deterministic: a specific extractor per declared extension,
// with a single catch-all fallback for extensions nothing else claims.
type ExtractorRegistry interface {
	// ForPath returns the extractor for the file's extension, or the
	// fallback when no specific capability matches and the fallback covers
	// the extension. Returns domain.ErrUnsupportedFormat otherwise.
	ForPath(path string) (Extractor, error)
}
