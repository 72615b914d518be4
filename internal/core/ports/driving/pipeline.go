package driving

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// BatchOptions are the knobs shared by both selection modes.
type BatchOptions struct {
	// Mount is the local mount path of the file server root.
	Mount string

	// Limit caps the number of files processed. Zero means the mode
	// default.
	Limit int

	// Randomize shuffles candidate order.
	Randomize bool

	// ExcludeEmbedded skips files that already have a Content row.
	ExcludeEmbedded bool

	// MaxSizeMB drops files larger than this many megabytes.
	// Zero means the default (200).
	MaxSizeMB float64

	// TextLengthThreshold is the minimum extracted text length to embed.
	// Zero means the default (250).
	TextLengthThreshold int
}

// Pipeline runs the extract/embed/label batch over selected files.
// Per-file failures never abort a batch; the summary reports counts and
// every decision is logged with file identity, path and reason.
type Pipeline interface {
	// ProcessByTag selects and processes files filed under the tag's
	// directory naming. The tag label is normalised with domain.ParseLabel;
	// an unknown tag is fatal before any file is touched.
	ProcessByTag(ctx context.Context, tagLabel string, opts BatchOptions) (*domain.BatchSummary, error)

	// ProcessByLocation selects and processes files under the given server
	// subtree. serverPath may be an absolute local path under the mount or
	// a server-relative POSIX path; tags are inferred from each file's
	// resolved path.
	ProcessByLocation(ctx context.Context, serverPath string, opts BatchOptions) (*domain.BatchSummary, error)
}
