package driven

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// ContentStore persists extracted text and embeddings. One row per file;
// the row's presence is the canonical "already processed" signal.
type ContentStore interface {
	// Save writes a content row and commits it immediately, so a later
	// crash cannot lose this file's work.
	Save(ctx context.Context, content domain.Content) error

	// Get returns the content row for a file, or domain.ErrNotFound.
	Get(ctx context.Context, fileHash string) (*domain.Content, error)

	// Exists reports whether a content row exists for the file.
	Exists(ctx context.Context, fileHash string) (bool, error)

	// List returns every stored content row. Used by semantic query,
	// which cosine-scans all stored vectors.
	List(ctx context.Context) ([]domain.Content, error)
}
