package driven

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// TagStore reads the filing tag taxonomy. Tags are maintained by a
// separate import process; the pipeline only looks them up.
type TagStore interface {
	// GetByLabel returns the tag with the given bare label, or
	// domain.ErrTagNotFound. Callers should normalise input with
	// domain.ParseLabel first.
	GetByLabel(ctx context.Context, label string) (*domain.Tag, error)

	// List returns every tag in the taxonomy.
	List(ctx context.Context) ([]domain.Tag, error)
}
