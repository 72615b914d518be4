package driven

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// FileStore reads the file catalogue. The pipeline never writes to it.
// Returned files carry their Locations preloaded.
type FileStore interface {
	// GetByHash returns a single file by content hash.
	GetByHash(ctx context.Context, hash string) (*domain.File, error)

	// SelectByTag returns files with at least one location whose directory
	// path contains the tag's canonical "{label} - {description}" string,
	// case-insensitively, narrowed by the filter.
	SelectByTag(ctx context.Context, tag domain.Tag, filter domain.SelectionFilter) ([]domain.File, error)

	// SelectByLocation returns files with at least one location equal to or
	// under serverDirs (path-prefix match on the POSIX relative directory),
	// narrowed by the filter.
	SelectByLocation(ctx context.Context, serverDirs string, filter domain.SelectionFilter) ([]domain.File, error)
}
