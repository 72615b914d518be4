package driven

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// ExclusionStore reads path exclusion rules. Rules may be edited between
// runs, so the exclusion policy queries them fresh for every file rather
// than caching at batch start.
type ExclusionStore interface {
	// ActiveRules returns all enabled rules with the given treatment.
	ActiveRules(ctx context.Context, treatment string) ([]domain.ExclusionRule, error)
}
