package services

import (
	"context"
	"fmt"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

// Labeler records tag labels for files, walking each tag's ancestor
// chain so a file labelled with a leaf tag is also labelled with every
// tag above it in the hierarchy.
type Labeler struct {
	tags   driven.TagStore
	labels driven.LabelStore
}

// NewLabeler creates a labeler over the given tag and label stores.
func NewLabeler(tags driven.TagStore, labels driven.LabelStore) *Labeler {
	return &Labeler{tags: tags, labels: labels}
}

// ApplyTag labels the file with the tag and all of its ancestors. The
// requested tag is marked primary; ancestors are not. Labels that
// already exist are left untouched. The missing labels are written in a
// single transaction, so the file is never left with a leaf label but
// no ancestors. Returns the number of labels newly written.
func (l *Labeler) ApplyTag(ctx context.Context, fileHash string, tag domain.Tag, source domain.LabelSource) (int, error) {
	var missing []domain.TagLabel
	current := tag
	primary := true
	for {
		exists, err := l.labels.Exists(ctx, fileHash, current.Label)
		if err != nil {
			return 0, err
		}
		if !exists {
			missing = append(missing, domain.TagLabel{
				FileHash:  fileHash,
				Tag:       current.Label,
				IsPrimary: primary,
				Source:    source,
				Split:     domain.DefaultSplit,
			})
		}
		if current.IsRoot() {
			break
		}
		parent, err := l.tags.GetByLabel(ctx, current.ParentLabel)
		if err != nil {
			return 0, fmt.Errorf("resolving parent of tag %q: %w", current.Label, err)
		}
		current = *parent
		primary = false
	}

	if len(missing) == 0 {
		return 0, nil
	}
	applied, err := l.labels.AddAll(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("labelling file %s: %w", fileHash, err)
	}
	return applied, nil
}
