package driven

import (
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// LabelStore persists tag label assignments. At most one row exists per
// (file, tag) pair; Add must treat a uniqueness conflict as "already
// labelled" rather than a failure, so re-running a batch is a no-op.
type LabelStore interface {
	// Exists reports whether the (file, tag) pair is already labelled.
	Exists(ctx context.Context, fileHash, tag string) (bool, error)

	// Add inserts a label. Inserting an existing (file, tag) pair is not
	// an error and leaves the stored row untouched.
	Add(ctx context.Context, label domain.TagLabel) error

	// AddAll inserts the labels in a single transaction: either every
	// label is written or, on error, none are. Existing (file, tag) pairs
	// are left untouched. Returns the number of labels newly written.
	AddAll(ctx context.Context, labels []domain.TagLabel) (int, error)

	// ListByFile returns all labels recorded for a file.
	ListByFile(ctx context.Context, fileHash string) ([]domain.TagLabel, error)
}
