package domain

// LabelSource records where a tag assignment came from.
type LabelSource string

// Label sources.
const (
	// SourceHuman is a manual annotation.
	SourceHuman LabelSource = "human"

	// SourceRule is a path-derived assignment made by the pipeline.
	SourceRule LabelSource = "rule"

	// SourceModel is a classifier prediction.
	SourceModel LabelSource = "model"
)

// DefaultSplit is the data-split marker given to new labels.
const DefaultSplit = "train"

// TagLabel is a (file, tag) assignment edge. At most one TagLabel exists
// per (file, tag) pair; re-applying a label is a no-op, never an overwrite.
type TagLabel struct {
	// FileHash links to the labelled File.
	FileHash string

	// Tag is the assigned tag label.
	Tag string

	// IsPrimary is true only for the tag that was directly requested or
	// matched; ancestors added by inheritance are non-primary. A root tag
	// requested directly is still primary.
	IsPrimary bool

	// Source records the label provenance.
	Source LabelSource

	// Split is the dataset split marker ("train", "test", ...).
	Split string
}
