package domain

import "time"

// Content holds the extracted, normalised text of a File and its embedding.
// At most one Content exists per File; its presence is the sole marker that
// a file has been processed, and selection with ExcludeEmbedded relies on it.
type Content struct {
	// FileHash links to the owning File (1:1).
	FileHash string

	// SourceText is the normalised extracted text.
	SourceText string

	// TextLength is the character length of SourceText.
	TextLength int

	// ModelName is the embedding model that produced Embedding.
	ModelName string

	// Embedding is the fixed-dimension, L2-normalised vector.
	Embedding []float32

	// UpdatedAt is when this row was written.
	UpdatedAt time.Time
}
