package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Implementations must return fixed-dimension, L2-normalised vectors.
// Empty input yields empty output. A nil/empty vector for a non-empty
// input is reported by the caller as an embedding failure, not an error
// of this interface.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 384, 768).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	// Recorded on every Content row for provenance.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	// Called once at batch setup; failure aborts the run before any file
	// is touched.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
