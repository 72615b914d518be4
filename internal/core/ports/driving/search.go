package driving

import "context"

// SearchHit is one semantic query result.
type SearchHit struct {
	// FileHash identifies the matched file.
	FileHash string

	// Score is the cosine similarity to the query (0-1 for normalised
	// vectors).
	Score float64

	// Snippet is the opening of the stored source text.
	Snippet string
}

// Searcher answers semantic queries over stored file embeddings.
type Searcher interface {
	// Query embeds the text and returns the top-k most similar files.
	Query(ctx context.Context, text string, k int) ([]SearchHit, error)
}
