package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driving"
)

// snippetLength caps the snippet returned with each search hit.
const snippetLength = 200

// Ensure SearchService implements the driving port.
var _ driving.Searcher = (*SearchService)(nil)

// SearchService answers semantic queries by embedding the query text and
// cosine-scanning every stored content vector. The corpus is small enough
// that a linear scan beats maintaining an index.
type SearchService struct {
	contents driven.ContentStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a searcher over the given stores.
func NewSearchService(contents driven.ContentStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{contents: contents, embedder: embedder}
}

// Query embeds the text and returns the top-k most similar files, best
// first. k <= 0 defaults to 10.
func (s *SearchService) Query(ctx context.Context, text string, k int) ([]driving.SearchHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = 10
	}

	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: query produced no vector", domain.ErrEmbeddingUnavailable)
	}

	rows, err := s.contents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stored embeddings: %w", err)
	}

	hits := make([]driving.SearchHit, 0, len(rows))
	for _, row := range rows {
		if len(row.Embedding) != len(query) {
			continue
		}
		hits = append(hits, driving.SearchHit{
			FileHash: row.FileHash,
			Score:    cosineSimilarity(query, row.Embedding),
			Snippet:  snippet(row.SourceText),
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineSimilarity assumes both vectors are L2-normalised, so the dot
// product is the cosine.
func cosineSimilarity(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength]) + "..."
}
