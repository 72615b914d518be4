package services

import (
	"strings"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

// PathTagMatcher infers which filing tags apply to a file from its
// resolved filesystem path. Location-mode labelling uses it to tag files
// found under arbitrary server subtrees.
//
// Substring matching is inherently fuzzy (coincidental substrings produce
// false positives), so the strategy is an interface: a stricter matcher
// can be swapped in without touching orchestration.
type PathTagMatcher interface {
	// Match returns the subset of tags that apply to the path.
	Match(path string, tags []domain.Tag) []domain.Tag
}

// Ensure SubstringTagMatcher implements the interface.
var _ PathTagMatcher = (*SubstringTagMatcher)(nil)

// SubstringTagMatcher matches a tag when its canonical
// "{label} - {description}" string appears anywhere in the path,
// case-insensitively. This mirrors how filing directories are named on
// the records server.
type SubstringTagMatcher struct{}

// Match returns every tag whose full label occurs in the path.
func (SubstringTagMatcher) Match(path string, tags []domain.Tag) []domain.Tag {
	lower := strings.ToLower(path)
	var matched []domain.Tag
	for _, tag := range tags {
		full := strings.ToLower(tag.FullLabel())
		if full != "" && strings.Contains(lower, full) {
			matched = append(matched, tag)
		}
	}
	return matched
}
