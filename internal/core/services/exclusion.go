package services

import (
	"context"
	"path"
	"path/filepath"
	"regexp"

	"github.com/gobwas/glob"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/logger"
)

// ExclusionPolicy decides whether a path is excluded from pipeline work
// in a given context ("embedding" or "tagging").
//
// Rules are fetched fresh on every check because they can be edited
// between and during runs. An invalid pattern is logged and skipped,
// never fatal.
type ExclusionPolicy struct {
	store driven.ExclusionStore
}

// NewExclusionPolicy creates a policy backed by the given rule store.
func NewExclusionPolicy(store driven.ExclusionStore) *ExclusionPolicy {
	return &ExclusionPolicy{store: store}
}

// IsExcluded reports whether any enabled "exclude" rule scoped to the
// context matches the path. Directory rules glob-match the full
// forward-slash path, file rules glob-match the base filename, regex
// rules substring-search the full path.
func (p *ExclusionPolicy) IsExcluded(ctx context.Context, filePath, checkContext string) (bool, error) {
	rules, err := p.store.ActiveRules(ctx, domain.TreatmentExclude)
	if err != nil {
		return false, err
	}

	full := filepath.ToSlash(filePath)
	base := path.Base(full)

	for _, rule := range rules {
		if !rule.AppliesTo(checkContext) {
			continue
		}
		switch rule.Type {
		case domain.PatternDirectory:
			if matchGlob(rule.Pattern, full) {
				return true, nil
			}
		case domain.PatternFile:
			if matchGlob(rule.Pattern, base) {
				return true, nil
			}
		case domain.PatternRegex:
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				logger.Warn("Invalid regex exclusion pattern %q: %v", rule.Pattern, err)
				continue
			}
			if re.MatchString(full) {
				return true, nil
			}
		default:
			logger.Warn("Unknown exclusion pattern type %q for %q", rule.Type, rule.Pattern)
		}
	}
	return false, nil
}

// matchGlob matches with shell-glob semantics where * crosses path
// separators, as the rules were written against fnmatch.
func matchGlob(pattern, s string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		logger.Warn("Invalid glob exclusion pattern %q: %v", pattern, err)
		return false
	}
	return g.Match(s)
}
