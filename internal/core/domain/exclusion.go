package domain

// PatternType distinguishes how an exclusion pattern is matched.
type PatternType string

// Pattern types.
const (
	// PatternDirectory glob-matches the forward-slash normalised full path.
	PatternDirectory PatternType = "directory"

	// PatternFile glob-matches the base filename only.
	PatternFile PatternType = "file"

	// PatternRegex substring-searches the full path with a regular
	// expression.
	PatternRegex PatternType = "regex"
)

// Exclusion contexts checked by the pipeline. A file's text may be safe to
// embed while its location is unsafe for automatic tag inference, so the
// two checks are independent.
const (
	// ContextEmbedding gates extraction and embedding work.
	ContextEmbedding = "embedding"

	// ContextTagging gates automatic tag application.
	ContextTagging = "tagging"
)

// TreatmentExclude marks a rule as an exclusion rule. Other treatments may
// exist in the table and are ignored by the exclusion policy.
const TreatmentExclude = "exclude"

// ExclusionRule is a configured path pattern with a treatment and an
// optional context scope. Rules may change between runs, so the policy
// queries them fresh for every file. Disabled rules are inert.
type ExclusionRule struct {
	// ID is the rule row identifier.
	ID int64

	// Pattern is the glob or regex pattern text, unique per rule.
	Pattern string

	// Type selects the matching semantics.
	Type PatternType

	// Treatment names what matching means, e.g. "exclude".
	Treatment string

	// Contexts limits the rule to the named contexts. Empty means the rule
	// applies in every context.
	Contexts []string

	// Enabled toggles the rule without deleting it.
	Enabled bool
}

// AppliesTo reports whether the rule is in force for the given context.
func (r ExclusionRule) AppliesTo(context string) bool {
	if !r.Enabled {
		return false
	}
	if len(r.Contexts) == 0 {
		return true
	}
	for _, c := range r.Contexts {
		if c == context {
			return true
		}
	}
	return false
}
