package domain

import "strings"

// Tag is a node in the filing tag taxonomy, e.g. "F7.1" parented by "F7".
// The taxonomy is a forest: root labels have no parent and parent chains
// are acyclic. Tags are maintained by a separate import process and are
// read-only from the pipeline's perspective.
type Tag struct {
	// Label is the tag identity, e.g. "F7.1".
	Label string

	// ParentLabel is the label of the parent tag, or "" for roots.
	ParentLabel string

	// Description is the human-readable tag description.
	Description string

	// ImportanceRank orders tags for review purposes.
	ImportanceRank int

	// ConfidenceFloor is the minimum model confidence for automatic
	// assignment of this tag.
	ConfidenceFloor float64
}

// IsRoot reports whether this tag has no parent.
func (t Tag) IsRoot() bool {
	return t.ParentLabel == ""
}

// FullLabel is the canonical directory naming form of the tag,
// "{label} - {description}". Filing directories on the server are named
// with this string, which is what tag-mode selection matches against.
func (t Tag) FullLabel() string {
	return strings.TrimSpace(t.Label + " - " + t.Description)
}

// ParseLabel normalises user input into a bare tag label. Anything from
// the first space onward is dropped, so "F7.1 - Inspection Reports" and
// "F7.1" both yield "F7.1".
func ParseLabel(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
