package domain

// Outcome classifies what happened to a single file during a batch run.
// Per-file outcomes are returned as values rather than raised as errors so
// the orchestrator loop can pattern-match on them and tests can assert on
// them without parsing logs.
type Outcome int

// Per-file outcomes.
const (
	// OutcomeProcessed means a Content row was committed. Labelling may
	// still have been skipped by the tagging exclusion context.
	OutcomeProcessed Outcome = iota

	// OutcomeSkipped means the file was intentionally left untouched.
	OutcomeSkipped

	// OutcomeFailed means extraction or embedding errored; no Content row
	// exists and the file remains a valid candidate for a future run.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// SkipReason explains an OutcomeSkipped result.
type SkipReason string

// Skip reasons.
const (
	// SkipNoLocations: the file has no Location rows at all.
	SkipNoLocations SkipReason = "no locations"

	// SkipNotLocated: no location resolved to an existing path on the mount.
	SkipNotLocated SkipReason = "not found on server"

	// SkipExcludedEmbedding: an exclusion rule matched in the embedding
	// context. Intentional, logged at info level.
	SkipExcludedEmbedding SkipReason = "excluded from embedding"

	// SkipShortText: extracted text was below the length threshold.
	// Presumed noise (empty scans, OCR garbage); not an error.
	SkipShortText SkipReason = "text below threshold"

	// SkipEmbeddingEmpty: the embedding service returned no vector.
	SkipEmbeddingEmpty SkipReason = "embedding returned no vector"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	// FileHash identifies the file.
	FileHash string

	// Outcome classifies the result.
	Outcome Outcome

	// Reason is set for OutcomeSkipped.
	Reason SkipReason

	// Path is the resolved local path, when one was found.
	Path string

	// Err is set for OutcomeFailed.
	Err error

	// Embedded is true when a Content row was committed.
	Embedded bool

	// Labelled is true when at least one tag was applied.
	Labelled bool
}

// BatchSummary aggregates a run for the end-of-batch log line.
type BatchSummary struct {
	// RunID identifies the batch run in logs.
	RunID string

	// Total is the number of candidate files selected.
	Total int

	// Processed, Skipped and Failed count per-file outcomes.
	Processed int
	Skipped   int
	Failed    int

	// Labelled counts files that received at least one tag.
	Labelled int
}

// Add folds a file result into the summary.
func (s *BatchSummary) Add(r FileResult) {
	switch r.Outcome {
	case OutcomeProcessed:
		s.Processed++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	if r.Labelled {
		s.Labelled++
	}
}
