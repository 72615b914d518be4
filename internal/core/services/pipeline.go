package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driving"
	"github.com/aa-dank/file-code-tagger/internal/logger"
	"github.com/aa-dank/file-code-tagger/internal/textnorm"
)

// Pipeline defaults.
const (
	// DefaultTagModeLimit caps tag-mode selection when no limit is given.
	DefaultTagModeLimit = 250

	// DefaultTextLengthThreshold is the minimum extracted text length
	// (in characters) worth embedding.
	DefaultTextLengthThreshold = 250

	// DefaultMaxSizeMB is the default per-file size ceiling.
	DefaultMaxSizeMB = 200
)

// Ensure BatchPipeline implements the driving port.
var _ driving.Pipeline = (*BatchPipeline)(nil)

// BatchPipeline runs the extract/embed/label batch over files selected by
// tag or by server location. Files are processed sequentially; a per-file
// failure is recorded and the batch moves on. Each file's Content row is
// committed before the next file starts, so an interrupted run keeps its
// completed work.
type BatchPipeline struct {
	files     driven.FileStore
	tags      driven.TagStore
	contents  driven.ContentStore
	embedder  driven.EmbeddingService
	registry  driven.ExtractorRegistry
	exclusion *ExclusionPolicy
	labeler   *Labeler
	matcher   PathTagMatcher
}

// NewBatchPipeline wires a pipeline from its dependencies.
func NewBatchPipeline(
	files driven.FileStore,
	tags driven.TagStore,
	contents driven.ContentStore,
	embedder driven.EmbeddingService,
	registry driven.ExtractorRegistry,
	exclusion *ExclusionPolicy,
	labeler *Labeler,
	matcher PathTagMatcher,
) *BatchPipeline {
	if matcher == nil {
		matcher = SubstringTagMatcher{}
	}
	return &BatchPipeline{
		files:     files,
		tags:      tags,
		contents:  contents,
		embedder:  embedder,
		registry:  registry,
		exclusion: exclusion,
		labeler:   labeler,
		matcher:   matcher,
	}
}

// ProcessByTag selects files filed under the tag's directory naming and
// processes each one, labelling with the requested tag and its ancestors.
func (p *BatchPipeline) ProcessByTag(ctx context.Context, tagLabel string, opts driving.BatchOptions) (*domain.BatchSummary, error) {
	if err := p.checkSetup(ctx, opts); err != nil {
		return nil, err
	}

	tagPtr, err := p.tags.GetByLabel(ctx, domain.ParseLabel(tagLabel))
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q: %w", tagLabel, err)
	}
	tag := *tagPtr

	filter := selectionFilter(opts, DefaultTagModeLimit)
	candidates, err := p.files.SelectByTag(ctx, tag, filter)
	if err != nil {
		return nil, fmt.Errorf("selecting files for tag %q: %w", tag.Label, err)
	}

	return p.runBatch(ctx, candidates, opts, func(file domain.File) string {
		return locateForTag(file, opts.Mount, tag)
	}, func(ctx context.Context, file domain.File, path string) (int, error) {
		return p.labeler.ApplyTag(ctx, file.Hash, tag, domain.SourceRule)
	})
}

// ProcessByLocation selects files under the server subtree and processes
// each one, inferring tags from the file's resolved path.
func (p *BatchPipeline) ProcessByLocation(ctx context.Context, serverPath string, opts driving.BatchOptions) (*domain.BatchSummary, error) {
	if err := p.checkSetup(ctx, opts); err != nil {
		return nil, err
	}

	targetDirs := serverDirsFromPath(opts.Mount, serverPath)
	if targetDirs == "" {
		return nil, fmt.Errorf("%w: location %q does not resolve to a server directory", domain.ErrInvalidInput, serverPath)
	}

	filter := selectionFilter(opts, 0)
	candidates, err := p.files.SelectByLocation(ctx, targetDirs, filter)
	if err != nil {
		return nil, fmt.Errorf("selecting files under %q: %w", targetDirs, err)
	}

	allTags, err := p.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tag hierarchy: %w", err)
	}

	return p.runBatch(ctx, candidates, opts, func(file domain.File) string {
		return locateForLocation(file, opts.Mount, targetDirs)
	}, func(ctx context.Context, file domain.File, path string) (int, error) {
		applied := 0
		for _, tag := range p.matcher.Match(path, allTags) {
			n, err := p.labeler.ApplyTag(ctx, file.Hash, tag, domain.SourceRule)
			applied += n
			if err != nil {
				return applied, err
			}
		}
		return applied, nil
	})
}

// checkSetup validates the mount and the embedding service before any
// file is touched.
func (p *BatchPipeline) checkSetup(ctx context.Context, opts driving.BatchOptions) error {
	info, err := os.Stat(opts.Mount)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: mount %q is not an accessible directory", domain.ErrMountNotFound, opts.Mount)
	}
	if err := p.embedder.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// locateFunc resolves a candidate file to an existing local path, or ""
// when no location resolves.
type locateFunc func(file domain.File) string

// labelFunc applies tags to a processed file and returns how many labels
// were newly written.
type labelFunc func(ctx context.Context, file domain.File, path string) (int, error)

// runBatch drives the shared per-file loop for both selection modes.
func (p *BatchPipeline) runBatch(ctx context.Context, candidates []domain.File, opts driving.BatchOptions, locate locateFunc, label labelFunc) (*domain.BatchSummary, error) {
	scratch, err := os.MkdirTemp("", "filetagger-batch-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch workspace: %w", err)
	}
	defer os.RemoveAll(scratch)

	summary := &domain.BatchSummary{
		RunID: uuid.NewString(),
		Total: len(candidates),
	}
	threshold := opts.TextLengthThreshold
	if threshold <= 0 {
		threshold = DefaultTextLengthThreshold
	}

	logger.Info("Starting batch %s: %d candidate files", summary.RunID, summary.Total)
	start := time.Now()

	for _, file := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := p.processOne(ctx, file, scratch, threshold, locate, label)
		summary.Add(result)
		logResult(file, result)
	}

	logger.Info("Batch %s finished in %s: %d processed, %d skipped, %d failed, %d labelled",
		summary.RunID, time.Since(start).Round(time.Millisecond),
		summary.Processed, summary.Skipped, summary.Failed, summary.Labelled)
	return summary, nil
}

// processOne runs the full per-file sequence: locate, exclusion check,
// extract, embed, store, label. Every early exit is a value, not an
// error, so the batch loop never aborts on one file.
func (p *BatchPipeline) processOne(ctx context.Context, file domain.File, scratch string, threshold int, locate locateFunc, label labelFunc) domain.FileResult {
	result := domain.FileResult{FileHash: file.Hash}

	if len(file.Locations) == 0 {
		result.Outcome = domain.OutcomeSkipped
		result.Reason = domain.SkipNoLocations
		return result
	}

	path := locate(file)
	if path == "" {
		result.Outcome = domain.OutcomeSkipped
		result.Reason = domain.SkipNotLocated
		return result
	}
	result.Path = path

	excluded, err := p.exclusion.IsExcluded(ctx, path, domain.ContextEmbedding)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("checking embedding exclusions: %w", err)
		return result
	}
	if excluded {
		result.Outcome = domain.OutcomeSkipped
		result.Reason = domain.SkipExcludedEmbedding
		return result
	}

	hasContent, err := p.contents.Exists(ctx, file.Hash)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("checking existing content: %w", err)
		return result
	}
	if !hasContent {
		if outcome := p.embedFile(ctx, file, path, scratch, threshold, &result); outcome {
			return result
		}
	}

	taggingExcluded, err := p.exclusion.IsExcluded(ctx, path, domain.ContextTagging)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("checking tagging exclusions: %w", err)
		return result
	}
	if taggingExcluded {
		logger.Info("File %s excluded from tagging: %s", file.Hash, path)
	} else {
		applied, err := label(ctx, file, path)
		if err != nil {
			result.Outcome = domain.OutcomeFailed
			result.Err = fmt.Errorf("labelling: %w", err)
			return result
		}
		result.Labelled = applied > 0
	}

	result.Outcome = domain.OutcomeProcessed
	return result
}

// embedFile extracts, normalises, embeds and stores the file's content.
// It returns true when the result is final (skip or failure) and false
// when processing should continue to labelling.
func (p *BatchPipeline) embedFile(ctx context.Context, file domain.File, path, scratch string, threshold int, result *domain.FileResult) bool {
	extractor, err := p.registry.ForPath(path)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("selecting extractor: %w", err)
		return true
	}

	workPath, cleanup, err := stageFile(scratch, file.Hash, path)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("staging file: %w", err)
		return true
	}
	defer cleanup()

	raw, err := extractor.Extract(ctx, workPath)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("extracting with %s: %w", extractor.Name(), err)
		return true
	}

	if len([]rune(raw)) < threshold {
		result.Outcome = domain.OutcomeSkipped
		result.Reason = domain.SkipShortText
		return true
	}

	text := textnorm.Normalize(raw)

	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("embedding: %w", err)
		return true
	}
	if len(vector) == 0 {
		result.Outcome = domain.OutcomeSkipped
		result.Reason = domain.SkipEmbeddingEmpty
		return true
	}

	content := domain.Content{
		FileHash:   file.Hash,
		SourceText: text,
		TextLength: len([]rune(text)),
		ModelName:  p.embedder.ModelName(),
		Embedding:  vector,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := p.contents.Save(ctx, content); err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = fmt.Errorf("saving content: %w", err)
		return true
	}
	result.Embedded = true
	return false
}

// stageFile copies the file into a per-file scratch subdirectory so
// extractors can rewrite it without touching the server copy. The
// returned cleanup removes the subdirectory.
func stageFile(scratch, hash, srcPath string) (string, func(), error) {
	dir := filepath.Join(scratch, hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	dst := filepath.Join(dir, filepath.Base(srcPath))
	if err := copyFile(srcPath, dst); err != nil {
		cleanup()
		return "", nil, err
	}
	return dst, cleanup, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// selectionFilter translates batch options into the store-level filter.
func selectionFilter(opts driving.BatchOptions, defaultLimit int) domain.SelectionFilter {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	maxMB := opts.MaxSizeMB
	if maxMB <= 0 {
		maxMB = DefaultMaxSizeMB
	}
	return domain.SelectionFilter{
		ExcludeEmbedded: opts.ExcludeEmbedded,
		MaxBytes:        int64(maxMB * 1024 * 1024),
		Limit:           limit,
		Randomize:       opts.Randomize,
	}
}

func logResult(file domain.File, r domain.FileResult) {
	switch r.Outcome {
	case domain.OutcomeProcessed:
		logger.Info("Processed %s (%s) embedded=%t labelled=%t", file.Hash, r.Path, r.Embedded, r.Labelled)
	case domain.OutcomeSkipped:
		logger.Info("Skipped %s: %s", file.Hash, r.Reason)
	case domain.OutcomeFailed:
		logger.Error("Failed %s (%s): %v", file.Hash, r.Path, r.Err)
	}
}
