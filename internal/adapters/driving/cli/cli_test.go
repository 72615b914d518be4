package cli

import (
	"bytes"
	"context"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driving"
)

// fakePipeline records the last call and returns a canned summary.
type fakePipeline struct {
	lastTag      string
	lastLocation string
	lastOpts     driving.BatchOptions
	summary      domain.BatchSummary
	err          error
}

func (p *fakePipeline) ProcessByTag(_ context.Context, tagLabel string, opts driving.BatchOptions) (*domain.BatchSummary, error) {
	p.lastTag = tagLabel
	p.lastOpts = opts
	if p.err != nil {
		return nil, p.err
	}
	s := p.summary
	return &s, nil
}

func (p *fakePipeline) ProcessByLocation(_ context.Context, serverPath string, opts driving.BatchOptions) (*domain.BatchSummary, error) {
	p.lastLocation = serverPath
	p.lastOpts = opts
	if p.err != nil {
		return nil, p.err
	}
	s := p.summary
	return &s, nil
}

// fakeSearcher returns canned hits.
type fakeSearcher struct {
	lastText string
	lastK    int
	hits     []driving.SearchHit
	err      error
}

func (s *fakeSearcher) Query(_ context.Context, text string, k int) ([]driving.SearchHit, error) {
	s.lastText = text
	s.lastK = k
	return s.hits, s.err
}

// setupTestServices injects fakes and returns them with a cleanup.
func setupTestServices() (*fakePipeline, *fakeSearcher, func()) {
	pipeline := &fakePipeline{summary: domain.BatchSummary{RunID: "test-run", Total: 2, Processed: 2}}
	searcher := &fakeSearcher{}
	pipelineService = pipeline
	searchService = searcher
	return pipeline, searcher, func() {
		pipelineService = nil
		searchService = nil
		rootCmd.SetArgs(nil)
	}
}

// execute runs the root command with args and captures output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
