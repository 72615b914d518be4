package services

import (
	"context"
	"fmt"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
	"github.com/aa-dank/file-code-tagger/internal/core/ports/driven"
)

type fakeFileStore struct {
	files      []domain.File
	lastFilter domain.SelectionFilter
}

func (s *fakeFileStore) GetByHash(_ context.Context, hash string) (*domain.File, error) {
	for i := range s.files {
		if s.files[i].Hash == hash {
			return &s.files[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeFileStore) SelectByTag(_ context.Context, _ domain.Tag, filter domain.SelectionFilter) ([]domain.File, error) {
	s.lastFilter = filter
	return s.files, nil
}

func (s *fakeFileStore) SelectByLocation(_ context.Context, _ string, filter domain.SelectionFilter) ([]domain.File, error) {
	s.lastFilter = filter
	return s.files, nil
}

type fakeTagStore struct {
	tags map[string]domain.Tag
}

func newFakeTagStore(tags ...domain.Tag) *fakeTagStore {
	s := &fakeTagStore{tags: make(map[string]domain.Tag)}
	for _, t := range tags {
		s.tags[t.Label] = t
	}
	return s
}

func (s *fakeTagStore) GetByLabel(_ context.Context, label string) (*domain.Tag, error) {
	t, ok := s.tags[label]
	if !ok {
		return nil, fmt.Errorf("tag %q: %w", label, domain.ErrTagNotFound)
	}
	return &t, nil
}

func (s *fakeTagStore) List(_ context.Context) ([]domain.Tag, error) {
	out := make([]domain.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	return out, nil
}

type fakeLabelStore struct {
	labels    map[string]domain.TagLabel
	addCalls  int
	addAllErr error
}

func newFakeLabelStore() *fakeLabelStore {
	return &fakeLabelStore{labels: make(map[string]domain.TagLabel)}
}

func labelKey(fileHash, tag string) string { return fileHash + "|" + tag }

func (s *fakeLabelStore) Exists(_ context.Context, fileHash, tag string) (bool, error) {
	_, ok := s.labels[labelKey(fileHash, tag)]
	return ok, nil
}

func (s *fakeLabelStore) Add(_ context.Context, label domain.TagLabel) error {
	s.addCalls++
	key := labelKey(label.FileHash, label.Tag)
	if _, ok := s.labels[key]; ok {
		return nil
	}
	s.labels[key] = label
	return nil
}

func (s *fakeLabelStore) AddAll(_ context.Context, labels []domain.TagLabel) (int, error) {
	if s.addAllErr != nil {
		return 0, s.addAllErr
	}
	s.addCalls++
	applied := 0
	for _, label := range labels {
		key := labelKey(label.FileHash, label.Tag)
		if _, ok := s.labels[key]; ok {
			continue
		}
		s.labels[key] = label
		applied++
	}
	return applied, nil
}

func (s *fakeLabelStore) ListByFile(_ context.Context, fileHash string) ([]domain.TagLabel, error) {
	var out []domain.TagLabel
	for _, l := range s.labels {
		if l.FileHash == fileHash {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLabelStore) get(fileHash, tag string) (domain.TagLabel, bool) {
	l, ok := s.labels[labelKey(fileHash, tag)]
	return l, ok
}

type fakeContentStore struct {
	rows      map[string]domain.Content
	saveCalls int
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{rows: make(map[string]domain.Content)}
}

func (s *fakeContentStore) Save(_ context.Context, content domain.Content) error {
	s.saveCalls++
	s.rows[content.FileHash] = content
	return nil
}

func (s *fakeContentStore) Get(_ context.Context, fileHash string) (*domain.Content, error) {
	c, ok := s.rows[fileHash]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *fakeContentStore) Exists(_ context.Context, fileHash string) (bool, error) {
	_, ok := s.rows[fileHash]
	return ok, nil
}

func (s *fakeContentStore) List(_ context.Context) ([]domain.Content, error) {
	out := make([]domain.Content, 0, len(s.rows))
	for _, c := range s.rows {
		out = append(out, c)
	}
	return out, nil
}

type fakeEmbedder struct {
	vector     []float32
	embedErr   error
	pingErr    error
	embedCalls int
	pingCalls  int
}

func (e *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.embedCalls++
	return e.vector, e.embedErr
}

func (e *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int   { return len(e.vector) }
func (e *fakeEmbedder) ModelName() string { return "fake-model" }

func (e *fakeEmbedder) Ping(_ context.Context) error {
	e.pingCalls++
	return e.pingErr
}

func (e *fakeEmbedder) Close() error { return nil }

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Name() string         { return "fake" }
func (e *fakeExtractor) Extensions() []string { return []string{"pdf", "txt"} }
func (e *fakeExtractor) Extract(_ context.Context, _ string) (string, error) {
	return e.text, e.err
}

type fakeRegistry struct {
	extractor driven.Extractor
	err       error
}

func (r *fakeRegistry) ForPath(_ string) (driven.Extractor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.extractor, nil
}

type fakeExclusionStore struct {
	rules []domain.ExclusionRule
	calls int
}

func (s *fakeExclusionStore) ActiveRules(_ context.Context, treatment string) ([]domain.ExclusionRule, error) {
	s.calls++
	var out []domain.ExclusionRule
	for _, r := range s.rules {
		if r.Treatment == treatment && r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}
