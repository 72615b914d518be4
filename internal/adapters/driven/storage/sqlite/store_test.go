package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedFile(t *testing.T, store *Store, hash string, size int64, dirs ...string) {
	t.Helper()
	file := domain.File{Hash: hash, Size: size, Extension: "pdf"}
	for _, d := range dirs {
		file.Locations = append(file.Locations, domain.Location{
			ServerDirectories: d,
			Filename:          hash + ".pdf",
		})
	}
	require.NoError(t, store.InsertFile(context.Background(), file))
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{Label: "F7"}))
	require.NoError(t, store.Close())

	// Migrations must be a no-op on an already-migrated database.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.TagStore().GetByLabel(context.Background(), "F7")
	assert.NoError(t, err)
}

func TestFileStore_GetByHash(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "abc", 100, "PPDO/Records/F7.1 - Inspection Reports")

	file, err := store.FileStore().GetByHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", file.Hash)
	assert.Equal(t, int64(100), file.Size)
	require.Len(t, file.Locations, 1)
	assert.Equal(t, "PPDO/Records/F7.1 - Inspection Reports", file.Locations[0].ServerDirectories)
	assert.Equal(t, "abc.pdf", file.Locations[0].Filename)
}

func TestFileStore_GetByHash_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.FileStore().GetByHash(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileStore_SelectByTag(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "inspection", 100, "PPDO/Records/F7.1 - Inspection Reports/2019")
	seedFile(t, store, "unrelated", 100, "PPDO/Records/Misc")

	tag := domain.Tag{Label: "F7.1", Description: "Inspection Reports"}
	files, err := store.FileStore().SelectByTag(context.Background(), tag, domain.SelectionFilter{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "inspection", files[0].Hash)
	assert.NotEmpty(t, files[0].Locations)
}

func TestFileStore_SelectByTag_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "lower", 100, "ppdo/records/f7.1 - inspection reports")

	tag := domain.Tag{Label: "F7.1", Description: "Inspection Reports"}
	files, err := store.FileStore().SelectByTag(context.Background(), tag, domain.SelectionFilter{})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileStore_SelectByTag_Filters(t *testing.T) {
	store := newTestStore(t)
	dirs := "PPDO/Records/F7.1 - Inspection Reports"
	seedFile(t, store, "small", 100, dirs)
	seedFile(t, store, "large", 10_000, dirs)
	seedFile(t, store, "embedded", 100, dirs)
	require.NoError(t, store.ContentStore().Save(context.Background(), domain.Content{
		FileHash: "embedded", SourceText: "x", TextLength: 1,
	}))

	tag := domain.Tag{Label: "F7.1", Description: "Inspection Reports"}

	files, err := store.FileStore().SelectByTag(context.Background(), tag, domain.SelectionFilter{MaxBytes: 1000})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = store.FileStore().SelectByTag(context.Background(), tag, domain.SelectionFilter{ExcludeEmbedded: true})
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, f := range files {
		assert.NotEqual(t, "embedded", f.Hash)
	}

	files, err = store.FileStore().SelectByTag(context.Background(), tag, domain.SelectionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileStore_SelectByLocation(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "under", 100, "PPDO/Records/2019")
	seedFile(t, store, "exact", 100, "PPDO/Records")
	seedFile(t, store, "sibling", 100, "PPDO/Recordings")

	files, err := store.FileStore().SelectByLocation(context.Background(), "PPDO/Records", domain.SelectionFilter{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	hashes := []string{files[0].Hash, files[1].Hash}
	assert.ElementsMatch(t, []string{"under", "exact"}, hashes)
}

func TestTagStore(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{
		Label: "F7", Description: "Inspections", ImportanceRank: 2,
	}))
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{
		Label: "F7.1", ParentLabel: "F7", Description: "Inspection Reports", ConfidenceFloor: 0.8,
	}))

	tag, err := store.TagStore().GetByLabel(context.Background(), "F7.1")
	require.NoError(t, err)
	assert.Equal(t, "F7", tag.ParentLabel)
	assert.Equal(t, "Inspection Reports", tag.Description)
	assert.InDelta(t, 0.8, tag.ConfidenceFloor, 1e-9)

	root, err := store.TagStore().GetByLabel(context.Background(), "F7")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	_, err = store.TagStore().GetByLabel(context.Background(), "Z9")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	tags, err := store.TagStore().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestLabelStore(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "abc", 100, "PPDO/Records")
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{Label: "F7"}))

	labels := store.LabelStore()

	exists, err := labels.Exists(context.Background(), "abc", "F7")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, labels.Add(context.Background(), domain.TagLabel{
		FileHash: "abc", Tag: "F7", IsPrimary: true, Source: domain.SourceRule, Split: "train",
	}))

	exists, err = labels.Exists(context.Background(), "abc", "F7")
	require.NoError(t, err)
	assert.True(t, exists)

	// Re-adding must not overwrite the stored row.
	require.NoError(t, labels.Add(context.Background(), domain.TagLabel{
		FileHash: "abc", Tag: "F7", IsPrimary: false, Source: domain.SourceModel, Split: "test",
	}))

	stored, err := labels.ListByFile(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsPrimary)
	assert.Equal(t, domain.SourceRule, stored[0].Source)
	assert.Equal(t, "train", stored[0].Split)
}

func TestLabelStore_AddAll(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "abc", 100, "PPDO/Records")
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{Label: "F"}))
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{Label: "F7", ParentLabel: "F"}))

	labels := store.LabelStore()

	// Pre-existing row must survive the batch untouched and not count as
	// newly written.
	require.NoError(t, labels.Add(context.Background(), domain.TagLabel{
		FileHash: "abc", Tag: "F", IsPrimary: false, Source: domain.SourceHuman, Split: "test",
	}))

	applied, err := labels.AddAll(context.Background(), []domain.TagLabel{
		{FileHash: "abc", Tag: "F7", IsPrimary: true, Source: domain.SourceRule, Split: "train"},
		{FileHash: "abc", Tag: "F", IsPrimary: false, Source: domain.SourceRule, Split: "train"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	stored, err := labels.ListByFile(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "F", stored[0].Tag)
	assert.Equal(t, domain.SourceHuman, stored[0].Source)
	assert.Equal(t, "test", stored[0].Split)
}

func TestLabelStore_AddAll_RollsBackOnFailure(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "abc", 100, "PPDO/Records")
	require.NoError(t, store.InsertTag(context.Background(), domain.Tag{Label: "F7"}))

	labels := store.LabelStore()

	// The second label references a tag that does not exist, failing its
	// foreign key check mid-transaction. The first label must not survive.
	_, err := labels.AddAll(context.Background(), []domain.TagLabel{
		{FileHash: "abc", Tag: "F7", IsPrimary: true, Source: domain.SourceRule, Split: "train"},
		{FileHash: "abc", Tag: "Z9", IsPrimary: false, Source: domain.SourceRule, Split: "train"},
	})
	require.Error(t, err)

	exists, err := labels.Exists(context.Background(), "abc", "F7")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestContentStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	seedFile(t, store, "abc", 100, "PPDO/Records")

	contents := store.ContentStore()
	saved := domain.Content{
		FileHash:   "abc",
		SourceText: "inspection report text",
		TextLength: 22,
		ModelName:  "all-minilm",
		Embedding:  []float32{0.1, -0.5, 1.25},
		UpdatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, contents.Save(context.Background(), saved))

	got, err := contents.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, saved.SourceText, got.SourceText)
	assert.Equal(t, saved.TextLength, got.TextLength)
	assert.Equal(t, saved.ModelName, got.ModelName)
	assert.Equal(t, saved.Embedding, got.Embedding)

	exists, err := contents.Exists(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, exists)

	// Upsert replaces the row.
	saved.SourceText = "revised"
	saved.Embedding = []float32{1, 0, 0}
	require.NoError(t, contents.Save(context.Background(), saved))

	got, err = contents.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "revised", got.SourceText)
	assert.Equal(t, []float32{1, 0, 0}, got.Embedding)

	all, err := contents.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestContentStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ContentStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExclusionStore_ActiveRules(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.InsertRule(context.Background(), domain.ExclusionRule{
		Pattern: "*Personnel*", Type: domain.PatternDirectory,
		Treatment: domain.TreatmentExclude,
		Contexts:  []string{domain.ContextEmbedding},
		Enabled:   true,
	}))
	require.NoError(t, store.InsertRule(context.Background(), domain.ExclusionRule{
		Pattern: "*.tmp", Type: domain.PatternFile,
		Treatment: domain.TreatmentExclude,
		Enabled:   false,
	}))
	require.NoError(t, store.InsertRule(context.Background(), domain.ExclusionRule{
		Pattern: "*Archive*", Type: domain.PatternDirectory,
		Treatment: "include",
		Enabled:   true,
	}))

	rules, err := store.ExclusionStore().ActiveRules(context.Background(), domain.TreatmentExclude)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "*Personnel*", rules[0].Pattern)
	assert.Equal(t, domain.PatternDirectory, rules[0].Type)
	assert.Equal(t, []string{domain.ContextEmbedding}, rules[0].Contexts)
	assert.True(t, rules[0].Enabled)
}

func TestFloat32BytesRoundTrip(t *testing.T) {
	original := []float32{0, 1, -1, 0.5, 3.1415927}
	assert.Equal(t, original, bytesToFloat32Slice(float32SliceToBytes(original)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
