package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aa-dank/file-code-tagger/internal/adapters/driven/storage/sqlite"
	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

func setupCatalogStore(t *testing.T) *sqlite.Store {
	t.Helper()
	_, _, cleanup := setupTestServices()
	t.Cleanup(cleanup)

	store, err := sqlite.NewStore(t.TempDir())
	require.NoError(t, err)
	metadataStore = store
	t.Cleanup(func() {
		metadataStore = nil
		store.Close()
	})
	return store
}

func TestCatalogScan(t *testing.T) {
	store := setupCatalogStore(t)

	mount := t.TempDir()
	dir := filepath.Join(mount, "PPDO", "Records")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("content"), 0o644))

	out, err := execute("catalog", "scan", "PPDO/Records", "--mount", mount)
	require.NoError(t, err)
	assert.Contains(t, out, "Catalogued 1 files")

	hash, err := domain.HashFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)

	file, err := store.FileStore().GetByHash(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, "pdf", file.Extension)
	require.Len(t, file.Locations, 1)
	assert.Equal(t, "PPDO/Records", file.Locations[0].ServerDirectories)
	assert.Equal(t, "report.pdf", file.Locations[0].Filename)
}

func TestCatalogAddTag(t *testing.T) {
	store := setupCatalogStore(t)

	_, err := execute("catalog", "add-tag", "F7.1", "--parent", "F7", "--description", "Inspection Reports")
	require.NoError(t, err)

	tag, err := store.TagStore().GetByLabel(context.Background(), "F7.1")
	require.NoError(t, err)
	assert.Equal(t, "F7", tag.ParentLabel)
	assert.Equal(t, "Inspection Reports", tag.Description)
}

func TestCatalogAddRule(t *testing.T) {
	store := setupCatalogStore(t)

	_, err := execute("catalog", "add-rule", "*Personnel*", "--type", "directory", "--context", "embedding")
	require.NoError(t, err)

	rules, err := store.ExclusionStore().ActiveRules(context.Background(), domain.TreatmentExclude)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "*Personnel*", rules[0].Pattern)
	assert.Equal(t, domain.PatternDirectory, rules[0].Type)
	assert.Equal(t, []string{domain.ContextEmbedding}, rules[0].Contexts)
}

func TestCatalogAddRule_RejectsUnknownType(t *testing.T) {
	setupCatalogStore(t)

	_, err := execute("catalog", "add-rule", "x", "--type", "banana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown pattern type")
}

func TestServerRelativeDirs(t *testing.T) {
	mount := filepath.Join(string(filepath.Separator), "mnt", "records")
	assert.Equal(t, "PPDO/Records", serverRelativeDirs(mount, filepath.Join(mount, "PPDO", "Records")))
	assert.Equal(t, "", serverRelativeDirs(mount, mount))
}
