package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtract_UTF8(t *testing.T) {
	path := writeFile(t, "a.txt", []byte("hello wörld"))

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello wörld", text)
}

func TestExtract_Windows1252(t *testing.T) {
	// "café" with 0xE9 for é, invalid as UTF-8.
	path := writeFile(t, "legacy.txt", []byte{'c', 'a', 'f', 0xE9})

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestExtract_Missing(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtensions(t *testing.T) {
	exts := New().Extensions()
	assert.Contains(t, exts, "txt")
	assert.Contains(t, exts, "csv")
	assert.NotContains(t, exts, "pdf")
}
