package web

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

func TestStripHTML(t *testing.T) {
	in := `<html><head><style>p{color:red}</style></head>
<body><script>alert(1)</script>
<!-- comment -->
<h1>Permit Review</h1>
<p>First &amp; second.</p>
</body></html>`

	out := StripHTML(in)
	assert.Contains(t, out, "Permit Review")
	assert.Contains(t, out, "First & second.")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "color:red")
	assert.NotContains(t, out, "comment")
}

func TestExtract_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>body text</p>"), 0644))

	text, err := New().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "body text", text)
}

func TestExtract_EmptyPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body></body></html>"), 0644))

	_, err := New().Extract(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestExtract_Missing(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "gone.html"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
