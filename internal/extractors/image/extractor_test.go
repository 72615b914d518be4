package image

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aa-dank/file-code-tagger/internal/core/domain"
)

type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))
	return path
}

func TestExtract_Success(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte("SCANNED MEMO\n")}, "")
	text, err := e.Extract(context.Background(), touch(t, "scan.png"))
	require.NoError(t, err)
	assert.Equal(t, "SCANNED MEMO\n", text)
}

func TestExtract_EmptyOCR(t *testing.T) {
	e := NewWithRunner(&mockRunner{output: []byte(" \n")}, "")
	_, err := e.Extract(context.Background(), touch(t, "blank.tif"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestExtract_RunnerError(t *testing.T) {
	e := NewWithRunner(&mockRunner{err: errors.New("boom")}, "")
	_, err := e.Extract(context.Background(), touch(t, "scan.jpg"))
	assert.Error(t, err)
}

func TestExtract_Missing(t *testing.T) {
	e := NewWithRunner(&mockRunner{}, "")
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "gone.png"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
