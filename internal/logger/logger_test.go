package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerboseToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Info("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	defer SetVerbose(false)
	Info("visible %d", 2)
	assert.Contains(t, buf.String(), "[INFO] visible 2")
}

func TestWarnAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warn("careful: %s", "x")
	Error("broken: %s", "y")

	out := buf.String()
	assert.Contains(t, out, "[WARN] careful: x")
	assert.Contains(t, out, "[ERROR] broken: y")
}

func TestLogFileMirrorsAllLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, SetLogFile(path))
	defer Close()

	SetVerbose(false)
	Debug("trace detail")
	Warn("something odd")

	Close()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Debug is hidden on the console but present in the file.
	assert.NotContains(t, buf.String(), "trace detail")
	assert.Contains(t, string(data), "trace detail")
	assert.Contains(t, string(data), "something odd")
	assert.True(t, strings.Contains(string(data), "[WARN]"))
}
