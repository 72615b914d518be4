package extractors

import (
	"context"
	"os/exec"
)

// CommandRunner executes an external binary and returns its combined
// stdout. Extractors that shell out (pdftotext, tesseract) take a runner
// so tests can substitute a fake without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and returns stdout. Stderr is folded into the
// returned error by exec.ExitError handling at the call site.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
