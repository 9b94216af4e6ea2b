package command

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/heartlink/heartlink/internal/domain"
)

// waitDelay bounds how long Run waits for output pipes after the process is
// killed, so orphaned grandchildren cannot hold a probe open.
const waitDelay = 500 * time.Millisecond

// Runner implements domain.CommandRunner with os/exec.
type Runner struct {
	logger *slog.Logger
}

// New creates a Runner. A nil logger discards output.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{logger: logger}
}

// Run executes name with args until it exits or ctx is done. Output is the
// trimmed stdout, or stderr when stdout is empty.
func (r *Runner) Run(ctx context.Context, name string, args ...string) domain.CommandResult {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	if out == "" {
		out = strings.TrimSpace(stderr.String())
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%s timed out: %w", name, ctxErr)
		}
		r.logger.Debug("command failed", "cmd", name, "args", args, "error", err)
		if out == "" {
			out = err.Error()
		}
		return domain.CommandResult{Output: out, Err: err}
	}

	r.logger.Debug("command ok", "cmd", name, "args", args)
	return domain.CommandResult{OK: true, Output: out}
}
