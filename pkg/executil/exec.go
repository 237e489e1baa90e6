// Package executil provides process execution behind an interface so callers can be tested
// without spawning anything.
package executil

import (
	"context"
	"os/exec"

	"github.com/samber/oops"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual commands. Arguments are passed directly to the
// process; no shell is involved.
type RealExecutor struct{}

// Run executes a command and returns its combined output.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, oops.With("command", cmd).Wrapf(ctxErr, "exec %s", cmd)
		}
		return out, oops.With("command", cmd).Wrapf(err, "exec %s", cmd)
	}
	return out, nil
}
