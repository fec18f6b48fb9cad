package common

import (
	"context"
	"os/exec"
	"time"
)

// KillGrace bounds how long Run waits for output pipes after the context kills the process.
// yt-dlp may leave ffmpeg children holding stdout open. A Run can therefore last up to
// the context deadline plus KillGrace; callers with a hard bound kill that much earlier.
const KillGrace = 5 * time.Second

// CmdRunner is interface for executing external commands
type CmdRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// realCmdRunner implements CmdRunner using os/exec
type realCmdRunner struct{}

// NewCmdRunner creates a new CmdRunner
func NewCmdRunner() CmdRunner {
	return &realCmdRunner{}
}

// Run executes external command with given arguments and returns its stdout.
// The process is killed when ctx is done; Run returns at most KillGrace later.
func (r *realCmdRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = KillGrace
	out, err := cmd.Output()
	if err != nil && ctx.Err() != nil {
		return out, ctx.Err()
	}
	return out, err
}
