// Package command provides the FFmpeg command abstraction shared by the
// extraction scheduler and the encoder driver.
//
// Builders (extract.Builder, encode.Builder) implement the Command
// interface; the Runner seam separates building an invocation from
// spawning it, so schedulers can be tested without an ffmpeg binary.
package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command represents an FFmpeg invocation that can be built and previewed.
type Command interface {
	// BuildArgs constructs the FFmpeg command arguments as a slice
	// suitable for exec.Command(bin, args...).
	BuildArgs() []string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string

	// String returns the command as "ffmpeg <args...>" without executing
	// it. Useful for debug logs and dry runs.
	String() string
}

// Handle is a spawned-but-not-yet-joined child process. The owner must
// call Wait exactly once to reap it.
type Handle interface {
	// Wait blocks until the process exits. A non-zero exit surfaces as a
	// *exec.ExitError for real processes; use ExitCode to extract the
	// status.
	Wait() error
}

// Runner spawns child processes. Production code uses ExecRunner; tests
// substitute a fake that records started and reaped processes.
type Runner interface {
	Start(ctx context.Context, bin string, args []string) (Handle, error)
}

// ExecRunner runs real child processes via os/exec. The context kills the
// process when cancelled or past its deadline.
type ExecRunner struct{}

// Start spawns bin with args. Stdout is discarded (the tools run with
// -loglevel error); stderr passes through for diagnostics.
func (ExecRunner) Start(ctx context.Context, bin string, args []string) (Handle, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd *exec.Cmd
}

func (h *execHandle) Wait() error {
	return h.cmd.Wait()
}

// ExitCode extracts the process exit status from a Wait error. Returns 0
// for nil and -1 when no status is available (spawn failure, kill).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Preview formats bin and args as a single shell-like line.
func Preview(bin string, args []string) string {
	return bin + " " + strings.Join(args, " ")
}
