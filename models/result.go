package models

import "fmt"

// FrameState is the terminal state of a single rendering process.
type FrameState string

const (
	FrameCompleted FrameState = "completed" // process exited 0, frame written
	FrameFailed    FrameState = "failed"    // process exited non-zero or could not spawn
	FrameTimedOut  FrameState = "timed_out" // process exceeded the per-frame timeout and was killed
)

// FrameResult represents the outcome of one frame rendering process.
//
// It enforces logical consistency: completed results carry no error, while
// failed and timed-out results must carry one. ExitCode is -1 when no exit
// status is available (spawn failure, forced kill).
//
// Use NewFrameResultCompleted, NewFrameResultFailed or
// NewFrameResultTimedOut to create validated instances.
type FrameResult struct {
	Index      int        `json:"index"`
	OutputPath string     `json:"output_path"`
	State      FrameState `json:"state"`
	ExitCode   int        `json:"exit_code"`
	Err        error      `json:"-"`
}

// NewFrameResultCompleted creates a successful FrameResult.
func NewFrameResultCompleted(index int, outputPath string) *FrameResult {
	return &FrameResult{
		Index:      index,
		OutputPath: outputPath,
		State:      FrameCompleted,
		ExitCode:   0,
	}
}

// NewFrameResultFailed creates a failed FrameResult carrying the process
// exit code and the underlying error.
func NewFrameResultFailed(index int, exitCode int, err error) *FrameResult {
	return &FrameResult{
		Index:    index,
		State:    FrameFailed,
		ExitCode: exitCode,
		Err:      err,
	}
}

// NewFrameResultTimedOut creates a FrameResult for a process that was
// killed after exceeding its deadline. Distinct from a plain failure so
// callers can tell an unresponsive render apart from a broken one.
func NewFrameResultTimedOut(index int, err error) *FrameResult {
	return &FrameResult{
		Index:    index,
		State:    FrameTimedOut,
		ExitCode: -1,
		Err:      err,
	}
}

// Completed reports whether the frame was rendered successfully.
func (fr *FrameResult) Completed() bool {
	return fr.State == FrameCompleted
}

// Validate checks if the FrameResult has consistent state.
//
// Returns an error if:
//   - State is FrameCompleted but Err is not nil
//   - State is FrameFailed or FrameTimedOut but Err is nil
//   - Index is negative
func (fr *FrameResult) Validate() error {
	if fr.Index < 0 {
		return fmt.Errorf("index cannot be negative, got %d", fr.Index)
	}

	switch fr.State {
	case FrameCompleted:
		if fr.Err != nil {
			return fmt.Errorf("inconsistent state: completed result carries error: %v", fr.Err)
		}
	case FrameFailed, FrameTimedOut:
		if fr.Err == nil {
			return fmt.Errorf("%s result must have an error", fr.State)
		}
	default:
		return fmt.Errorf("unknown frame state %q", fr.State)
	}

	return nil
}
