package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dragonfly/command"
	"dragonfly/internal/frameutil"
	"dragonfly/models"
)

// fakeCommand identifies its frame job through the args, so the fake
// runner can decide per-frame behavior.
type fakeCommand struct {
	job *models.FrameJob
}

func (c *fakeCommand) BuildArgs() []string   { return []string{strconv.Itoa(c.job.Index)} }
func (c *fakeCommand) GetOutputPath() string { return c.job.OutputPath }
func (c *fakeCommand) String() string        { return "fake " + strconv.Itoa(c.job.Index) }

func buildFake(job *models.FrameJob) command.Command {
	return &fakeCommand{job: job}
}

type fakeHandle struct {
	wait func() error
}

func (h *fakeHandle) Wait() error { return h.wait() }

// fakeRunner records which frames were started and reaped, tracks the
// peak number of concurrently running processes, and simulates failures,
// hangs and spawn refusals per frame index.
type fakeRunner struct {
	mu            sync.Mutex
	started       []int
	reaped        []int
	inFlight      int
	maxInFlight   int
	reapedAtStart map[int]int

	failIndices  map[int]bool
	hangIndices  map[int]bool
	spawnRefused map[int]bool
	waitDelay    time.Duration
	onWait       func(index int)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		reapedAtStart: make(map[int]int),
		failIndices:   make(map[int]bool),
		hangIndices:   make(map[int]bool),
		spawnRefused:  make(map[int]bool),
		waitDelay:     2 * time.Millisecond,
	}
}

func (r *fakeRunner) Start(ctx context.Context, bin string, args []string) (command.Handle, error) {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("fake runner got unexpected args %v", args)
	}

	r.mu.Lock()
	if r.spawnRefused[index] {
		r.mu.Unlock()
		return nil, fmt.Errorf("spawn refused for frame %d", index)
	}
	r.started = append(r.started, index)
	r.inFlight++
	if r.inFlight > r.maxInFlight {
		r.maxInFlight = r.inFlight
	}
	r.reapedAtStart[index] = len(r.reaped)
	r.mu.Unlock()

	return &fakeHandle{wait: func() error {
		if r.hangIndices[index] {
			<-ctx.Done()
		} else if r.waitDelay > 0 {
			time.Sleep(r.waitDelay)
		}
		if r.onWait != nil {
			r.onWait(index)
		}

		r.mu.Lock()
		r.inFlight--
		r.reaped = append(r.reaped, index)
		r.mu.Unlock()

		if r.hangIndices[index] {
			return errors.New("signal: killed")
		}
		if r.failIndices[index] {
			return errors.New("exit status 1")
		}
		return nil
	}}, nil
}

func planJobs(t *testing.T, framesDir string, count int) []*models.FrameJob {
	t.Helper()
	jobs := make([]*models.FrameJob, 0, count)
	for i := 0; i < count; i++ {
		job, err := models.NewFrameJob(i, -180.0+360.0*float64(i)/float64(count), 0, 0, frameutil.FilePath(framesDir, i))
		require.NoError(t, err)
		jobs = append(jobs, job)
	}
	return jobs
}

func TestExtract_AllFramesComplete(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	jobs := planJobs(t, framesDir, 8)

	sched := NewScheduler(4, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.NoError(t, err)
	assert.Len(t, runner.started, 8)
	assert.Len(t, runner.reaped, 8)
}

func TestExtract_ConcurrencyNeverExceedsLimit(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	jobs := planJobs(t, framesDir, 10)

	sched := NewScheduler(3, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.NoError(t, err)
	assert.LessOrEqual(t, runner.maxInFlight, 3, "peak concurrent processes must stay within the limit")
}

func TestExtract_BatchBarrier(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	jobs := planJobs(t, framesDir, 8)

	sched := NewScheduler(4, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)
	require.NoError(t, err)

	// Every frame of the second batch must start only after the whole
	// first batch has been reaped.
	for _, index := range []int{4, 5, 6, 7} {
		assert.GreaterOrEqual(t, runner.reapedAtStart[index], 4,
			"frame %d started before the first batch finished", index)
	}
}

func TestExtract_FailureDrainsBatchBeforeReturning(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	runner.failIndices[1] = true
	jobs := planJobs(t, framesDir, 8)

	sched := NewScheduler(4, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.Error(t, err)

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, 1, jobErr.Index)
	assert.Equal(t, models.FrameFailed, jobErr.State)

	// The failing batch is fully drained, the next batch never launches.
	assert.Len(t, runner.started, 4)
	assert.Len(t, runner.reaped, 4, "every started process must be reaped")
}

func TestExtract_SpawnFailureStillReapsStartedSiblings(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	runner.spawnRefused[2] = true
	jobs := planJobs(t, framesDir, 4)

	sched := NewScheduler(4, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.Error(t, err)

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, 2, jobErr.Index)

	// Frames 0 and 1 were already running; both must be reaped, and frame
	// 3 must never start.
	assert.ElementsMatch(t, []int{0, 1}, runner.started)
	assert.ElementsMatch(t, []int{0, 1}, runner.reaped)
}

func TestExtract_FrameTimeout(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	runner.hangIndices[1] = true
	jobs := planJobs(t, framesDir, 2)

	sched := NewScheduler(2, runner, nil).SetFrameTimeout(20 * time.Millisecond)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.Error(t, err)

	var jobErr *JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, 1, jobErr.Index)
	assert.Equal(t, models.FrameTimedOut, jobErr.State, "an expired deadline must not masquerade as a plain failure")
	assert.Contains(t, err.Error(), "timed out")
}

func TestExtract_ProgressReportsEveryCompletion(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	jobs := planJobs(t, framesDir, 6)

	var mu sync.Mutex
	var completions []int
	var totals []int

	sched := NewScheduler(2, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, func(completed, total int) {
		mu.Lock()
		completions = append(completions, completed)
		totals = append(totals, total)
		mu.Unlock()
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, completions)
	for _, total := range totals {
		assert.Equal(t, 6, total)
	}
}

func TestExtract_EmptyJobListIsNoOp(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()

	sched := NewScheduler(4, runner, nil)
	err := sched.Extract(context.Background(), framesDir, nil, buildFake, nil)

	require.NoError(t, err)
	assert.Empty(t, runner.started)

	_, statErr := os.Stat(frameutil.MarkerPath(framesDir))
	assert.True(t, os.IsNotExist(statErr), "no marker must be written for an empty plan")
}

func TestExtract_MarkerLifecycle(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()

	var mu sync.Mutex
	markerSeen := false
	runner.onWait = func(int) {
		if _, err := os.Stat(frameutil.MarkerPath(framesDir)); err == nil {
			mu.Lock()
			markerSeen = true
			mu.Unlock()
		}
	}

	jobs := planJobs(t, framesDir, 2)
	sched := NewScheduler(2, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.NoError(t, err)
	assert.True(t, markerSeen, "marker must be present while processes run")

	_, statErr := os.Stat(frameutil.MarkerPath(framesDir))
	assert.True(t, os.IsNotExist(statErr), "marker must be removed after extraction")
}

func TestExtract_NilBuildFunc(t *testing.T) {
	framesDir := t.TempDir()
	jobs := planJobs(t, framesDir, 1)

	sched := NewScheduler(1, newFakeRunner(), nil)
	err := sched.Extract(context.Background(), framesDir, jobs, nil, nil)
	require.Error(t, err)
}

func TestNewScheduler_ClampsConcurrency(t *testing.T) {
	framesDir := t.TempDir()
	runner := newFakeRunner()
	jobs := planJobs(t, framesDir, 3)

	sched := NewScheduler(0, runner, nil)
	err := sched.Extract(context.Background(), framesDir, jobs, buildFake, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, runner.maxInFlight, "concurrency below 1 must degrade to sequential")
}
