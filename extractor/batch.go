package extractor

import (
	"context"

	"dragonfly/command"
	"dragonfly/models"
)

// batch is a fixed group of spawned-but-not-yet-joined rendering
// processes. Once joined, every handle in the group has been reaped, so a
// failure never leaves orphaned children behind.
type batch struct {
	members []member
}

type member struct {
	job    *models.FrameJob
	handle command.Handle
	ctx    context.Context
	cancel context.CancelFunc
}

func newBatch(capacity int) *batch {
	return &batch{members: make([]member, 0, capacity)}
}

func (b *batch) add(job *models.FrameJob, handle command.Handle, ctx context.Context, cancel context.CancelFunc) {
	b.members = append(b.members, member{job: job, handle: handle, ctx: ctx, cancel: cancel})
}

// joinAll waits for every process in the batch and returns the results in
// completion order (first to exit, first reported). It always drains the
// whole group, failures included.
func (b *batch) joinAll() []*models.FrameResult {
	if len(b.members) == 0 {
		return nil
	}

	resultCh := make(chan *models.FrameResult, len(b.members))
	for _, m := range b.members {
		go func(m member) {
			err := m.handle.Wait()
			if m.cancel != nil {
				m.cancel()
			}

			switch {
			case err == nil:
				resultCh <- models.NewFrameResultCompleted(m.job.Index, m.job.OutputPath)
			case m.ctx.Err() == context.DeadlineExceeded:
				resultCh <- models.NewFrameResultTimedOut(m.job.Index, err)
			default:
				resultCh <- models.NewFrameResultFailed(m.job.Index, command.ExitCode(err), err)
			}
		}(m)
	}

	results := make([]*models.FrameResult, 0, len(b.members))
	for range b.members {
		results = append(results, <-resultCh)
	}
	return results
}
