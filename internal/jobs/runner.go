package jobs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

// Runner executes tracked background tasks, such as generation retries,
// outside the request that triggered them.
type Runner struct {
	log    *logger.Logger
	base   context.Context
	wg     sync.WaitGroup
	closed atomic.Bool
}

func NewRunner(baseLog *logger.Logger) *Runner {
	return &Runner{
		log:  baseLog.With("component", "JobRunner"),
		base: context.Background(),
	}
}

// Go starts fn on its own goroutine. It returns false once the runner is closed.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) bool {
	if r.closed.Load() {
		r.log.Warn("Runner closed; dropping task", "task", name)
		return false
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Task panic", "task", name, "panic", rec)
			}
		}()
		if err := fn(r.base); err != nil {
			r.log.Warn("Task failed", "task", name, "error", err)
		}
	}()
	return true
}

// Wait blocks until all started tasks finish or ctx is done. Tasks keep
// running after ctx expires.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for running ones.
func (r *Runner) Close(ctx context.Context) error {
	r.closed.Store(true)
	return r.Wait(ctx)
}
