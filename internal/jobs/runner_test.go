package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
)

func TestRunnerRecoversAndWaits(t *testing.T) {
	r := NewRunner(logger.Nop())
	var ran int32
	r.Go("panics", func(context.Context) error { panic("boom") })
	r.Go("fails", func(context.Context) error { return errors.New("nope") })
	r.Go("ok", func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&ran, 1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatalf("expected ok task to finish")
	}
	if r.Go("late", func(context.Context) error { return nil }) {
		t.Fatalf("closed runner must reject tasks")
	}
}
