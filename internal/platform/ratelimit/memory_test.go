package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemorySlidingWindow(t *testing.T) {
	clock := time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)
	m := NewMemory(Config{Limit: 2, Window: time.Minute})
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	r1, _ := m.Check(ctx, "u1")
	if !r1.Allowed || r1.Remaining != 1 {
		t.Fatalf("first call: %+v", r1)
	}
	clock = clock.Add(10 * time.Second)
	r2, _ := m.Check(ctx, "u1")
	if !r2.Allowed || r2.Remaining != 0 {
		t.Fatalf("second call: %+v", r2)
	}
	r3, _ := m.Check(ctx, "u1")
	if r3.Allowed {
		t.Fatalf("third call must be denied: %+v", r3)
	}
	if r3.RetryAfter != 50*time.Second {
		t.Fatalf("expected 50s retry, got %s", r3.RetryAfter)
	}
	if other, _ := m.Check(ctx, "u2"); !other.Allowed {
		t.Fatalf("keys must be independent")
	}

	clock = clock.Add(51 * time.Second)
	r4, _ := m.Check(ctx, "u1")
	if !r4.Allowed || r4.Remaining != 0 {
		t.Fatalf("oldest hit should have slid out: %+v", r4)
	}
}

func TestMemoryPrunesIdleKeys(t *testing.T) {
	clock := time.Date(2024, 10, 31, 12, 0, 0, 0, time.UTC)
	m := NewMemory(Config{Limit: 1, Window: time.Second})
	m.now = func() time.Time { return clock }
	_, _ = m.Check(context.Background(), "stale")
	clock = clock.Add(5 * time.Second)
	_, _ = m.Check(context.Background(), "fresh")
	if _, ok := m.hits["stale"]; ok {
		t.Fatalf("expected stale key pruned")
	}
}
