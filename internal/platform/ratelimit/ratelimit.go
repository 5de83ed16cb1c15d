package ratelimit

import (
	"context"
	"time"
)

// Result describes the window state after a Check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter admits at most Limit events per key within a sliding window.
type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}

type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) normalized() Config {
	if c.Limit <= 0 {
		c.Limit = 5
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	return c
}
