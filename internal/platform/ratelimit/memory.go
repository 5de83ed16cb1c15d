package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local sliding-window limiter. It is only correct for a
// single instance.
type Memory struct {
	cfg Config
	now func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastPrune time.Time
}

func NewMemory(cfg Config) *Memory {
	return &Memory{cfg: cfg.normalized(), now: time.Now, hits: map[string][]time.Time{}}
}

func (m *Memory) Check(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.cfg.Window)
	if now.Sub(m.lastPrune) > m.cfg.Window {
		m.prune(cutoff)
		m.lastPrune = now
	}

	hits := trim(m.hits[key], cutoff)
	res := Result{Limit: m.cfg.Limit}
	if len(hits) >= m.cfg.Limit {
		res.ResetAt = hits[0].Add(m.cfg.Window)
		res.RetryAfter = res.ResetAt.Sub(now)
		m.hits[key] = hits
		return res, nil
	}
	hits = append(hits, now)
	m.hits[key] = hits
	res.Allowed = true
	res.Remaining = m.cfg.Limit - len(hits)
	res.ResetAt = hits[0].Add(m.cfg.Window)
	return res, nil
}

func (m *Memory) prune(cutoff time.Time) {
	for k, hits := range m.hits {
		if hits = trim(hits, cutoff); len(hits) == 0 {
			delete(m.hits, k)
		} else {
			m.hits[k] = hits
		}
	}
}

func trim(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
