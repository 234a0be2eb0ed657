package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-chi/httprate"
)

// memoryCounter keeps one httprate local counter per rule.
// Counts are per process and start over on restart.
type memoryCounter struct {
	mu       sync.Mutex
	counters map[string]httprate.LimitCounter
	now      func() time.Time
}

func newMemoryCounter() *memoryCounter {
	return &memoryCounter{
		counters: make(map[string]httprate.LimitCounter),
		now:      time.Now,
	}
}

func (m *memoryCounter) counterFor(rule Rule) httprate.LimitCounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[rule.Name]
	if !ok {
		c = httprate.NewLocalLimitCounter(rule.Window)
		c.Config(int(rule.Limit), rule.Window)
		m.counters[rule.Name] = c
	}
	return c
}

func (m *memoryCounter) window(rule Rule) (time.Time, time.Time) {
	now := m.now().UTC()
	return now, now.Truncate(rule.Window)
}

func (m *memoryCounter) hit(_ context.Context, rule Rule, id string) (Result, error) {
	c := m.counterFor(rule)
	now, current := m.window(rule)
	if err := c.Increment(id, current); err != nil {
		return Result{}, fmt.Errorf("local counter increment: %w", err)
	}
	count, _, err := c.Get(id, current, current.Add(-rule.Window))
	if err != nil {
		return Result{}, fmt.Errorf("local counter get: %w", err)
	}
	res := newResult(rule, int64(count))
	if !res.Allowed {
		res.RetryAfter = current.Add(rule.Window).Sub(now)
	}
	return res, nil
}

func (m *memoryCounter) undo(_ context.Context, rule Rule, id string) error {
	_, current := m.window(rule)
	if err := m.counterFor(rule).IncrementBy(id, current, -1); err != nil {
		return fmt.Errorf("local counter decrement: %w", err)
	}
	return nil
}
