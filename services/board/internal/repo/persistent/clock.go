package persistent

import (
	"sync"
	"time"
)

// monotonicClock hands out strictly increasing UTC timestamps at microsecond
// precision, the resolution Postgres keeps. Two inserts from one process never
// share a created_at, so recency order is also insertion order.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newMonotonicClock(now func() time.Time) *monotonicClock {
	if now == nil {
		now = time.Now
	}
	return &monotonicClock{now: now}
}

func (c *monotonicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

var defaultClock = newMonotonicClock(time.Now)
