package internal

import (
	"sync"
	"time"
)

// Version is the transcheck release version
const Version = "0.3.0"

// Clock hands out creation timestamps in unix milliseconds
type Clock interface {
	NowMillis() int64
}

// MonotonicClock returns strictly increasing millisecond timestamps, even
// when called twice within the same millisecond or when the wall clock
// steps backwards
type MonotonicClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClock creates a clock backed by time.Now
func NewClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// NewClockAt creates a clock backed by now, for tests
func NewClockAt(now func() time.Time) *MonotonicClock {
	return &MonotonicClock{now: now}
}

// NowMillis returns the current time in unix milliseconds
func (c *MonotonicClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// FormatTimestamp renders a unix millisecond timestamp as "02/01/2006, 15:04"
// in local time
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format("02/01/2006, 15:04")
}
