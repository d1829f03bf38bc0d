// Package clock provides the pausable round countdown.
package clock

import (
	"sync"
	"time"
)

// TimeProvider supplies the current time.
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the wall clock with its monotonic reading.
type SystemTime struct{}

// Now returns time.Now().
func (SystemTime) Now() time.Time {
	return time.Now()
}

// ManualTime is a controllable TimeProvider for tests and replays.
type ManualTime struct {
	mu      sync.RWMutex
	current time.Time
}

// NewManualTime returns a ManualTime starting at start.
func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{current: start}
}

// Now returns the current manual time.
func (m *ManualTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Advance moves the manual time forward by d.
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Remaining is the time left in a round.
type Remaining struct {
	Duration  time.Duration
	Unbounded bool
}

// Seconds returns whole seconds left, rounded down.
func (r Remaining) Seconds() int {
	return int(r.Duration / time.Second)
}

// RoundClock is a single countdown for one round. A zero limit makes the
// clock untimed. It is not safe for concurrent use.
type RoundClock struct {
	now   TimeProvider
	limit time.Duration

	started   bool
	startedAt time.Time

	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

// New returns a clock with the given limit. A nil provider uses SystemTime.
func New(limit time.Duration, now TimeProvider) *RoundClock {
	if now == nil {
		now = SystemTime{}
	}
	if limit < 0 {
		limit = 0
	}
	return &RoundClock{now: now, limit: limit}
}

// Untimed returns a clock that never expires.
func Untimed(now TimeProvider) *RoundClock {
	return New(0, now)
}

// Limit returns the configured round length; zero means untimed.
func (c *RoundClock) Limit() time.Duration {
	return c.limit
}

// Timed reports whether the clock counts down.
func (c *RoundClock) Timed() bool {
	return c.limit > 0
}

// Now returns the provider time.
func (c *RoundClock) Now() time.Time {
	return c.now.Now()
}

// Start begins the countdown. Later calls are ignored.
func (c *RoundClock) Start() {
	if c.started {
		return
	}
	c.started = true
	c.startedAt = c.now.Now()
}

// Started reports whether Start was called.
func (c *RoundClock) Started() bool {
	return c.started
}

// Pause freezes elapsed time.
func (c *RoundClock) Pause() {
	if !c.started || c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.now.Now()
}

// Resume continues counting after Pause.
func (c *RoundClock) Resume() {
	if !c.paused {
		return
	}
	c.pausedTotal += c.now.Now().Sub(c.pausedAt)
	c.paused = false
	c.pausedAt = time.Time{}
}

// Paused reports whether the clock is paused.
func (c *RoundClock) Paused() bool {
	return c.paused
}

// Elapsed returns active round time, excluding pauses.
func (c *RoundClock) Elapsed() time.Duration {
	if !c.started {
		return 0
	}
	end := c.now.Now()
	if c.paused {
		end = c.pausedAt
	}
	elapsed := end.Sub(c.startedAt) - c.pausedTotal
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// Tick samples the clock and returns the time left.
func (c *RoundClock) Tick() Remaining {
	if !c.Timed() {
		return Remaining{Unbounded: true}
	}
	left := c.limit - c.Elapsed()
	if left < 0 {
		left = 0
	}
	return Remaining{Duration: left}
}

// IsExpired reports whether a timed round has used its limit.
func (c *RoundClock) IsExpired() bool {
	if !c.Timed() || !c.started {
		return false
	}
	return c.Elapsed() >= c.limit
}
