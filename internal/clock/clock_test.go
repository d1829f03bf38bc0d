package clock

import (
	"testing"
	"time"
)

func TestCountdownExpires(t *testing.T) {
	now := NewManualTime(time.Unix(1000, 0))
	c := New(60*time.Second, now)
	if c.IsExpired() {
		t.Fatalf("unstarted clock must not be expired")
	}
	c.Start()
	now.Advance(59 * time.Second)
	if c.IsExpired() {
		t.Fatalf("expected clock to be running at 59s")
	}
	if got := c.Tick(); got.Unbounded || got.Seconds() != 1 {
		t.Fatalf("expected 1s remaining, got %+v", got)
	}
	now.Advance(time.Second)
	if !c.IsExpired() {
		t.Fatalf("expected clock to expire at 60s")
	}
	if got := c.Tick(); got.Duration != 0 {
		t.Fatalf("expected zero remaining, got %v", got.Duration)
	}
}

func TestPauseKeepsElapsed(t *testing.T) {
	now := NewManualTime(time.Unix(0, 0))
	c := New(30*time.Second, now)
	c.Start()
	now.Advance(10 * time.Second)
	c.Pause()
	c.Pause()
	now.Advance(time.Hour)
	if got := c.Elapsed(); got != 10*time.Second {
		t.Fatalf("expected 10s elapsed while paused, got %v", got)
	}
	if c.IsExpired() {
		t.Fatalf("paused clock must not expire")
	}
	c.Resume()
	now.Advance(5 * time.Second)
	if got := c.Elapsed(); got != 15*time.Second {
		t.Fatalf("expected 15s elapsed after resume, got %v", got)
	}
	if got := c.Tick().Seconds(); got != 15 {
		t.Fatalf("expected 15s remaining, got %d", got)
	}
}

func TestUntimedNeverExpires(t *testing.T) {
	now := NewManualTime(time.Unix(0, 0))
	c := Untimed(now)
	c.Start()
	now.Advance(24 * time.Hour)
	if c.IsExpired() {
		t.Fatalf("untimed clock expired")
	}
	if !c.Tick().Unbounded {
		t.Fatalf("expected unbounded remaining time")
	}
	if got := c.Elapsed(); got != 24*time.Hour {
		t.Fatalf("expected elapsed to keep counting, got %v", got)
	}
}
