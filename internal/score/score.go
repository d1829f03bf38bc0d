// Package score turns match results into round points.
package score

import (
	"time"

	"github.com/verte-zerg/hypertyper/internal/combo"
	"github.com/verte-zerg/hypertyper/internal/match"
)

// MaxSpeedBonus caps the characters-per-second bonus for one word.
const MaxSpeedBonus = 10

// State is the running round score.
type State struct {
	Points     int
	Words      int
	Attempts   int
	Chars      int
	Keystrokes int
	Errors     int
	LastPoints int
}

// Accuracy returns the share of keystrokes that were not errors.
func (s State) Accuracy() float64 {
	if s.Keystrokes == 0 {
		return 0
	}
	good := s.Keystrokes - s.Errors
	if good < 0 {
		good = 0
	}
	return float64(good) / float64(s.Keystrokes)
}

// Engine accumulates points for one round.
type Engine struct {
	state State
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{}
}

// State returns the current totals.
func (e *Engine) State() State {
	return e.state
}

// Record adds one result scored against the combo state in force when the
// word was completed.
func (e *Engine) Record(res match.Result, cs combo.State) State {
	e.state.Attempts++
	e.state.Keystrokes += res.Keystrokes
	e.state.Errors += res.Errors
	e.state.LastPoints = 0
	if res.Outcome != match.OutcomeCorrect {
		return e.state
	}
	pts := Points(res.Runes(), res.Elapsed, cs.Tier.Multiplier)
	e.state.Points += pts
	e.state.LastPoints = pts
	e.state.Words++
	e.state.Chars += res.Runes()
	return e.state
}

// Points computes the score for a correct word of n runes typed in elapsed
// time with a multiplier in tenths.
func Points(n int, elapsed time.Duration, multiplierTenths int) int {
	if n <= 0 || multiplierTenths <= 0 {
		return 0
	}
	return (n + SpeedBonus(n, elapsed)) * multiplierTenths / 10
}

// SpeedBonus returns whole characters per second, capped at MaxSpeedBonus.
func SpeedBonus(n int, elapsed time.Duration) int {
	if n <= 0 || elapsed <= 0 {
		return 0
	}
	cps := int(int64(n) * int64(time.Second) / int64(elapsed))
	if cps > MaxSpeedBonus {
		return MaxSpeedBonus
	}
	return cps
}
