// Package combo tracks streaks, multiplier tiers, and God Mode.
package combo

import (
	"strconv"

	"github.com/verte-zerg/hypertyper/internal/match"
)

// DefaultGodModeThreshold is the streak at which God Mode starts.
const DefaultGodModeThreshold = 12

// Tier is a multiplier band reached by streak length.
type Tier struct {
	Level int
	Name  string
	// MinStreak is the first streak value in the band.
	MinStreak int
	// Multiplier is held in tenths: 15 means 1.5x.
	Multiplier int
}

var baseTier = Tier{Level: 0, MinStreak: 0, Multiplier: 10}

// breakpoints below God Mode, in ascending order.
var breakpoints = []Tier{
	{Name: "FLOW STATE", MinStreak: 3, Multiplier: 15},
	{Name: "OVERCLOCKED", MinStreak: 5, Multiplier: 20},
	{Name: "SURGE", MinStreak: 7, Multiplier: 30},
	{Name: "UNSTOPPABLE", MinStreak: 10, Multiplier: 50},
}

const (
	godModeName       = "GOD MODE"
	godModeMultiplier = 80
)

// State is the combo snapshot after an update.
type State struct {
	Streak    int
	MaxStreak int
	Tier      Tier
	GodMode   bool
}

// Tracker owns the combo state for one round.
type Tracker struct {
	threshold int
	tiers     []Tier
	state     State
}

// New returns a tracker with the given God Mode threshold. Values below one
// fall back to DefaultGodModeThreshold.
func New(godModeThreshold int) *Tracker {
	if godModeThreshold < 1 {
		godModeThreshold = DefaultGodModeThreshold
	}
	t := &Tracker{threshold: godModeThreshold, tiers: ladder(godModeThreshold)}
	t.state.Tier = t.TierFor(0)
	return t
}

// Threshold returns the God Mode streak threshold.
func (t *Tracker) Threshold() int {
	return t.threshold
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Tiers returns the ladder in ascending order, base tier first.
func (t *Tracker) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}

// TierFor maps a streak to its tier.
func (t *Tracker) TierFor(streak int) Tier {
	tier := t.tiers[0]
	for _, candidate := range t.tiers[1:] {
		if streak < candidate.MinStreak {
			break
		}
		tier = candidate
	}
	return tier
}

// Update applies a match result. Incomplete results leave the state as is.
func (t *Tracker) Update(res match.Result) State {
	switch res.Outcome {
	case match.OutcomeCorrect:
		streak := t.state.Streak + 1
		maxStreak := t.state.MaxStreak
		if streak > maxStreak {
			maxStreak = streak
		}
		t.state = State{
			Streak:    streak,
			MaxStreak: maxStreak,
			Tier:      t.TierFor(streak),
			GodMode:   t.state.GodMode || streak >= t.threshold,
		}
	case match.OutcomeIncorrect:
		t.state = State{
			MaxStreak: t.state.MaxStreak,
			Tier:      t.TierFor(0),
		}
	}
	return t.state
}

// TierUp reports whether moving from prev to next entered a higher tier.
func TierUp(prev, next State) bool {
	return next.Tier.Level > prev.Tier.Level
}

// ladder builds the tier list for a threshold. Fixed breakpoints at or above
// the threshold are replaced by God Mode.
func ladder(threshold int) []Tier {
	tiers := []Tier{baseTier}
	for _, bp := range breakpoints {
		if bp.MinStreak >= threshold {
			break
		}
		bp.Level = len(tiers)
		tiers = append(tiers, bp)
	}
	return append(tiers, Tier{
		Level:      len(tiers),
		Name:       godModeName,
		MinStreak:  threshold,
		Multiplier: godModeMultiplier,
	})
}

// Label formats a tier as "NAME (Nx)", or "" for the base tier.
func (tr Tier) Label() string {
	if tr.Name == "" {
		return ""
	}
	return tr.Name + " (" + FormatMultiplier(tr.Multiplier) + ")"
}

// FormatMultiplier renders tenths as "1.5x" or "8x".
func FormatMultiplier(tenths int) string {
	whole := tenths / 10
	frac := tenths % 10
	if frac == 0 {
		return strconv.Itoa(whole) + "x"
	}
	return strconv.Itoa(whole) + "." + strconv.Itoa(frac) + "x"
}
