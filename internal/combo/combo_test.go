package combo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hypertyper/internal/match"
)

var (
	correct    = match.Result{Outcome: match.OutcomeCorrect}
	incorrect  = match.Result{Outcome: match.OutcomeIncorrect}
	incomplete = match.Result{Outcome: match.OutcomeIncomplete}
)

func TestCorrectRunIsMonotonic(t *testing.T) {
	tr := New(DefaultGodModeThreshold)
	prev := tr.State()
	for i := 1; i <= 30; i++ {
		next := tr.Update(correct)
		require.Equal(t, prev.Streak+1, next.Streak)
		require.GreaterOrEqual(t, next.Tier.Level, prev.Tier.Level)
		require.GreaterOrEqual(t, next.Tier.Multiplier, prev.Tier.Multiplier)
		prev = next
	}
	assert.Equal(t, 30, prev.MaxStreak)
}

func TestDefaultLadder(t *testing.T) {
	tr := New(0)
	assert.Equal(t, DefaultGodModeThreshold, tr.Threshold())
	cases := []struct {
		streak     int
		name       string
		multiplier int
	}{
		{0, "", 10},
		{2, "", 10},
		{3, "FLOW STATE", 15},
		{4, "FLOW STATE", 15},
		{5, "OVERCLOCKED", 20},
		{7, "SURGE", 30},
		{9, "SURGE", 30},
		{10, "UNSTOPPABLE", 50},
		{11, "UNSTOPPABLE", 50},
		{12, "GOD MODE", 80},
		{40, "GOD MODE", 80},
	}
	for _, tc := range cases {
		tier := tr.TierFor(tc.streak)
		assert.Equal(t, tc.name, tier.Name, "streak %d", tc.streak)
		assert.Equal(t, tc.multiplier, tier.Multiplier, "streak %d", tc.streak)
	}
}

func TestIncorrectResetsEverything(t *testing.T) {
	for _, run := range []int{0, 1, 4, 12, 25} {
		tr := New(DefaultGodModeThreshold)
		for i := 0; i < run; i++ {
			tr.Update(correct)
		}
		state := tr.Update(incorrect)
		assert.Equal(t, 0, state.Streak)
		assert.False(t, state.GodMode)
		assert.Equal(t, 0, state.Tier.Level)
		assert.Equal(t, 10, state.Tier.Multiplier)
		assert.Equal(t, run, state.MaxStreak)
	}
}

func TestGodModeAtThresholdTen(t *testing.T) {
	tr := New(10)
	for i := 1; i <= 9; i++ {
		state := tr.Update(correct)
		require.False(t, state.GodMode, "god mode early at streak %d", i)
	}
	state := tr.Update(correct)
	assert.Equal(t, 10, state.Streak)
	assert.True(t, state.GodMode)
	assert.Equal(t, "GOD MODE", state.Tier.Name)

	state = tr.Update(correct)
	assert.True(t, state.GodMode)
	assert.Equal(t, 11, state.Streak)

	state = tr.Update(incorrect)
	assert.False(t, state.GodMode)
	assert.Equal(t, 0, state.Streak)
}

func TestIncompleteKeepsState(t *testing.T) {
	tr := New(DefaultGodModeThreshold)
	tr.Update(correct)
	tr.Update(correct)
	before := tr.State()
	after := tr.Update(incomplete)
	assert.Equal(t, before, after)
}

func TestTierUp(t *testing.T) {
	tr := New(DefaultGodModeThreshold)
	var ups []int
	prev := tr.State()
	for i := 1; i <= 12; i++ {
		next := tr.Update(correct)
		if TierUp(prev, next) {
			ups = append(ups, next.Streak)
		}
		prev = next
	}
	assert.Equal(t, []int{3, 5, 7, 10, 12}, ups)
}

func TestLabel(t *testing.T) {
	tr := New(DefaultGodModeThreshold)
	assert.Equal(t, "", tr.TierFor(0).Label())
	assert.Equal(t, "FLOW STATE (1.5x)", tr.TierFor(3).Label())
	assert.Equal(t, "GOD MODE (8x)", tr.TierFor(12).Label())
}
