package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/hypertyper/internal/model"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func typeString(t *testing.T, m *Matcher, s string, start time.Time, step time.Duration) State {
	t.Helper()
	state := m.State()
	at := start
	for _, r := range s {
		var err error
		state, err = m.Feed(Event{Kind: KeyRune, Rune: r, At: at})
		require.NoError(t, err)
		at = at.Add(step)
	}
	return state
}

func TestCorrectCompletion(t *testing.T) {
	m := New(model.Challenge{Text: "cat", Mode: "streak"}, false)
	state := typeString(t, m, "ca", t0, 100*time.Millisecond)
	assert.Equal(t, Pending, state)
	assert.False(t, m.Done())

	state, err := m.Feed(Event{Kind: KeyRune, Rune: 't', At: t0.Add(500 * time.Millisecond)})
	require.NoError(t, err)
	assert.Equal(t, Correct, state)

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.Equal(t, 500*time.Millisecond, res.Elapsed)
	assert.Equal(t, 3, res.Keystrokes)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 3, res.Runes())
}

func TestMismatchIsTerminalWithoutCorrections(t *testing.T) {
	m := New(model.Challenge{Text: "dog"}, false)
	state := typeString(t, m, "dx", t0, time.Millisecond)
	assert.Equal(t, Incorrect, state)
	assert.True(t, m.Done())

	// Later input is ignored.
	state, err := m.Feed(Event{Kind: KeyRune, Rune: 'g', At: t0})
	require.NoError(t, err)
	assert.Equal(t, Incorrect, state)

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
	assert.Equal(t, 1, res.Errors)
}

func TestCorrectionRevertsToPending(t *testing.T) {
	m := New(model.Challenge{Text: "dog"}, true)
	state := typeString(t, m, "dx", t0, time.Millisecond)
	assert.Equal(t, Incorrect, state)
	assert.False(t, m.Done())
	assert.Equal(t, 1, m.ErrorAt())

	// Blocked while the mistake stands.
	state = typeString(t, m, "g", t0, time.Millisecond)
	assert.Equal(t, Incorrect, state)
	assert.Equal(t, []rune("dx"), m.Input())

	state, err := m.Feed(Event{Kind: KeyBackspace, At: t0})
	require.NoError(t, err)
	assert.Equal(t, Pending, state)
	assert.Equal(t, -1, m.ErrorAt())

	state = typeString(t, m, "og", t0.Add(time.Second), time.Millisecond)
	assert.Equal(t, Correct, state)
	res, _ := m.Result()
	assert.Equal(t, OutcomeCorrect, res.Outcome)
	assert.Equal(t, 2, res.Errors)
	assert.Equal(t, 5, res.Keystrokes)
}

func TestInvalidEventsLeaveStateUnchanged(t *testing.T) {
	m := New(model.Challenge{Text: "ab"}, false)
	typeString(t, m, "a", t0, time.Millisecond)

	for _, ev := range []Event{
		{Kind: KeyRune, Rune: '\x1b', At: t0},
		{Kind: KeyRune, Rune: '\u0007', At: t0},
		{Kind: KeyBackspace, At: t0},
		{Kind: EventKind(99), At: t0},
	} {
		state, err := m.Feed(ev)
		assert.ErrorIs(t, err, ErrInvalidInputEvent)
		assert.Equal(t, Pending, state)
	}
	assert.Equal(t, []rune("a"), m.Input())
}

func TestSubmitShortInputIsIncorrect(t *testing.T) {
	m := New(model.Challenge{Text: "Paris"}, false)
	typeString(t, m, "Par", t0, time.Millisecond)
	state, err := m.Feed(Event{Kind: KeySubmit, At: t0.Add(time.Second)})
	require.NoError(t, err)
	assert.Equal(t, Incorrect, state)
	res, _ := m.Result()
	assert.Equal(t, OutcomeIncorrect, res.Outcome)
	assert.Equal(t, 1, res.Errors)
}

func TestSubmitEmptyInputIsIgnored(t *testing.T) {
	m := New(model.Challenge{Text: "Paris"}, false)
	state, err := m.Feed(Event{Kind: KeySubmit, At: t0})
	require.ErrorIs(t, err, ErrInvalidInputEvent)
	assert.Equal(t, Pending, state)
	assert.False(t, m.Done())

	state = typeString(t, m, "Paris", t0.Add(time.Second), time.Millisecond)
	assert.Equal(t, Correct, state)
	res, _ := m.Result()
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 4*time.Millisecond, res.Elapsed)
}

func TestAbandonYieldsIncomplete(t *testing.T) {
	m := New(model.Challenge{Text: "giraffe"}, false)
	typeString(t, m, "gir", t0, 100*time.Millisecond)
	res := m.Abandon(t0.Add(time.Second))
	assert.Equal(t, OutcomeIncomplete, res.Outcome)
	assert.Equal(t, time.Second, res.Elapsed)
	assert.True(t, m.Done())

	again := m.Abandon(t0.Add(2 * time.Second))
	assert.Equal(t, res, again)
}

func TestMultiByteTarget(t *testing.T) {
	m := New(model.Challenge{Text: "niño"}, false)
	state := typeString(t, m, "niño", t0, time.Millisecond)
	assert.Equal(t, Correct, state)
}
