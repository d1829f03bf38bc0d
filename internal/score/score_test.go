package score

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/hypertyper/internal/combo"
	"github.com/verte-zerg/hypertyper/internal/match"
	"github.com/verte-zerg/hypertyper/internal/model"
)

type step struct {
	res match.Result
	cs  combo.State
}

func randomSteps(seed int64, n int) []step {
	rnd := rand.New(rand.NewSource(seed))
	words := []string{"cat", "giraffe", "Buenos Aires", "defer f.Close()"}
	tracker := combo.New(combo.DefaultGodModeThreshold)
	steps := make([]step, 0, n)
	for i := 0; i < n; i++ {
		outcome := match.OutcomeCorrect
		switch rnd.Intn(6) {
		case 0:
			outcome = match.OutcomeIncorrect
		case 1:
			outcome = match.OutcomeIncomplete
		}
		res := match.Result{
			Challenge:  model.Challenge{Text: words[rnd.Intn(len(words))]},
			Outcome:    outcome,
			Elapsed:    time.Duration(rnd.Intn(4000)) * time.Millisecond,
			Keystrokes: rnd.Intn(20),
		}
		res.Errors = rnd.Intn(res.Keystrokes + 1)
		steps = append(steps, step{res: res, cs: tracker.State()})
		tracker.Update(res)
	}
	return steps
}

func TestPointsAreNonDecreasing(t *testing.T) {
	e := New()
	prev := e.State()
	for _, s := range randomSteps(3, 300) {
		next := e.Record(s.res, s.cs)
		if next.Points < prev.Points {
			t.Fatalf("points decreased from %d to %d", prev.Points, next.Points)
		}
		prev = next
	}
}

func TestRecordIsDeterministic(t *testing.T) {
	steps := randomSteps(11, 200)
	a, b := New(), New()
	for _, s := range steps {
		a.Record(s.res, s.cs)
		b.Record(s.res, s.cs)
	}
	if diff := cmp.Diff(a.State(), b.State()); diff != "" {
		t.Fatalf("runs diverged (-a +b):\n%s", diff)
	}
}

func TestPointsFormula(t *testing.T) {
	// 5 runes in one second: 5 cps bonus, 1.5x.
	assert.Equal(t, 15, Points(5, time.Second, 15))
	// Bonus is capped.
	assert.Equal(t, (4+MaxSpeedBonus)*8, Points(4, time.Millisecond, 80))
	// No elapsed time, no bonus.
	assert.Equal(t, 3, Points(3, 0, 10))
	// Integer tenths truncate like the original int(len*mult).
	assert.Equal(t, 4, Points(3, 0, 15))
	assert.Equal(t, 0, Points(0, time.Second, 80))
}

func TestRecordCountsMisses(t *testing.T) {
	e := New()
	cs := combo.New(0).State()
	state := e.Record(match.Result{
		Challenge:  model.Challenge{Text: "dog"},
		Outcome:    match.OutcomeIncorrect,
		Keystrokes: 2,
		Errors:     1,
	}, cs)
	assert.Equal(t, 0, state.Points)
	assert.Equal(t, 0, state.Words)
	assert.Equal(t, 1, state.Attempts)
	assert.InDelta(t, 0.5, state.Accuracy(), 1e-9)

	state = e.Record(match.Result{
		Challenge:  model.Challenge{Text: "dog"},
		Outcome:    match.OutcomeCorrect,
		Elapsed:    3 * time.Second,
		Keystrokes: 3,
	}, cs)
	assert.Equal(t, 4, state.Points)
	assert.Equal(t, 4, state.LastPoints)
	assert.Equal(t, 1, state.Words)
	assert.Equal(t, 3, state.Chars)
	assert.Equal(t, 2, state.Attempts)
}
