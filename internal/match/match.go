// Package match compares keystrokes against the current challenge.
package match

import (
	"errors"
	"time"
	"unicode"

	"github.com/verte-zerg/hypertyper/internal/model"
)

// ErrInvalidInputEvent is returned for events the matcher ignores.
var ErrInvalidInputEvent = errors.New("invalid input event")

// State is the live comparison state.
type State int

// Match states.
const (
	Pending State = iota
	Correct
	Incorrect
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// Outcome is the final verdict on a challenge.
type Outcome int

// Outcomes.
const (
	OutcomeCorrect Outcome = iota
	OutcomeIncorrect
	OutcomeIncomplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeIncomplete:
		return "incomplete"
	default:
		return "unknown"
	}
}

// EventKind classifies an input event.
type EventKind int

// Event kinds.
const (
	KeyRune EventKind = iota
	KeyBackspace
	KeySubmit
)

// Event is a single keystroke.
type Event struct {
	Kind EventKind
	Rune rune
	At   time.Time
}

// Result is the outcome of one challenge.
type Result struct {
	Challenge  model.Challenge
	Outcome    Outcome
	Elapsed    time.Duration
	Keystrokes int
	Errors     int
}

// Runes returns the challenge length in runes.
func (r Result) Runes() int {
	return len([]rune(r.Challenge.Text))
}

// Matcher tracks input for one challenge. It is not safe for concurrent use.
type Matcher struct {
	challenge   model.Challenge
	target      []rune
	input       []rune
	corrections bool

	state    State
	terminal bool
	badAt    int

	startedAt  time.Time
	endedAt    time.Time
	keystrokes int
	errors     int
	result     *Result
}

// New returns a matcher for ch. With corrections enabled a mismatch can be
// undone with backspace instead of failing the challenge.
func New(ch model.Challenge, corrections bool) *Matcher {
	return &Matcher{
		challenge:   ch,
		target:      []rune(ch.Text),
		corrections: corrections,
		badAt:       -1,
	}
}

// Challenge returns the challenge being matched.
func (m *Matcher) Challenge() model.Challenge {
	return m.challenge
}

// State returns the current state.
func (m *Matcher) State() State {
	return m.state
}

// Done reports whether the matcher reached a terminal state.
func (m *Matcher) Done() bool {
	return m.terminal
}

// Input returns a copy of the accepted input.
func (m *Matcher) Input() []rune {
	return append([]rune(nil), m.input...)
}

// Target returns the challenge runes.
func (m *Matcher) Target() []rune {
	return m.target
}

// ErrorAt returns the position of an uncorrected mismatch, or -1.
func (m *Matcher) ErrorAt() int {
	return m.badAt
}

// Result returns the outcome once the matcher is done.
func (m *Matcher) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// Feed applies one event and returns the resulting state.
func (m *Matcher) Feed(ev Event) (State, error) {
	if m.terminal {
		return m.state, nil
	}
	switch ev.Kind {
	case KeyRune:
		if unicode.IsControl(ev.Rune) || ev.Rune == unicode.ReplacementChar {
			return m.state, ErrInvalidInputEvent
		}
		m.mark(ev.At)
		m.keystrokes++
		return m.feedRune(ev), nil
	case KeyBackspace:
		if !m.corrections {
			return m.state, ErrInvalidInputEvent
		}
		m.mark(ev.At)
		m.backspace()
		return m.state, nil
	case KeySubmit:
		// Nothing typed yet: a stray Enter after an auto-completed word.
		if len(m.input) == 0 {
			return m.state, ErrInvalidInputEvent
		}
		m.mark(ev.At)
		if len(m.input) == len(m.target) && m.badAt < 0 {
			m.finish(Correct, OutcomeCorrect, ev.At)
			return m.state, nil
		}
		if m.badAt < 0 {
			m.errors++
		}
		m.finish(Incorrect, OutcomeIncorrect, ev.At)
		return m.state, nil
	default:
		return m.state, ErrInvalidInputEvent
	}
}

// Abandon ends the challenge without a verdict, e.g. on clock expiry.
func (m *Matcher) Abandon(at time.Time) Result {
	if !m.terminal {
		m.mark(at)
		m.finish(m.state, OutcomeIncomplete, at)
	}
	return *m.result
}

func (m *Matcher) feedRune(ev Event) State {
	if m.badAt >= 0 {
		// Blocked until the mistake is erased.
		m.errors++
		return m.state
	}
	pos := len(m.input)
	if pos >= len(m.target) || m.target[pos] != ev.Rune {
		m.errors++
		if !m.corrections {
			m.finish(Incorrect, OutcomeIncorrect, ev.At)
			return m.state
		}
		m.input = append(m.input, ev.Rune)
		m.badAt = pos
		m.state = Incorrect
		return m.state
	}
	m.input = append(m.input, ev.Rune)
	if len(m.input) == len(m.target) {
		m.finish(Correct, OutcomeCorrect, ev.At)
	}
	return m.state
}

func (m *Matcher) backspace() {
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
	if m.badAt >= len(m.input) {
		m.badAt = -1
		m.state = Pending
	}
}

func (m *Matcher) mark(at time.Time) {
	if m.startedAt.IsZero() {
		m.startedAt = at
	}
}

func (m *Matcher) finish(state State, outcome Outcome, at time.Time) {
	m.state = state
	m.terminal = true
	m.endedAt = at
	elapsed := time.Duration(0)
	if !m.startedAt.IsZero() && m.endedAt.After(m.startedAt) {
		elapsed = m.endedAt.Sub(m.startedAt)
	}
	m.result = &Result{
		Challenge:  m.challenge,
		Outcome:    outcome,
		Elapsed:    elapsed,
		Keystrokes: m.keystrokes,
		Errors:     m.errors,
	}
}
