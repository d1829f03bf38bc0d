// Package mode defines the closed set of game modes.
package mode

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode identifies a game mode. The zero value is Streak.
type Mode int

// Game modes in menu order.
const (
	Streak Mode = iota
	Cities
	Food
	Animals
	Lorem
	CodeSnippets
	TerminalCommands
	Brainrot
	UwU
	LinkedIn
	Spanish
	Pokemon
)

// Order controls how a word source walks its list.
type Order int

const (
	// Random picks entries uniformly, avoiding recent repeats.
	Random Order = iota
	// Sequential issues entries in file order and then runs dry.
	Sequential
)

// Spec is the word source and round configuration carried by a mode.
type Spec struct {
	Name string
	// Key is the stable identifier used on the command line and in the store.
	Key  string
	File string
	// Exact keeps list entries verbatim (case, punctuation, spaces).
	Exact bool
	Order Order
	// Timed rounds run against the round clock.
	Timed bool
	// SuddenDeath rounds end on the first incorrect word.
	SuddenDeath bool
}

var specs = [...]Spec{
	Streak:           {Name: "Streak", Key: "streak", File: "words.txt", SuddenDeath: true},
	Cities:           {Name: "Cities", Key: "cities", File: "capitals.txt", Exact: true, Timed: true},
	Food:             {Name: "Food", Key: "food", File: "foods.txt", Timed: true},
	Animals:          {Name: "Animals", Key: "animals", File: "animals.txt", Timed: true},
	Lorem:            {Name: "Lorem Ipsum", Key: "lorem", File: "lorem.txt", Order: Sequential, Timed: true},
	CodeSnippets:     {Name: "Code Snippets", Key: "code", File: "code.txt", Exact: true, Timed: true},
	TerminalCommands: {Name: "Terminal Commands", Key: "terminal", File: "terminal.txt", Exact: true, Timed: true},
	Brainrot:         {Name: "Brainrot", Key: "brainrot", File: "brainrot.txt", Exact: true, Timed: true},
	UwU:              {Name: "UwU", Key: "uwu", File: "uwu.txt", Exact: true, Timed: true},
	LinkedIn:         {Name: "LinkedIn Jargon", Key: "linkedin", File: "linkedin.txt", Exact: true, Timed: true},
	Spanish:          {Name: "Spanish", Key: "spanish", File: "spanish.txt", Timed: true},
	Pokemon:          {Name: "Pokemon", Key: "pokemon", File: "pokemon.txt", Timed: true},
}

// All returns every mode in menu order.
func All() []Mode {
	out := make([]Mode, len(specs))
	for i := range specs {
		out[i] = Mode(i)
	}
	return out
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < len(specs)
}

// Spec returns the configuration for m. Unknown modes panic.
func (m Mode) Spec() Spec {
	if !m.Valid() {
		panic(fmt.Sprintf("mode: unknown mode %d", int(m)))
	}
	return specs[m]
}

// String returns the stable key.
func (m Mode) String() string {
	if !m.Valid() {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return specs[m].Key
}

// Parse resolves a key, display name, or 1-based menu number.
func Parse(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("mode must not be empty")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(specs) {
			return 0, fmt.Errorf("mode number %d out of range (1-%d)", n, len(specs))
		}
		return Mode(n - 1), nil
	}
	for i, spec := range specs {
		if strings.EqualFold(s, spec.Key) || strings.EqualFold(s, spec.Name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (available: %s)", s, strings.Join(Keys(), ", "))
}

// Keys returns the keys of all modes in menu order.
func Keys() []string {
	keys := make([]string, len(specs))
	for i, spec := range specs {
		keys[i] = spec.Key
	}
	return keys
}
