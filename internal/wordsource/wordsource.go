// Package wordsource issues the challenge sequence for a round.
package wordsource

import (
	"errors"
	"math/rand"
	"time"

	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
)

// DefaultLookback is the number of recent challenges that will not repeat.
const DefaultLookback = 5

// ErrExhaustedSource is returned when no further challenge can be issued.
var ErrExhaustedSource = errors.New("word source exhausted")

// Source produces challenges for one mode.
type Source struct {
	mode     mode.Mode
	order    mode.Order
	words    []string
	lookback int

	rnd    *rand.Rand
	seed   int64
	next   int
	issued int
	recent []int
}

// Option customizes a Source.
type Option func(*Source)

// WithSeed fixes the random seed so sequences are reproducible.
func WithSeed(seed int64) Option {
	return func(s *Source) {
		s.seed = seed
	}
}

// WithLookback sets the no-repeat window. Negative values are treated as zero.
func WithLookback(n int) Option {
	return func(s *Source) {
		if n < 0 {
			n = 0
		}
		s.lookback = n
	}
}

// New returns a Source over words for m. It fails with ErrExhaustedSource
// when words is empty.
func New(m mode.Mode, words []string, opts ...Option) (*Source, error) {
	if len(words) == 0 {
		return nil, ErrExhaustedSource
	}
	spec := m.Spec()
	s := &Source{
		mode:     m,
		order:    spec.Order,
		lookback: DefaultLookback,
		seed:     time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.order == mode.Random {
		s.words = dedupe(words)
	} else {
		s.words = append([]string(nil), words...)
	}
	s.Reset()
	return s, nil
}

// Mode returns the mode this source serves.
func (s *Source) Mode() mode.Mode {
	return s.mode
}

// Len returns the number of distinct entries available.
func (s *Source) Len() int {
	return len(s.words)
}

// Reset restarts the sequence from the beginning with the original seed.
func (s *Source) Reset() {
	s.rnd = rand.New(rand.NewSource(s.seed))
	s.next = 0
	s.issued = 0
	s.recent = s.recent[:0]
}

// Next issues the next challenge.
func (s *Source) Next() (model.Challenge, error) {
	var idx int
	switch s.order {
	case mode.Sequential:
		if s.next >= len(s.words) {
			return model.Challenge{}, ErrExhaustedSource
		}
		idx = s.next
		s.next++
	default:
		idx = s.pickRandom()
	}
	ch := model.Challenge{
		Text:  s.words[idx],
		Mode:  s.mode.String(),
		Index: s.issued,
	}
	s.issued++
	return ch, nil
}

func (s *Source) pickRandom() int {
	window := s.lookback
	if window <= 0 || len(s.words) <= window {
		return s.rnd.Intn(len(s.words))
	}
	excluded := make(map[int]struct{}, len(s.recent))
	for _, idx := range s.recent {
		excluded[idx] = struct{}{}
	}
	pick := s.rnd.Intn(len(s.words) - len(excluded))
	idx := 0
	for i := range s.words {
		if _, skip := excluded[i]; skip {
			continue
		}
		if pick == 0 {
			idx = i
			break
		}
		pick--
	}
	s.recent = append(s.recent, idx)
	if len(s.recent) > window {
		s.recent = s.recent[len(s.recent)-window:]
	}
	return idx
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
