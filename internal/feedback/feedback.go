// Package feedback delivers game events to a side channel without blocking
// the input path.
package feedback

import (
	"io"
	"log/slog"
	"sync"
)

// Event is a feedback cue.
type Event int

// Cues emitted by the game.
const (
	Splash Event = iota
	Countdown
	Correct
	LevelUp
	GameOver
	Victory
)

func (e Event) String() string {
	switch e {
	case Splash:
		return "splash"
	case Countdown:
		return "countdown"
	case Correct:
		return "correct"
	case LevelUp:
		return "levelup"
	case GameOver:
		return "gameover"
	case Victory:
		return "victory"
	default:
		return "unknown"
	}
}

// Emitter accepts cues. Emit must not block.
type Emitter interface {
	Emit(Event)
}

// Sink consumes cues on the dispatcher goroutine.
type Sink interface {
	Handle(Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

// Handle calls f.
func (f SinkFunc) Handle(e Event) error {
	return f(e)
}

// Nop drops every cue.
type Nop struct{}

// Emit does nothing.
func (Nop) Emit(Event) {}

const defaultBuffer = 16

// Dispatcher forwards cues to a sink from its own goroutine. Cues are
// dropped when the buffer is full.
type Dispatcher struct {
	events  chan Event
	sink    Sink
	logger  *slog.Logger
	enabled bool

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher starts a dispatcher. A nil logger discards.
func NewDispatcher(sink Sink, enabled bool, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := &Dispatcher{
		events:  make(chan Event, defaultBuffer),
		sink:    sink,
		logger:  logger,
		enabled: enabled,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// SetEnabled toggles delivery.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	d.enabled = enabled
	d.mu.Unlock()
}

// Emit queues a cue without blocking.
func (d *Dispatcher) Emit(e Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed || !d.enabled {
		return
	}
	select {
	case d.events <- e:
	default:
		d.logger.Debug("feedback dropped", "event", e.String())
	}
}

// Close stops the dispatcher after draining queued cues.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for e := range d.events {
		if err := d.sink.Handle(e); err != nil {
			d.logger.Debug("feedback sink failed", "event", e.String(), "err", err)
		}
	}
}

// Bell rings the terminal bell for the cues that matter most.
type Bell struct {
	W io.Writer
}

// Handle writes BEL for level-up, game-over, and victory cues.
func (b Bell) Handle(e Event) error {
	switch e {
	case LevelUp, GameOver, Victory:
		_, err := b.W.Write([]byte{'\a'})
		return err
	default:
		return nil
	}
}
