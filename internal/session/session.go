// Package session runs one round of the game as an explicit state machine.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/hypertyper/internal/clock"
	"github.com/verte-zerg/hypertyper/internal/combo"
	"github.com/verte-zerg/hypertyper/internal/feedback"
	"github.com/verte-zerg/hypertyper/internal/match"
	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/score"
	"github.com/verte-zerg/hypertyper/internal/wordsource"
)

// State is the controller lifecycle state.
type State int

// Controller states.
const (
	Idle State = iota
	InProgress
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in-progress"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidTransition is returned when an operation does not fit the
	// current state.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrPaused is returned for input while the round is paused.
	ErrPaused = errors.New("session paused")
)

// LeaderboardWriteError reports a failed commit. The round stays ended and
// the record is kept for RetryCommit.
type LeaderboardWriteError struct {
	Record model.SessionRecord
	Err    error
}

func (e *LeaderboardWriteError) Error() string {
	return fmt.Sprintf("failed to save score %d for %s: %v", e.Record.Score, e.Record.Mode, e.Err)
}

func (e *LeaderboardWriteError) Unwrap() error {
	return e.Err
}

// ChallengeSource issues challenges.
type ChallengeSource interface {
	Next() (model.Challenge, error)
}

// Leaderboard persists records and answers best-score lookups.
type Leaderboard interface {
	InsertRecord(ctx context.Context, rec model.SessionRecord) (rank int, id string, err error)
	Best(ctx context.Context, mode string) (model.LeaderboardEntry, bool, error)
	SetPlayer(ctx context.Context, id, player string) error
}

// Config holds per-round settings.
type Config struct {
	Mode             mode.Mode
	Player           string
	Corrections      bool
	GodModeThreshold int
}

// Deps are the collaborators of a controller. Source, Clock, and Board are
// required.
type Deps struct {
	Source   ChallengeSource
	Clock    *clock.RoundClock
	Board    Leaderboard
	Feedback feedback.Emitter
	Logger   *slog.Logger
	// NewID generates record IDs. Defaults to random UUIDs.
	NewID func() string
}

// Step describes what happened after one input or tick.
type Step struct {
	Match     match.State
	Result    *match.Result
	Combo     combo.State
	Score     score.State
	Remaining clock.Remaining
	TierUp    bool
	Ended     bool
}

// Controller drives one round. It is not safe for concurrent use; the UI
// loop feeds it keystrokes and ticks in turn.
type Controller struct {
	cfg    Config
	spec   mode.Spec
	source ChallengeSource
	clock  *clock.RoundClock
	board  Leaderboard
	fb     feedback.Emitter
	logger *slog.Logger
	newID  func() string

	state   State
	matcher *match.Matcher
	combo   *combo.Tracker
	score   *score.Engine

	best    model.LeaderboardEntry
	hasBest bool

	record    *model.SessionRecord
	committed bool
	rank      int
	commitErr error
}

// New returns an idle controller.
func New(cfg Config, deps Deps) (*Controller, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("unknown mode %d", int(cfg.Mode))
	}
	if deps.Source == nil || deps.Clock == nil || deps.Board == nil {
		return nil, fmt.Errorf("session requires a source, clock, and leaderboard")
	}
	if deps.Feedback == nil {
		deps.Feedback = feedback.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Controller{
		cfg:    cfg,
		spec:   cfg.Mode.Spec(),
		source: deps.Source,
		clock:  deps.Clock,
		board:  deps.Board,
		fb:     deps.Feedback,
		logger: deps.Logger.With("mode", cfg.Mode.String()),
		newID:  deps.NewID,
		combo:  combo.New(cfg.GodModeThreshold),
		score:  score.New(),
	}, nil
}

// Start moves Idle to InProgress and issues the first challenge.
func (c *Controller) Start(ctx context.Context) error {
	if c.state != Idle {
		return ErrInvalidTransition
	}
	best, ok, err := c.board.Best(ctx, c.cfg.Mode.String())
	if err != nil {
		c.logger.Warn("failed to load best score", "err", err)
	} else {
		c.best, c.hasBest = best, ok
	}
	c.state = InProgress
	c.clock.Start()
	c.logger.Info("round started", "timed", c.clock.Timed(), "limit", c.clock.Limit())
	if err := c.issue(); err != nil {
		if errors.Is(err, wordsource.ErrExhaustedSource) {
			return c.end(ctx, model.EndExhausted)
		}
		return err
	}
	return nil
}

// Feed applies one keystroke. Invalid keystrokes are ignored. A non-nil
// error is either ErrInvalidTransition, ErrPaused, or a
// *LeaderboardWriteError from the end of the round.
func (c *Controller) Feed(ctx context.Context, ev match.Event) (Step, error) {
	if c.state != InProgress {
		return c.step(), ErrInvalidTransition
	}
	if c.clock.Paused() {
		return c.step(), ErrPaused
	}
	if c.clock.IsExpired() {
		err := c.end(ctx, model.EndExpired)
		return c.step(), err
	}
	if ev.At.IsZero() {
		ev.At = c.clock.Now()
	}
	if _, err := c.matcher.Feed(ev); err != nil {
		c.logger.Debug("ignored input", "kind", ev.Kind, "rune", ev.Rune, "err", err)
		return c.step(), nil
	}
	if !c.matcher.Done() {
		return c.step(), nil
	}
	res, _ := c.matcher.Result()
	return c.resolve(ctx, res)
}

// Tick checks the round clock and ends an expired round mid-challenge.
func (c *Controller) Tick(ctx context.Context) (Step, error) {
	if c.state != InProgress {
		return c.step(), nil
	}
	if c.clock.IsExpired() {
		err := c.end(ctx, model.EndExpired)
		return c.step(), err
	}
	return c.step(), nil
}

// Quit ends the round at the player's request.
func (c *Controller) Quit(ctx context.Context) (Step, error) {
	switch c.state {
	case Idle:
		return c.step(), ErrInvalidTransition
	case Ended:
		return c.step(), nil
	}
	err := c.end(ctx, model.EndQuit)
	return c.step(), err
}

// Pause freezes the round clock.
func (c *Controller) Pause() {
	if c.state == InProgress {
		c.clock.Pause()
	}
}

// Resume restarts the round clock after Pause.
func (c *Controller) Resume() {
	if c.state == InProgress {
		c.clock.Resume()
	}
}

// Paused reports whether the round is paused.
func (c *Controller) Paused() bool {
	return c.clock.Paused()
}

// RetryCommit saves a record whose first commit failed.
func (c *Controller) RetryCommit(ctx context.Context) error {
	if c.state != Ended || c.record == nil {
		return ErrInvalidTransition
	}
	if c.committed {
		return nil
	}
	return c.commit(ctx)
}

// Rename sets the player on the ended round's record. A saved record is
// updated in place; an unsaved one carries the name into RetryCommit.
func (c *Controller) Rename(ctx context.Context, player string) error {
	if c.state != Ended || c.record == nil {
		return ErrInvalidTransition
	}
	if player == "" || player == c.record.Player {
		return nil
	}
	if c.committed {
		if err := c.board.SetPlayer(ctx, c.record.ID, player); err != nil {
			return fmt.Errorf("failed to rename record: %w", err)
		}
	}
	c.logger.Info("record renamed", "id", c.record.ID, "player", player)
	c.record.Player = player
	return nil
}

func (c *Controller) resolve(ctx context.Context, res match.Result) (Step, error) {
	prev := c.combo.State()
	c.score.Record(res, prev)
	next := c.combo.Update(res)
	tierUp := combo.TierUp(prev, next)

	switch res.Outcome {
	case match.OutcomeCorrect:
		c.fb.Emit(feedback.Correct)
		if tierUp {
			c.fb.Emit(feedback.LevelUp)
		}
	case match.OutcomeIncorrect:
		c.logger.Debug("challenge failed", "text", res.Challenge.Text, "streak", prev.Streak)
		if c.spec.SuddenDeath {
			err := c.end(ctx, model.EndFailed)
			return c.resolved(&res, tierUp), err
		}
	}

	if err := c.issue(); err != nil {
		if errors.Is(err, wordsource.ErrExhaustedSource) {
			err = c.end(ctx, model.EndExhausted)
			return c.resolved(&res, tierUp), err
		}
		return c.resolved(&res, tierUp), err
	}
	return c.resolved(&res, tierUp), nil
}

func (c *Controller) issue() error {
	ch, err := c.source.Next()
	if err != nil {
		return err
	}
	c.matcher = match.New(ch, c.cfg.Corrections)
	return nil
}

func (c *Controller) end(ctx context.Context, reason model.EndReason) error {
	if c.state == Ended {
		return nil
	}
	if c.matcher != nil && !c.matcher.Done() {
		c.matcher.Abandon(c.clock.Now())
	}
	c.state = Ended

	sc := c.score.State()
	cs := c.combo.State()
	endedAt := c.clock.Now()
	elapsed := c.clock.Elapsed()
	c.record = &model.SessionRecord{
		ID:         c.newID(),
		Mode:       c.cfg.Mode.String(),
		Player:     c.cfg.Player,
		Score:      sc.Points,
		MaxStreak:  cs.MaxStreak,
		Words:      sc.Words,
		Chars:      sc.Chars,
		Attempts:   sc.Attempts,
		Keystrokes: sc.Keystrokes,
		Errors:     sc.Errors,
		StartedAt:  endedAt.Add(-elapsed),
		EndedAt:    endedAt,
		Duration:   elapsed,
		EndReason:  reason,
	}

	switch reason {
	case model.EndExpired, model.EndExhausted:
		c.fb.Emit(feedback.Victory)
	case model.EndFailed:
		c.fb.Emit(feedback.GameOver)
	}
	c.logger.Info("round ended", "reason", string(reason), "score", sc.Points, "max_streak", cs.MaxStreak, "words", sc.Words)
	return c.commit(ctx)
}

func (c *Controller) commit(ctx context.Context) error {
	rank, _, err := c.board.InsertRecord(ctx, *c.record)
	if err != nil {
		c.commitErr = &LeaderboardWriteError{Record: *c.record, Err: err}
		c.logger.Error("failed to save record", "id", c.record.ID, "err", err)
		return c.commitErr
	}
	c.committed = true
	c.commitErr = nil
	c.rank = rank
	return nil
}

func (c *Controller) step() Step {
	return c.resolved(nil, false)
}

func (c *Controller) resolved(res *match.Result, tierUp bool) Step {
	st := Step{
		Result:    res,
		Combo:     c.combo.State(),
		Score:     c.score.State(),
		Remaining: c.clock.Tick(),
		TierUp:    tierUp,
		Ended:     c.state == Ended,
	}
	if c.matcher != nil {
		st.Match = c.matcher.State()
	}
	return st
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the round's mode.
func (c *Controller) Mode() mode.Mode {
	return c.cfg.Mode
}

// Matcher returns the matcher for the current challenge, or nil before Start.
func (c *Controller) Matcher() *match.Matcher {
	return c.matcher
}

// Current returns the challenge being typed.
func (c *Controller) Current() (model.Challenge, bool) {
	if c.matcher == nil {
		return model.Challenge{}, false
	}
	return c.matcher.Challenge(), true
}

// Combo returns the combo state.
func (c *Controller) Combo() combo.State {
	return c.combo.State()
}

// Tiers returns the combo ladder in use.
func (c *Controller) Tiers() []combo.Tier {
	return c.combo.Tiers()
}

// Score returns the running score.
func (c *Controller) Score() score.State {
	return c.score.State()
}

// Remaining returns the time left in the round.
func (c *Controller) Remaining() clock.Remaining {
	return c.clock.Tick()
}

// Elapsed returns active round time.
func (c *Controller) Elapsed() time.Duration {
	return c.clock.Elapsed()
}

// Best returns the mode's best record as of Start.
func (c *Controller) Best() (model.LeaderboardEntry, bool) {
	return c.best, c.hasBest
}

// NewHighScore reports whether the ended round beat the previous best.
func (c *Controller) NewHighScore() bool {
	if c.record == nil || c.record.Score <= 0 {
		return false
	}
	return !c.hasBest || c.record.Score > c.best.Record.Score
}

// Record returns the round's record once it has ended.
func (c *Controller) Record() (model.SessionRecord, bool) {
	if c.record == nil {
		return model.SessionRecord{}, false
	}
	return *c.record, true
}

// Rank returns the committed record's rank, or 0 when not committed.
func (c *Controller) Rank() int {
	if !c.committed {
		return 0
	}
	return c.rank
}

// Committed reports whether the record was saved.
func (c *Controller) Committed() bool {
	return c.committed
}

// CommitErr returns the last commit failure, if any.
func (c *Controller) CommitErr() error {
	return c.commitErr
}
