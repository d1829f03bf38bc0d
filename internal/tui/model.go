// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hypertyper/internal/clock"
	"github.com/verte-zerg/hypertyper/internal/config"
	"github.com/verte-zerg/hypertyper/internal/feedback"
	"github.com/verte-zerg/hypertyper/internal/match"
	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/session"
	"github.com/verte-zerg/hypertyper/internal/stats"
	"github.com/verte-zerg/hypertyper/internal/statsui"
	"github.com/verte-zerg/hypertyper/internal/wordlist"
	"github.com/verte-zerg/hypertyper/internal/wordsource"
)

const (
	tickInterval     = 100 * time.Millisecond
	splashDuration   = 1500 * time.Millisecond
	bannerDuration   = 1500 * time.Millisecond
	countdownSeconds = 3
)

type screen int

const (
	screenSplash screen = iota
	screenMenu
	screenModes
	screenCountdown
	screenPlay
	screenGameOver
	screenScores
	screenSettings
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	hudStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	bannerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD666")).Bold(true)
	godStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF85C0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Board is the leaderboard store used by the game.
type Board interface {
	session.Leaderboard
	stats.RecordSource
	Reset(ctx context.Context) (int64, error)
}

// Feedback receives game cues and follows the sound setting.
type Feedback interface {
	feedback.Emitter
	SetEnabled(enabled bool)
}

// Options configure the game UI.
type Options struct {
	Config     model.Config
	ConfigPath string
	Board      Board
	Feedback   Feedback
	Logger     *slog.Logger
	// Now defaults to the system clock.
	Now clock.TimeProvider
	// StartMode skips the menus and counts down straight into a round.
	StartMode *mode.Mode
	// Seed fixes word order; zero picks a random seed per round.
	Seed int64
}

type splashDoneMsg struct{}

type countdownMsg struct{ gen int }

type tickMsg struct{ gen int }

// Model implements the Bubble Tea game UI.
type Model struct {
	cfg        model.Config
	configPath string
	board      Board
	fb         Feedback
	logger     *slog.Logger
	now        clock.TimeProvider
	seed       int64
	startMode  *mode.Mode

	words map[mode.Mode][]string

	screen screen
	width  int
	height int

	menuIdx int
	modeIdx int
	bests   map[string]model.LeaderboardEntry

	// gen invalidates countdown and tick loops from earlier screens.
	gen       int
	countdown int

	round       *session.Controller
	lastResult  *match.Result
	lastPoints  int
	banner      string
	bannerUntil time.Time

	scores   *statsui.Model
	settings settingsState
	initials initialsPrompt

	errMsg string
}

// NewModel constructs the game UI model.
func NewModel(opts Options) *Model {
	if opts.Now == nil {
		opts.Now = clock.SystemTime{}
	}
	if opts.Feedback == nil {
		opts.Feedback = nopFeedback{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := &Model{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		board:      opts.Board,
		fb:         opts.Feedback,
		logger:     opts.Logger,
		now:        opts.Now,
		seed:       opts.Seed,
		startMode:  opts.StartMode,
		words:      map[mode.Mode][]string{},
		bests:      map[string]model.LeaderboardEntry{},
		screen:     screenSplash,
	}
	if md, err := mode.Parse(opts.Config.Mode); err == nil {
		m.modeIdx = int(md)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.fb.Emit(feedback.Splash)
	if m.startMode != nil {
		m.modeIdx = int(*m.startMode)
		return m.beginCountdown()
	}
	return tea.Tick(splashDuration, func(time.Time) tea.Msg { return splashDoneMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.scores != nil {
			m.scores.Update(msg)
		}
		return m, nil
	case splashDoneMsg:
		if m.screen == screenSplash {
			m.openMenu()
		}
		return m, nil
	case countdownMsg:
		return m.updateCountdown(msg)
	case tickMsg:
		return m.updateTick(msg)
	case statsui.CloseMsg:
		m.scores = nil
		m.openMenu()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitRound()
			return m, tea.Quit
		}
		switch m.screen {
		case screenSplash:
			m.openMenu()
			return m, nil
		case screenMenu:
			return m.updateMenu(msg)
		case screenModes:
			return m.updateModes(msg)
		case screenCountdown:
			if msg.Type == tea.KeyEsc {
				m.gen++
				m.openModes()
			}
			return m, nil
		case screenPlay:
			return m.updatePlay(msg)
		case screenGameOver:
			return m.updateGameOver(msg)
		case screenScores:
			if m.scores != nil {
				return m, m.forwardScores(msg)
			}
		case screenSettings:
			return m.updateSettings(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenSplash:
		content = renderSplash()
	case screenMenu:
		content = m.renderMenu()
	case screenModes:
		content = m.renderModes()
	case screenCountdown:
		content = m.renderCountdown()
	case screenPlay:
		return m.renderPlay()
	case screenGameOver:
		content = m.renderGameOver()
	case screenScores:
		if m.scores != nil {
			return m.scores.View()
		}
	case screenSettings:
		content = m.renderSettings()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) forwardScores(msg tea.Msg) tea.Cmd {
	_, cmd := m.scores.Update(msg)
	return cmd
}

func (m *Model) openMenu() {
	m.screen = screenMenu
	m.errMsg = ""
}

func (m *Model) openModes() {
	m.screen = screenModes
	m.loadBests()
}

func (m *Model) openScores() tea.Cmd {
	m.scores = statsui.NewModel(m.board, statsui.Config{Embedded: true})
	m.screen = screenScores
	if m.width > 0 && m.height > 0 {
		m.scores.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return nil
}

func (m *Model) loadBests() {
	entries, err := m.board.BestByMode(context.Background())
	if err != nil {
		m.logger.Warn("failed to load best scores", "err", err)
		return
	}
	m.bests = make(map[string]model.LeaderboardEntry, len(entries))
	for _, e := range entries {
		m.bests[e.Record.Mode] = e
	}
}

func (m *Model) selectedMode() mode.Mode {
	return mode.All()[m.modeIdx]
}

func (m *Model) beginCountdown() tea.Cmd {
	m.gen++
	m.screen = screenCountdown
	m.countdown = countdownSeconds
	m.errMsg = ""
	m.fb.Emit(feedback.Countdown)
	return countdownCmd(m.gen)
}

func (m *Model) updateCountdown(msg countdownMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.screen != screenCountdown {
		return m, nil
	}
	m.countdown--
	if m.countdown > 0 {
		m.fb.Emit(feedback.Countdown)
		return m, countdownCmd(m.gen)
	}
	if err := m.startRound(m.selectedMode()); err != nil {
		m.errMsg = err.Error()
		m.logger.Error("failed to start round", "err", err)
		m.openModes()
		return m, nil
	}
	if m.screen != screenPlay {
		return m, nil
	}
	return m, tickCmd(m.gen)
}

func (m *Model) updateTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.screen != screenPlay || m.round == nil {
		return m, nil
	}
	step, err := m.round.Tick(context.Background())
	m.applyStep(step, err)
	if m.screen != screenPlay {
		return m, nil
	}
	return m, tickCmd(m.gen)
}

func (m *Model) startRound(md mode.Mode) error {
	words, err := m.loadWords(md)
	if err != nil {
		return err
	}
	seed := m.seed
	if seed == 0 {
		seed = m.now.Now().UnixNano()
	}
	src, err := wordsource.New(md, words, wordsource.WithSeed(seed), wordsource.WithLookback(m.cfg.Lookback))
	if err != nil {
		return fmt.Errorf("failed to prepare %s words: %w", md.Spec().Name, err)
	}
	limit := time.Duration(0)
	if md.Spec().Timed {
		limit = m.cfg.TimeLimit
	}
	ctl, err := session.New(session.Config{
		Mode:             md,
		Player:           m.cfg.Player,
		Corrections:      m.cfg.Corrections,
		GodModeThreshold: m.cfg.GodModeThreshold,
	}, session.Deps{
		Source:   src,
		Clock:    clock.New(limit, m.now),
		Board:    m.board,
		Feedback: m.fb,
		Logger:   m.logger,
	})
	if err != nil {
		return err
	}
	m.round = ctl
	m.lastResult = nil
	m.lastPoints = 0
	m.banner = ""
	m.screen = screenPlay
	err = ctl.Start(context.Background())
	var writeErr *session.LeaderboardWriteError
	if err != nil && !errors.As(err, &writeErr) {
		return err
	}
	if ctl.State() == session.Ended {
		m.finishRound()
	}
	return nil
}

func (m *Model) loadWords(md mode.Mode) ([]string, error) {
	if words, ok := m.words[md]; ok {
		return words, nil
	}
	words, source, err := wordlist.Load(md.Spec(), config.DataDirs(m.cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s words: %w", md.Spec().Name, err)
	}
	m.logger.Debug("loaded word list", "mode", md.String(), "source", source, "count", len(words))
	m.words[md] = words
	return words, nil
}

// applyStep folds a controller step into the view state.
func (m *Model) applyStep(step session.Step, err error) {
	var writeErr *session.LeaderboardWriteError
	switch {
	case err == nil, errors.Is(err, session.ErrPaused), errors.Is(err, session.ErrInvalidTransition):
	case errors.As(err, &writeErr):
		m.logger.Warn("score not saved", "err", writeErr.Err)
	default:
		m.logger.Error("round error", "err", err)
	}
	if step.Result != nil {
		res := *step.Result
		m.lastResult = &res
		m.lastPoints = step.Score.LastPoints
	}
	if step.TierUp {
		m.banner = "LEVEL UP! " + step.Combo.Tier.Label()
		m.bannerUntil = m.now.Now().Add(bannerDuration)
	}
	if step.Ended {
		m.finishRound()
	}
}

func (m *Model) finishRound() {
	m.gen++
	m.screen = screenGameOver
	m.initials = initialsPrompt{}
	if m.round != nil && m.round.NewHighScore() {
		m.initials = newInitialsPrompt()
	}
}

func (m *Model) quitRound() {
	if m.round == nil || m.round.State() != session.InProgress {
		return
	}
	step, err := m.round.Quit(context.Background())
	m.applyStep(step, err)
}

type nopFeedback struct{}

func (nopFeedback) Emit(feedback.Event) {}

func (nopFeedback) SetEnabled(bool) {}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func countdownCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return countdownMsg{gen: gen} })
}
