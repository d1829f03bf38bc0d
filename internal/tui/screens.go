package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hypertyper/internal/config"
	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/stats"
)

const logo = `╦ ╦╦ ╦╔═╗╔═╗╦═╗╔╦╗╦ ╦╔═╗╔═╗╦═╗
╠═╣╚╦╝╠═╝║╣ ╠╦╝ ║ ╚╦╝╠═╝║╣ ╠╦╝
╩ ╩ ╩ ╩  ╚═╝╩╚═ ╩  ╩ ╩  ╚═╝╩╚═`

var menuItems = []string{"Play", "Hall of Fame", "Settings", "Quit"}

const (
	menuPlay = iota
	menuScores
	menuSettings
	menuQuit
)

func renderSplash() string {
	return titleStyle.Render(logo) + "\n\n" + footerStyle.Render("press any key")
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.menuIdx = wrapIndex(m.menuIdx-1, len(menuItems))
	case "down", "j":
		m.menuIdx = wrapIndex(m.menuIdx+1, len(menuItems))
	case "1", "2", "3", "4":
		m.menuIdx = int(msg.String()[0] - '1')
		return m.chooseMenu()
	case "enter", " ":
		return m.chooseMenu()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) chooseMenu() (tea.Model, tea.Cmd) {
	switch m.menuIdx {
	case menuPlay:
		m.openModes()
	case menuScores:
		return m, m.openScores()
	case menuSettings:
		m.openSettings()
	case menuQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render(logo), ""}
	for i, item := range menuItems {
		lines = append(lines, menuLine(i == m.menuIdx, fmt.Sprintf("%d. %s", i+1, item)))
	}
	lines = append(lines, "", footerStyle.Render(fmt.Sprintf("player %s  ·  up/down  enter  q", m.cfg.Player)))
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) updateModes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(mode.All())
	switch msg.String() {
	case "up", "k":
		m.modeIdx = wrapIndex(m.modeIdx-1, count)
	case "down", "j":
		m.modeIdx = wrapIndex(m.modeIdx+1, count)
	case "enter", " ":
		return m, m.beginCountdown()
	case "esc", "q":
		m.openMenu()
	}
	return m, nil
}

func (m *Model) renderModes() string {
	lines := []string{titleStyle.Render("SELECT MODE"), ""}
	for i, md := range mode.All() {
		spec := md.Spec()
		best := "-"
		if e, ok := m.bests[spec.Key]; ok {
			best = fmt.Sprintf("%d %s", e.Record.Score, e.Record.Player)
		}
		label := fmt.Sprintf("%2d. %-18s %s", i+1, spec.Name, modeTag(spec))
		lines = append(lines, menuLine(i == m.modeIdx, fmt.Sprintf("%-44s best %s", label, best)))
	}
	lines = append(lines, "", footerStyle.Render("up/down  enter: start  esc: back"))
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func modeTag(spec mode.Spec) string {
	switch {
	case spec.SuddenDeath:
		return "[sudden death]"
	case spec.Order == mode.Sequential:
		return "[in order]"
	default:
		return ""
	}
}

func (m *Model) renderCountdown() string {
	spec := m.selectedMode().Spec()
	limit := "untimed"
	if spec.Timed {
		limit = fmt.Sprintf("%ds", int(m.cfg.TimeLimit.Seconds()))
	}
	lines := []string{
		titleStyle.Render(strings.ToUpper(spec.Name)),
		footerStyle.Render(limit),
		"",
		bannerStyle.Render(strconv.Itoa(m.countdown)),
		"",
		footerStyle.Render("esc: cancel"),
	}
	return strings.Join(lines, "\n")
}

// initialsPrompt collects initials for a new high score.
type initialsPrompt struct {
	active bool
	input  textinput.Model
}

func newInitialsPrompt() initialsPrompt {
	input := textinput.New()
	input.CharLimit = config.PlayerNameLength
	input.Width = config.PlayerNameLength + 1
	input.Prompt = ""
	input.Focus()
	return initialsPrompt{active: true, input: input}
}

func (m *Model) updateInitials(msg tea.KeyMsg) tea.Cmd {
	p := &m.initials
	switch msg.Type {
	case tea.KeyEnter:
		p.active = false
		p.input.Blur()
		if strings.TrimSpace(p.input.Value()) == "" {
			return nil
		}
		name := config.NormalizePlayer(p.input.Value())
		if err := m.round.Rename(context.Background(), name); err != nil {
			m.logger.Warn("failed to save initials", "err", err)
			m.errMsg = err.Error()
		}
		return nil
	case tea.KeyEsc:
		p.active = false
		p.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (m *Model) updateGameOver(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.initials.active && m.round != nil {
		return m, m.updateInitials(msg)
	}
	switch msg.String() {
	case "r":
		return m, m.beginCountdown()
	case "s":
		if m.round != nil && m.round.CommitErr() != nil {
			if err := m.round.RetryCommit(context.Background()); err != nil {
				m.logger.Warn("retry failed", "err", err)
			}
		}
	case "enter", "esc", "q":
		m.openModes()
	}
	return m, nil
}

func (m *Model) renderGameOver() string {
	if m.round == nil {
		return ""
	}
	rec, ok := m.round.Record()
	if !ok {
		return ""
	}
	best, hasBest := m.round.Best()
	prompt := ""
	if m.initials.active {
		prompt = "initials: " + m.initials.input.View()
	}
	out := renderSummary(rec, m.round.NewHighScore(), best, hasBest, m.round.Rank(), m.round.CommitErr(), prompt)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

// renderSummary formats the end-of-round screen. A non-empty prompt replaces
// the key hints while initials are being entered.
func renderSummary(rec model.SessionRecord, newHigh bool, best model.LeaderboardEntry, hasBest bool, rank int, commitErr error, prompt string) string {
	wpm, _, acc := stats.SessionMetrics(rec)
	lines := []string{
		titleStyle.Render(endTitle(rec.EndReason)),
		footerStyle.Render(stats.ModeName(rec.Mode)),
		"",
		selectedStyle.Render(fmt.Sprintf("SCORE %d", rec.Score)),
		fmt.Sprintf("words %d/%d   max streak %d", rec.Words, rec.Attempts, rec.MaxStreak),
		fmt.Sprintf("%.1f WPM   %.1f%% accuracy", wpm, acc*100),
		"",
	}
	switch {
	case newHigh:
		lines = append(lines, bannerStyle.Render("NEW HIGH SCORE!")+"  "+pendingStyle.Render("by "+rec.Player))
	case hasBest:
		lines = append(lines, fmt.Sprintf("best %d by %s", best.Record.Score, best.Record.Player))
	}
	if rank > 0 {
		lines = append(lines, fmt.Sprintf("rank #%d", rank))
	}
	if commitErr != nil {
		lines = append(lines, errorStyle.Render("score not saved: "+commitErr.Error()), footerStyle.Render("s: retry save"))
	}
	if prompt != "" {
		lines = append(lines, "", selectedStyle.Render(prompt), footerStyle.Render("enter: save  esc: skip"))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, "", footerStyle.Render("r: retry  enter: modes  ctrl+c: quit"))
	return strings.Join(lines, "\n")
}

func endTitle(reason model.EndReason) string {
	switch reason {
	case model.EndExpired:
		return "TIME'S UP"
	case model.EndFailed:
		return "GAME OVER"
	case model.EndExhausted:
		return "ALL DONE"
	default:
		return "ROUND ENDED"
	}
}

func menuLine(selected bool, text string) string {
	if selected {
		return selectedStyle.Render("> " + text)
	}
	return pendingStyle.Render("  " + text)
}

func wrapIndex(i, n int) int {
	return (i%n + n) % n
}
