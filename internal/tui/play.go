package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hypertyper/internal/clock"
	"github.com/verte-zerg/hypertyper/internal/combo"
	"github.com/verte-zerg/hypertyper/internal/match"
	"github.com/verte-zerg/hypertyper/internal/score"
)

func (m *Model) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.round == nil {
		return m, nil
	}
	if m.round.Paused() {
		switch msg.String() {
		case "esc", "p":
			m.round.Resume()
		case "q":
			m.quitRound()
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.round.Pause()
		return m, nil
	case tea.KeyBackspace, tea.KeyDelete:
		m.feed(match.Event{Kind: match.KeyBackspace})
	case tea.KeyEnter:
		m.feed(match.Event{Kind: match.KeySubmit})
	case tea.KeySpace:
		m.feed(match.Event{Kind: match.KeyRune, Rune: ' '})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if m.screen != screenPlay {
				break
			}
			m.feed(match.Event{Kind: match.KeyRune, Rune: r})
		}
	}
	return m, nil
}

func (m *Model) feed(ev match.Event) {
	step, err := m.round.Feed(context.Background(), ev)
	m.applyStep(step, err)
}

func (m *Model) renderPlay() string {
	if m.round == nil {
		return ""
	}
	hud := renderHUD(m.round.Score(), m.round.Combo(), m.round.Remaining(), m.cfg.ShowTimer)
	var challenge string
	if matcher := m.round.Matcher(); matcher != nil {
		target := matcher.Target()
		input := matcher.Input()
		cursor := -1
		if len(input) < len(target) {
			cursor = len(input)
		}
		runes := buildStyledRunes(target, input, cursor)
		width := int(float64(m.width) * 0.70)
		challenge = wrapStyledRunes(runes, width)
		if width > 0 {
			challenge = lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(challenge)
		}
	}
	lines := []string{hud, "", challenge, "", m.renderFlash()}
	if m.round.Paused() {
		lines = append(lines, "", bannerStyle.Render("PAUSED  esc: resume  q: end round"))
	}
	body := strings.Join(lines, "\n")
	footer := renderFooter(m.round.Mode().Spec().Name, m.cfg.Corrections)
	if m.width == 0 || m.height < 3 {
		return body + "\n" + footer
	}
	main := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

// renderFlash shows the tier-up banner while it lasts, otherwise the last
// word's outcome.
func (m *Model) renderFlash() string {
	if m.banner != "" && m.now.Now().Before(m.bannerUntil) {
		style := bannerStyle
		if m.round.Combo().GodMode {
			style = godStyle
		}
		return style.Render(m.banner)
	}
	if m.lastResult == nil {
		return ""
	}
	switch m.lastResult.Outcome {
	case match.OutcomeCorrect:
		return correctStyle.Render(fmt.Sprintf("+%d", m.lastPoints))
	case match.OutcomeIncorrect:
		return incorrectStyle.Render("✗ " + m.lastResult.Challenge.Text)
	default:
		return ""
	}
}

// renderHUD formats the status line shown above the challenge.
func renderHUD(sc score.State, cs combo.State, rem clock.Remaining, showTimer bool) string {
	segments := []string{fmt.Sprintf("SCORE %d", sc.Points)}
	if showTimer {
		if rem.Unbounded {
			segments = append(segments, "TIME --")
		} else {
			segments = append(segments, fmt.Sprintf("TIME %d", rem.Seconds()))
		}
	}
	segments = append(segments, fmt.Sprintf("STREAK %d", cs.Streak))
	line := hudStyle.Render(strings.Join(segments, "   "))
	if label := cs.Tier.Label(); label != "" {
		style := bannerStyle
		if cs.GodMode {
			style = godStyle
		}
		line += "   " + style.Render(label)
	}
	return line
}

func renderFooter(modeName string, corrections bool) string {
	segments := []string{modeName, "enter: submit", "esc: pause", "ctrl+c: quit"}
	if corrections {
		segments = append(segments, "backspace: fix")
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}
