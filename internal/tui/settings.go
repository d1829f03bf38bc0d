package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hypertyper/internal/config"
)

type settingItem int

const (
	settingSound settingItem = iota
	settingTimeLimit
	settingShowTimer
	settingCorrections
	settingGodMode
	settingPlayer
	settingReset
	settingBack
	settingCount
)

type settingsState struct {
	cursor       settingItem
	player       textinput.Model
	editing      bool
	confirmReset bool
	message      string
	dirty        bool
}

func (m *Model) openSettings() {
	input := textinput.New()
	input.CharLimit = config.PlayerNameLength
	input.Width = config.PlayerNameLength + 1
	input.Prompt = ""
	input.SetValue(m.cfg.Player)
	m.settings = settingsState{player: input}
	m.screen = screenSettings
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.settings
	if s.editing {
		return m, m.updatePlayerInput(msg)
	}
	if s.confirmReset {
		s.confirmReset = false
		if msg.String() == "y" {
			s.message = m.resetScores()
		} else {
			s.message = "reset cancelled"
		}
		return m, nil
	}
	s.message = ""
	switch msg.String() {
	case "up", "k":
		s.cursor = settingItem(wrapIndex(int(s.cursor)-1, int(settingCount)))
	case "down", "j":
		s.cursor = settingItem(wrapIndex(int(s.cursor)+1, int(settingCount)))
	case "enter", " ", "right", "l":
		return m, m.activateSetting()
	case "esc", "q":
		m.leaveSettings()
	}
	return m, nil
}

func (m *Model) activateSetting() tea.Cmd {
	s := &m.settings
	switch s.cursor {
	case settingSound:
		m.cfg.Sound = !m.cfg.Sound
		m.fb.SetEnabled(m.cfg.Sound)
	case settingTimeLimit:
		m.cfg.TimeLimit = config.NextTimeLimit(m.cfg.TimeLimit)
	case settingShowTimer:
		m.cfg.ShowTimer = !m.cfg.ShowTimer
	case settingCorrections:
		m.cfg.Corrections = !m.cfg.Corrections
	case settingGodMode:
		m.cfg.GodModeThreshold = config.NextGodModeThreshold(m.cfg.GodModeThreshold)
	case settingPlayer:
		s.editing = true
		s.player.SetValue("")
		return s.player.Focus()
	case settingReset:
		s.confirmReset = true
		return nil
	case settingBack:
		m.leaveSettings()
		return nil
	}
	s.dirty = true
	return nil
}

func (m *Model) updatePlayerInput(msg tea.KeyMsg) tea.Cmd {
	s := &m.settings
	switch msg.Type {
	case tea.KeyEnter:
		m.cfg.Player = config.NormalizePlayer(s.player.Value())
		s.player.SetValue(m.cfg.Player)
		s.player.Blur()
		s.editing = false
		s.dirty = true
		return nil
	case tea.KeyEsc:
		s.player.SetValue(m.cfg.Player)
		s.player.Blur()
		s.editing = false
		return nil
	}
	var cmd tea.Cmd
	s.player, cmd = s.player.Update(msg)
	return cmd
}

func (m *Model) resetScores() string {
	n, err := m.board.Reset(context.Background())
	if err != nil {
		m.logger.Error("failed to reset scores", "err", err)
		return "reset failed: " + err.Error()
	}
	m.bests = nil
	m.logger.Info("scores reset", "records", n)
	return fmt.Sprintf("removed %d records", n)
}

func (m *Model) leaveSettings() {
	if m.settings.dirty {
		if err := m.saveSettings(); err != nil {
			m.logger.Error("failed to save settings", "err", err)
			m.errMsg = err.Error()
			m.screen = screenMenu
			return
		}
	}
	m.openMenu()
}

// saveSettings writes the settings-screen fields over the existing file,
// leaving keys the screen does not edit untouched.
func (m *Model) saveSettings() error {
	if m.configPath == "" {
		return nil
	}
	existing, err := config.LoadConfig(m.configPath)
	if err != nil {
		return err
	}
	edited := config.FromModel(m.cfg)
	edited.Game.Mode = nil
	edited.Game.DataDir = nil
	edited.Game.Lookback = nil
	return config.SaveConfig(m.configPath, config.Merge(existing, edited))
}

func (m *Model) renderSettings() string {
	s := m.settings
	values := [settingCount]string{
		settingSound:       onOff(m.cfg.Sound),
		settingTimeLimit:   fmt.Sprintf("%ds", int(m.cfg.TimeLimit.Seconds())),
		settingShowTimer:   onOff(m.cfg.ShowTimer),
		settingCorrections: onOff(m.cfg.Corrections),
		settingGodMode:     fmt.Sprintf("%d words", m.cfg.GodModeThreshold),
		settingPlayer:      m.cfg.Player,
	}
	if s.editing {
		values[settingPlayer] = s.player.View()
	}
	labels := [settingCount]string{
		settingSound:       "Sound",
		settingTimeLimit:   "Time limit",
		settingShowTimer:   "Show timer",
		settingCorrections: "Corrections",
		settingGodMode:     "God Mode at",
		settingPlayer:      "Player",
		settingReset:       "Reset high scores",
		settingBack:        "Back",
	}
	lines := []string{titleStyle.Render("SETTINGS"), ""}
	for i := settingItem(0); i < settingCount; i++ {
		text := labels[i]
		if values[i] != "" {
			text = fmt.Sprintf("%-18s %s", labels[i], values[i])
		}
		lines = append(lines, menuLine(i == s.cursor, text))
	}
	lines = append(lines, "")
	switch {
	case s.confirmReset:
		lines = append(lines, errorStyle.Render("delete every score? y/n"))
	case s.editing:
		lines = append(lines, footerStyle.Render("type initials  enter: save  esc: cancel"))
	case s.message != "":
		lines = append(lines, footerStyle.Render(s.message))
	default:
		lines = append(lines, footerStyle.Render("up/down  enter: change  esc: back"))
	}
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
