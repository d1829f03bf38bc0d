// Package statsui provides the Bubble Tea hall of fame and score history.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/stats"
)

const (
	tabBests = iota
	tabLeaderboard
	tabHistory
)

const (
	chartHeight  = 8
	sparkRecent  = 10
	defaultLimit = 10
	dateLayout   = "2006-01-02 15:04"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// CloseMsg is sent instead of quitting when the model is embedded.
type CloseMsg struct{}

// Config selects the initial view.
type Config struct {
	Mode     string
	Limit    int
	Window   int
	Embedded bool
}

// Model implements the Bubble Tea scores UI.
type Model struct {
	src stats.RecordSource
	cfg Config

	modes   []mode.Mode
	modeIdx int

	report  stats.Report
	history []model.SessionRecord
	errMsg  string

	tabs      []string
	activeTab int
	bests     table.Model
	board     table.Model
	viewport  viewport.Model

	width  int
	height int
}

// NewModel constructs a scores UI model.
func NewModel(src stats.RecordSource, cfg Config) *Model {
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	m := &Model{
		src:   src,
		cfg:   cfg,
		modes: mode.All(),
		tabs:  []string{"Hall of Fame", "Leaderboard", "History"},
	}
	if cfg.Mode != "" {
		if md, err := mode.Parse(cfg.Mode); err == nil {
			m.modeIdx = int(md)
			m.activeTab = tabLeaderboard
		}
	}
	m.bests = newTable(bestsColumns())
	m.board = newTable(boardColumns())
	m.viewport = viewport.New(0, 0)
	m.Refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Mode returns the mode shown on the leaderboard tab.
func (m *Model) Mode() mode.Mode {
	return m.modes[m.modeIdx]
}

// ActiveTab returns the index of the visible tab.
func (m *Model) ActiveTab() int {
	return m.activeTab
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderHistory()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q", "esc":
			if m.cfg.Embedded {
				return m, func() tea.Msg { return CloseMsg{} }
			}
			return m, tea.Quit
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "[":
			m.moveMode(-1)
			return m, nil
		case "]":
			m.moveMode(1)
			return m, nil
		case "r":
			m.Refresh()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case tabBests:
			m.bests, cmd = m.bests.Update(msg)
		case tabLeaderboard:
			m.board, cmd = m.board.Update(msg)
		default:
			m.viewport, cmd = m.viewport.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Refresh reloads scores from the source.
func (m *Model) Refresh() {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, m.src, stats.ReportConfig{
		Mode:   m.Mode().String(),
		Limit:  m.cfg.Limit,
		Window: m.cfg.Window,
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	all, err := m.src.ListRecords(ctx, model.RecordFilter{})
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.history = all
	m.bests.SetRows(bestsRows(report.Bests, all))
	m.board.SetRows(boardRows(report.Top))
	m.renderHistory()
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	m.focusActive()
}

func (m *Model) moveMode(delta int) {
	m.modeIdx = (m.modeIdx + delta + len(m.modes)) % len(m.modes)
	m.Refresh()
}

func (m *Model) focusActive() {
	m.bests.Blur()
	m.board.Blur()
	switch m.activeTab {
	case tabBests:
		m.bests.Focus()
	case tabLeaderboard:
		m.board.Focus()
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	for _, t := range []*table.Model{&m.bests, &m.board} {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
		fitTableHeight(t, bodyHeight)
	}
	m.focusActive()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	spec := m.Mode().Spec()
	line := fmt.Sprintf("Mode: %s  (%d/%d)  top=%d", spec.Name, m.modeIdx+1, len(m.modes), m.cfg.Limit)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderFooter() string {
	back := "Quit: q"
	if m.cfg.Embedded {
		back = "Back: esc"
	}
	help := headerStyle.Render("Nav: left/right  Mode: [ ]  Scroll: up/down  Reload: r  " + back)
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabBests:
		if len(m.report.Bests) == 0 {
			return "No scores yet. Play a round first."
		}
		return tableMutedStyle.Render(m.bests.View())
	case tabLeaderboard:
		if len(m.report.Top) == 0 {
			return fmt.Sprintf("No scores for %s yet.", m.Mode().Spec().Name)
		}
		return tableMutedStyle.Render(m.board.View())
	default:
		return m.viewport.View()
	}
}

func (m *Model) renderHistory() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(renderHistory(m.report, width))
}

func renderHistory(report stats.Report, width int) string {
	if len(report.History) == 0 {
		return "No rounds played in this mode yet."
	}
	cards := renderSummaryCards(report.History, width)
	if len(report.History) < 2 {
		return cards
	}
	var buf bytes.Buffer
	title := fmt.Sprintf("Score history (moving average of %d)", report.Window)
	smoothed := stats.MovingAverage(stats.Scores(report.History), report.Window)
	if err := stats.Chart(&buf, title, smoothed, stats.ChartWidthFor(width), chartHeight, true); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(records []model.SessionRecord, width int) string {
	var totalScore, totalAcc, bestWPM float64
	bestScore, longest := 0, 0
	for _, rec := range records {
		wpm, _, acc := stats.SessionMetrics(rec)
		totalScore += float64(rec.Score)
		totalAcc += acc
		bestWPM = max(bestWPM, wpm)
		bestScore = max(bestScore, rec.Score)
		longest = max(longest, rec.MaxStreak)
	}
	count := float64(len(records))
	cards := []string{
		metricCard("Rounds", strconv.Itoa(len(records))),
		metricCard("Best", strconv.Itoa(bestScore)),
		metricCard("Avg", fmt.Sprintf("%.1f", totalScore/count)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", (totalAcc/count)*100)),
		metricCard("Streak", strconv.Itoa(longest)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func bestsColumns() []table.Column {
	return []table.Column{
		{Title: "Mode", Width: 18},
		{Title: "Player", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Streak", Width: 6},
		{Title: "Recent", Width: sparkRecent},
		{Title: "Date", Width: 16},
	}
}

func boardColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 6},
		{Title: "Score", Width: 7},
		{Title: "Streak", Width: 6},
		{Title: "Words", Width: 5},
		{Title: "WPM", Width: 6},
		{Title: "Date", Width: 16},
	}
}

func bestsRows(bests []model.LeaderboardEntry, history []model.SessionRecord) []table.Row {
	byMode := map[string][]float64{}
	for _, rec := range history {
		byMode[rec.Mode] = append(byMode[rec.Mode], float64(rec.Score))
	}
	rows := make([]table.Row, 0, len(bests))
	for _, e := range bests {
		recent := byMode[e.Record.Mode]
		if len(recent) > sparkRecent {
			recent = recent[len(recent)-sparkRecent:]
		}
		rows = append(rows, table.Row{
			stats.ModeName(e.Record.Mode),
			e.Record.Player,
			strconv.Itoa(e.Record.Score),
			strconv.Itoa(e.Record.MaxStreak),
			stats.Sparkline(recent),
			e.Record.EndedAt.Local().Format(dateLayout),
		})
	}
	return rows
}

func boardRows(entries []model.LeaderboardEntry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		wpm, _, _ := stats.SessionMetrics(e.Record)
		rows = append(rows, table.Row{
			strconv.Itoa(e.Rank),
			e.Record.Player,
			strconv.Itoa(e.Record.Score),
			strconv.Itoa(e.Record.MaxStreak),
			strconv.Itoa(e.Record.Words),
			fmt.Sprintf("%.1f", wpm),
			e.Record.EndedAt.Local().Format(dateLayout),
		})
	}
	return rows
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// fitTableHeight corrects for header and border lines so the rendered
// table fills exactly bodyHeight rows.
func fitTableHeight(t *table.Model, bodyHeight int) {
	target := max(1, bodyHeight)
	for i := 0; i < 2; i++ {
		viewHeight := lipgloss.Height(t.View())
		if viewHeight == target {
			return
		}
		t.SetHeight(max(1, t.Height()+target-viewHeight))
	}
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
