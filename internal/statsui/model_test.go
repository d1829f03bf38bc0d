package statsui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
)

type fakeSource struct {
	records []model.SessionRecord
}

func (f *fakeSource) Top(_ context.Context, m string, limit int) ([]model.LeaderboardEntry, error) {
	var out []model.LeaderboardEntry
	for _, rec := range f.records {
		if rec.Mode == m {
			out = append(out, model.LeaderboardEntry{Rank: len(out) + 1, Record: rec})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSource) BestByMode(context.Context) ([]model.LeaderboardEntry, error) {
	if len(f.records) == 0 {
		return nil, nil
	}
	return []model.LeaderboardEntry{{Rank: 1, Record: f.records[0]}}, nil
}

func (f *fakeSource) ListRecords(_ context.Context, filter model.RecordFilter) ([]model.SessionRecord, error) {
	var out []model.SessionRecord
	for _, rec := range f.records {
		if filter.Mode == "" || rec.Mode == filter.Mode {
			out = append(out, rec)
		}
	}
	return out, nil
}

func sampleSource() *fakeSource {
	at := time.Unix(1_700_000_000, 0)
	return &fakeSource{records: []model.SessionRecord{
		{Mode: "food", Player: "ZED", Score: 90, MaxStreak: 6, Words: 12, Chars: 60, Duration: time.Minute, EndedAt: at},
		{Mode: "food", Player: "ABC", Score: 40, MaxStreak: 3, Words: 7, Chars: 30, Duration: time.Minute, EndedAt: at.Add(time.Minute)},
	}}
}

func TestModelStartsOnRequestedMode(t *testing.T) {
	m := NewModel(sampleSource(), Config{Mode: "food"})
	if m.Mode() != mode.Food {
		t.Fatalf("expected food mode, got %v", m.Mode())
	}
	if m.ActiveTab() != tabLeaderboard {
		t.Fatalf("expected leaderboard tab, got %d", m.ActiveTab())
	}
	if len(m.report.Top) != 2 {
		t.Fatalf("expected two entries, got %d", len(m.report.Top))
	}
}

func TestModelNavigation(t *testing.T) {
	m := NewModel(sampleSource(), Config{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.ActiveTab() != tabBests {
		t.Fatalf("expected hall of fame first")
	}
	view := m.View()
	if !strings.Contains(view, "Hall of Fame") || !strings.Contains(view, "ZED") {
		t.Fatalf("unexpected view:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != tabLeaderboard {
		t.Fatalf("expected leaderboard tab")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	if m.Mode() != mode.Cities {
		t.Fatalf("expected next mode, got %v", m.Mode())
	}
	if !strings.Contains(m.View(), "No scores for Cities") {
		t.Fatalf("expected empty leaderboard message:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	if m.Mode() != mode.Pokemon {
		t.Fatalf("expected wrap to last mode, got %v", m.Mode())
	}
}

func TestModelEmbeddedCloses(t *testing.T) {
	m := NewModel(sampleSource(), Config{Embedded: true})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected close command")
	}
	if _, ok := cmd().(CloseMsg); !ok {
		t.Fatalf("expected CloseMsg")
	}
}

func TestRenderHistory(t *testing.T) {
	m := NewModel(sampleSource(), Config{Mode: "food", Window: 2})
	out := renderHistory(m.report, 100)
	for _, want := range []string{"Rounds", "Best WPM", "Score history"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in history:\n%s", want, out)
		}
	}
	if rows := bestsRows(m.report.Bests, m.history); len(rows) != 1 || rows[0][0] != "Food" {
		t.Fatalf("unexpected bests rows: %v", rows)
	}
}
