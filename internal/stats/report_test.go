package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "hypertyper.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i, score := range []int{40, 90, 60} {
		end := time.Unix(1_700_000_000, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			Mode:       "food",
			Player:     "ABC",
			Score:      score,
			MaxStreak:  i + 2,
			Words:      10,
			Chars:      50,
			Attempts:   11,
			Keystrokes: 55,
			Errors:     5,
			StartedAt:  end.Add(-time.Minute),
			EndedAt:    end,
			Duration:   time.Minute,
			EndReason:  model.EndExpired,
		}
		if _, _, err := st.InsertRecord(ctx, rec); err != nil {
			t.Fatalf("insert record: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, ReportConfig{Mode: "food", Limit: 2, Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Top) != 2 || report.Top[0].Record.Score != 90 || report.Top[1].Record.Score != 60 {
		t.Fatalf("unexpected top: %+v", report.Top)
	}
	if len(report.History) != 2 || report.History[0].Score != 90 {
		t.Fatalf("unexpected history: %+v", report.History)
	}
	if len(report.Bests) != 1 || report.Window != DefaultHistoryWindow {
		t.Fatalf("unexpected bests/window: %+v %d", report.Bests, report.Window)
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, report, 40, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Food", "Player", "Rounds: 2", "Best score: 90", "Score history"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	all, err := BuildReport(ctx, st, ReportConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	buf.Reset()
	if err := RenderReport(&buf, all, 0, false); err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !strings.Contains(buf.String(), "Hall of Fame") || strings.Contains(buf.String(), "Score history") {
		t.Fatalf("unexpected all-modes output:\n%s", buf.String())
	}
}
