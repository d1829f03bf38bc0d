package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/hypertyper/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	rec := model.SessionRecord{Chars: 150, Keystrokes: 200, Errors: 20, Duration: 30 * time.Second}
	wpm, cpm, acc := SessionMetrics(rec)
	if math.Abs(wpm-60) > 1e-9 || math.Abs(cpm-300) > 1e-9 {
		t.Fatalf("unexpected speed: wpm=%v cpm=%v", wpm, cpm)
	}
	if math.Abs(acc-0.9) > 1e-9 {
		t.Fatalf("unexpected accuracy: %v", acc)
	}
	if got := WPM(100, 0); got != 0 {
		t.Fatalf("expected zero wpm without duration, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No rounds") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestModeName(t *testing.T) {
	if got := ModeName("code"); got != "Code Snippets" {
		t.Fatalf("unexpected name: %q", got)
	}
	if got := ModeName("chess"); got != "chess" {
		t.Fatalf("expected unknown key passthrough, got %q", got)
	}
}

func TestChartDimensions(t *testing.T) {
	var buf bytes.Buffer
	if err := Chart(&buf, "Scores", []float64{1, 5, 3, 8, 2}, 12, 4, false); err != nil {
		t.Fatalf("chart: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected title and 4 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "8") || !strings.Contains(lines[4], "1") {
		t.Fatalf("expected max and min labels:\n%s", buf.String())
	}
	if ChartWidthFor(80) != 80-chartAxisWidth-3 {
		t.Fatalf("unexpected chart width %d", ChartWidthFor(80))
	}
	if ChartWidthFor(5) != minChartWidth {
		t.Fatalf("expected min chart width")
	}
}

func TestRenderModes(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderModes(&buf); err != nil {
		t.Fatalf("render modes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("expected header and 12 modes, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "streak") || !strings.Contains(lines[1], "sudden death") {
		t.Fatalf("unexpected first mode row: %q", lines[1])
	}
	if !strings.Contains(buf.String(), "timed, in order") {
		t.Fatalf("expected lorem ordering note:\n%s", buf.String())
	}
}
