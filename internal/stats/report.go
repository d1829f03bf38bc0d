package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/hypertyper/internal/model"
)

// DefaultHistoryWindow smooths the score history chart.
const DefaultHistoryWindow = 5

// RecordSource is the read side of the leaderboard store.
type RecordSource interface {
	Top(ctx context.Context, mode string, limit int) ([]model.LeaderboardEntry, error)
	BestByMode(ctx context.Context) ([]model.LeaderboardEntry, error)
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.SessionRecord, error)
}

// ReportConfig selects what a report covers. An empty Mode reports on
// every mode.
type ReportConfig struct {
	Mode   string
	Limit  int
	Last   int
	Window int
}

// Report contains precomputed data for score rendering.
type Report struct {
	Mode    string
	Top     []model.LeaderboardEntry
	Bests   []model.LeaderboardEntry
	History []model.SessionRecord
	Window  int
}

// BuildReport loads and prepares data for score rendering.
func BuildReport(ctx context.Context, src RecordSource, cfg ReportConfig) (Report, error) {
	report := Report{Mode: cfg.Mode, Window: cfg.Window}
	if report.Window <= 0 {
		report.Window = DefaultHistoryWindow
	}
	var err error
	if cfg.Mode != "" {
		report.Top, err = src.Top(ctx, cfg.Mode, cfg.Limit)
		if err != nil {
			return Report{}, fmt.Errorf("failed to load leaderboard: %w", err)
		}
	}
	report.Bests, err = src.BestByMode(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load best scores: %w", err)
	}
	report.History, err = src.ListRecords(ctx, model.RecordFilter{Mode: cfg.Mode, Last: cfg.Last})
	if err != nil {
		return Report{}, fmt.Errorf("failed to load history: %w", err)
	}
	return report, nil
}

// RenderReport prints a plain-text report. chartWidth of zero skips the
// history chart.
func RenderReport(w io.Writer, report Report, chartWidth int, color bool) error {
	if report.Mode != "" {
		if err := RenderLeaderboard(w, ModeName(report.Mode), report.Top); err != nil {
			return err
		}
	} else if err := RenderBests(w, report.Bests); err != nil {
		return err
	}
	if err := RenderSummary(w, report.History); err != nil {
		return err
	}
	if chartWidth <= 0 || len(report.History) < 2 {
		return nil
	}
	smoothed := MovingAverage(Scores(report.History), report.Window)
	title := fmt.Sprintf("Score history (moving average of %d)", report.Window)
	return Chart(w, title, smoothed, chartWidth, 0, color)
}
