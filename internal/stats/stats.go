// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
)

const sparkChars = " .:-=+*#%@"

const dateLayout = "2006-01-02 15:04"

// SessionMetrics computes WPM, CPM, and accuracy for a record. WPM counts
// five characters as one word.
func SessionMetrics(rec model.SessionRecord) (wpm, cpm, accuracy float64) {
	if rec.Keystrokes > 0 {
		good := rec.Keystrokes - rec.Errors
		if good < 0 {
			good = 0
		}
		accuracy = float64(good) / float64(rec.Keystrokes)
	}
	minutes := rec.Duration.Minutes()
	if minutes <= 0 {
		return 0, 0, accuracy
	}
	wpm = (float64(rec.Chars) / 5.0) / minutes
	cpm = float64(rec.Chars) / minutes
	return wpm, cpm, accuracy
}

// WPM returns words per minute for chars typed over d.
func WPM(chars int, d time.Duration) float64 {
	wpm, _, _ := SessionMetrics(model.SessionRecord{Chars: chars, Duration: d})
	return wpm
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := bounds(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Scores extracts scores in record order.
func Scores(records []model.SessionRecord) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = float64(rec.Score)
	}
	return out
}

// ModeName returns the display name for a stored mode key.
func ModeName(key string) string {
	m, err := mode.Parse(key)
	if err != nil {
		return key
	}
	return m.Spec().Name
}

// RenderSummary prints totals across records.
func RenderSummary(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played yet.")
		return err
	}
	var totalScore, totalAcc, bestWPM float64
	bestScore, longest := 0, 0
	var played time.Duration
	for _, rec := range records {
		wpm, _, acc := SessionMetrics(rec)
		totalScore += float64(rec.Score)
		totalAcc += acc
		played += rec.Duration
		if wpm > bestWPM {
			bestWPM = wpm
		}
		if rec.Score > bestScore {
			bestScore = rec.Score
		}
		if rec.MaxStreak > longest {
			longest = rec.MaxStreak
		}
	}
	count := float64(len(records))
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", len(records)),
		fmt.Sprintf("Time played: %s", played.Round(time.Second)),
		fmt.Sprintf("Best score: %d", bestScore),
		fmt.Sprintf("Avg score: %.1f", totalScore/count),
		fmt.Sprintf("Best WPM: %.1f", bestWPM),
		fmt.Sprintf("Avg accuracy: %.1f%%", (totalAcc/count)*100),
		fmt.Sprintf("Longest streak: %d", longest),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLeaderboard prints ranked entries for one mode.
func RenderLeaderboard(w io.Writer, title string, entries []model.LeaderboardEntry) error {
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	headers := []string{"#", "Player", "Score", "Streak", "Words", "WPM", "Date"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		wpm, _, _ := SessionMetrics(e.Record)
		rows = append(rows, []string{
			strconv.Itoa(e.Rank),
			e.Record.Player,
			strconv.Itoa(e.Record.Score),
			strconv.Itoa(e.Record.MaxStreak),
			strconv.Itoa(e.Record.Words),
			fmt.Sprintf("%.1f", wpm),
			e.Record.EndedAt.Local().Format(dateLayout),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true})
}

// RenderBests prints the top record of each mode.
func RenderBests(w io.Writer, entries []model.LeaderboardEntry) error {
	if _, err := fmt.Fprintln(w, "Hall of Fame"); err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}
	headers := []string{"Mode", "Player", "Score", "Streak", "Date"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			ModeName(e.Record.Mode),
			e.Record.Player,
			strconv.Itoa(e.Record.Score),
			strconv.Itoa(e.Record.MaxStreak),
			e.Record.EndedAt.Local().Format(dateLayout),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{2: true, 3: true})
}

// RenderModes prints the mode catalogue with menu numbers.
func RenderModes(w io.Writer) error {
	headers := []string{"#", "Key", "Name", "Rules"}
	rows := make([][]string, 0, len(mode.All()))
	for i, md := range mode.All() {
		spec := md.Spec()
		rules := "timed"
		switch {
		case spec.SuddenDeath:
			rules = "sudden death"
		case spec.Order == mode.Sequential:
			rules = "timed, in order"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), spec.Key, spec.Name, rules})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true})
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func bounds(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}
