package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/hypertyper/internal/clock"
	"github.com/verte-zerg/hypertyper/internal/combo"
	"github.com/verte-zerg/hypertyper/internal/model"
	"github.com/verte-zerg/hypertyper/internal/score"
)

func TestRenderHUDFormats(t *testing.T) {
	cs := combo.State{Streak: 3, Tier: combo.Tier{Level: 1, Name: "FLOW STATE", Multiplier: 15}}
	out := stripStyles(renderHUD(score.State{Points: 42}, cs, clock.Remaining{Duration: 12500 * time.Millisecond}, true))
	if !containsAll(out, []string{"SCORE 42", "TIME 12", "STREAK 3", "FLOW STATE (1.5x)"}) {
		t.Fatalf("hud missing expected segments: %s", out)
	}
}

func TestRenderHUDTimer(t *testing.T) {
	out := stripStyles(renderHUD(score.State{}, combo.State{}, clock.Remaining{Unbounded: true}, true))
	if !strings.Contains(out, "TIME --") {
		t.Fatalf("expected untimed marker: %s", out)
	}
	out = stripStyles(renderHUD(score.State{}, combo.State{}, clock.Remaining{Duration: time.Minute}, false))
	if strings.Contains(out, "TIME") {
		t.Fatalf("expected hidden timer: %s", out)
	}
}

func TestRenderFooterCorrections(t *testing.T) {
	out := stripStyles(renderFooter("Food", false))
	if !containsAll(out, []string{"Food", "enter: submit", "esc: pause"}) || strings.Contains(out, "backspace") {
		t.Fatalf("unexpected footer: %s", out)
	}
	if out := stripStyles(renderFooter("Food", true)); !strings.Contains(out, "backspace: fix") {
		t.Fatalf("expected corrections hint: %s", out)
	}
}

func TestEndTitle(t *testing.T) {
	cases := map[model.EndReason]string{
		model.EndExpired:   "TIME'S UP",
		model.EndFailed:    "GAME OVER",
		model.EndExhausted: "ALL DONE",
		model.EndQuit:      "ROUND ENDED",
	}
	for reason, want := range cases {
		if got := endTitle(reason); got != want {
			t.Fatalf("endTitle(%s) = %q, want %q", reason, got, want)
		}
	}
}

func TestRenderSummaryCommitFailure(t *testing.T) {
	rec := model.SessionRecord{Mode: "food", Score: 12, Words: 3, Attempts: 4, Chars: 15, Duration: time.Minute, EndReason: model.EndExpired}
	out := stripStyles(renderSummary(rec, false, model.LeaderboardEntry{Record: model.SessionRecord{Score: 50, Player: "ZED"}}, true, 0, errTest, ""))
	if !containsAll(out, []string{"TIME'S UP", "SCORE 12", "words 3/4", "3.0 WPM", "best 50 by ZED", "s: retry save"}) {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if strings.Contains(out, "rank #") {
		t.Fatalf("expected no rank for unsaved record:\n%s", out)
	}
}

func TestRenderSummaryInitialsPrompt(t *testing.T) {
	rec := model.SessionRecord{Mode: "food", Player: "UNK", Score: 80, Words: 8, Attempts: 8, Duration: time.Minute, EndReason: model.EndExpired}
	out := stripStyles(renderSummary(rec, true, model.LeaderboardEntry{}, false, 1, nil, "initials: AB"))
	if !containsAll(out, []string{"NEW HIGH SCORE!", "by UNK", "initials: AB", "enter: save  esc: skip"}) {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if strings.Contains(out, "r: retry") {
		t.Fatalf("expected key hints to be replaced by the prompt:\n%s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
