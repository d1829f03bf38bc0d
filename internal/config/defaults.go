package config

import (
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/hypertyper/internal/model"
)

// Defaults for settings missing from both flags and the config file.
const (
	DefaultMode             = "streak"
	DefaultTimeLimit        = 60 * time.Second
	DefaultGodModeThreshold = 12
	DefaultLookback         = 5
	DefaultPlayer           = "UNK"
	PlayerNameLength        = 3
)

// TimeLimits lists the round lengths offered by the settings menu.
var TimeLimits = []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second, 120 * time.Second}

// GodModeThresholds lists the streak thresholds offered by the settings menu.
var GodModeThresholds = []int{8, 10, 12, 15, 20}

// Default returns the built-in settings.
func Default() model.Config {
	return model.Config{
		Mode:             DefaultMode,
		TimeLimit:        DefaultTimeLimit,
		ShowTimer:        true,
		Sound:            true,
		GodModeThreshold: DefaultGodModeThreshold,
		Lookback:         DefaultLookback,
		Player:           DefaultPlayer,
	}
}

// NormalizePlayer upper-cases name, keeps letters and digits and truncates it
// to three characters. An empty result falls back to DefaultPlayer.
func NormalizePlayer(name string) string {
	var b strings.Builder
	count := 0
	for _, r := range strings.ToUpper(name) {
		if count == PlayerNameLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			count++
		}
	}
	if b.Len() == 0 {
		return DefaultPlayer
	}
	return b.String()
}

// NextTimeLimit returns the menu option after current, wrapping around.
// Unlisted values jump to the first option.
func NextTimeLimit(current time.Duration) time.Duration {
	for i, d := range TimeLimits {
		if d == current {
			return TimeLimits[(i+1)%len(TimeLimits)]
		}
	}
	return TimeLimits[0]
}

// NextGodModeThreshold cycles the God Mode threshold like NextTimeLimit.
func NextGodModeThreshold(current int) int {
	for i, n := range GodModeThresholds {
		if n == current {
			return GodModeThresholds[(i+1)%len(GodModeThresholds)]
		}
	}
	return GodModeThresholds[0]
}
