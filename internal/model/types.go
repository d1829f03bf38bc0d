// Package model defines shared data structures.
package model

import "time"

// Config defines round settings resolved from flags and the config file.
type Config struct {
	Mode             string
	TimeLimit        time.Duration
	ShowTimer        bool
	Sound            bool
	GodModeThreshold int
	Lookback         int
	Corrections      bool
	Player           string
	DataDir          string
}

// Challenge is a single target string issued to the player.
type Challenge struct {
	Text  string
	Mode  string
	Index int
}

// EndReason records why a round stopped.
type EndReason string

// Round end reasons.
const (
	EndExpired   EndReason = "expired"
	EndQuit      EndReason = "quit"
	EndExhausted EndReason = "exhausted"
	EndFailed    EndReason = "failed"
)

// SessionRecord is the finalized snapshot of a completed round.
type SessionRecord struct {
	ID         string
	Mode       string
	Player     string
	Score      int
	MaxStreak  int
	Words      int
	Chars      int
	Attempts   int
	Keystrokes int
	Errors     int
	StartedAt  time.Time
	EndedAt    time.Time
	Duration   time.Duration
	EndReason  EndReason
}

// LeaderboardEntry is a stored record with its rank.
type LeaderboardEntry struct {
	Rank   int
	Record SessionRecord
}

// RecordFilter narrows record listings.
type RecordFilter struct {
	Mode  string
	Since *time.Time
	Last  int
}
