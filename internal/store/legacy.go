package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/hypertyper/internal/mode"
	"github.com/verte-zerg/hypertyper/internal/model"
)

// legacyPlayer is the name older score files attach to bare integers.
const legacyPlayer = "CPU"

type legacyEntry struct {
	Score int    `json:"score"`
	Name  string `json:"name"`
}

// ParseLegacy reads a highscores.json file written by earlier releases.
// Both {"Mode": 100} and {"Mode": {"score": 100, "name": "ABC"}} are
// accepted. Zero scores and unknown modes are skipped.
func ParseLegacy(r io.Reader, importedAt time.Time) ([]model.SessionRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode legacy scores: %w", err)
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var records []model.SessionRecord
	for _, name := range names {
		m, err := mode.Parse(name)
		if err != nil {
			continue
		}
		entry, ok := decodeLegacyEntry(raw[name])
		if !ok || entry.Score <= 0 {
			continue
		}
		player := entry.Name
		if player == "" || player == "---" {
			player = legacyPlayer
		}
		records = append(records, model.SessionRecord{
			ID:        legacyID(m.String(), player, entry.Score),
			Mode:      m.String(),
			Player:    player,
			Score:     entry.Score,
			StartedAt: importedAt,
			EndedAt:   importedAt,
			EndReason: model.EndQuit,
		})
	}
	return records, nil
}

func decodeLegacyEntry(msg json.RawMessage) (legacyEntry, bool) {
	var score int
	if err := json.Unmarshal(msg, &score); err == nil {
		return legacyEntry{Score: score, Name: legacyPlayer}, true
	}
	var entry legacyEntry
	if err := json.Unmarshal(msg, &entry); err == nil {
		return entry, true
	}
	return legacyEntry{}, false
}

// legacyID is stable so importing the same file twice is detectable.
func legacyID(modeKey, player string, score int) string {
	name := "hypertyper-legacy:" + modeKey + ":" + player + ":" + strconv.Itoa(score)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
