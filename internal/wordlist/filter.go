// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/hypertyper/internal/mode"
)

const minPlainWordLen = 3

// FilterFunc normalizes a raw line and reports whether it should be kept.
type FilterFunc func(string) (string, bool)

// FilterForMode returns the line filter for a mode's list.
func FilterForMode(spec mode.Spec) FilterFunc {
	if spec.Exact {
		return filterExact
	}
	return filterPlain
}

func filterExact(line string) (string, bool) {
	line = strings.TrimSpace(line)
	return line, line != ""
}

func filterPlain(line string) (string, bool) {
	word := strings.ToLower(strings.TrimSpace(line))
	if len([]rune(word)) < minPlainWordLen {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return word, true
}
