package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/hypertyper/internal/mode"
)

func TestReadWordsEmpty(t *testing.T) {
	_, err := ReadWords(strings.NewReader("a\nb\n\n"), FilterForMode(mode.Food.Spec()))
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLoadPrefersDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foods.txt")
	if err := os.WriteFile(path, []byte("Tortilla\nx\nGnocchi\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	words, source, err := Load(mode.Food.Spec(), []string{filepath.Join(dir, "missing"), dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source != path {
		t.Fatalf("expected source %s, got %s", path, source)
	}
	if len(words) != 2 || words[0] != "tortilla" || words[1] != "gnocchi" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	for _, m := range mode.All() {
		words, source, err := Load(m.Spec(), []string{t.TempDir()})
		if err != nil {
			t.Fatalf("load %s: %v", m, err)
		}
		if source != EmbeddedSource {
			t.Fatalf("expected embedded source for %s, got %s", m, source)
		}
		if len(words) == 0 {
			t.Fatalf("expected embedded words for %s", m)
		}
	}
}
