// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/verte-zerg/hypertyper/internal/mode"
)

//go:embed data/*.txt
var embedded embed.FS

// EmbeddedSource is reported as the source of lists loaded from the binary.
const EmbeddedSource = "embedded"

// ErrEmpty is returned when a list has no usable entries after filtering.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads one entry per line from the provided file path.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ReadWords(file, filter)
}

// ReadWords reads one entry per line, keeping those that pass filter.
func ReadWords(r io.Reader, filter FilterFunc) ([]string, error) {
	if filter == nil {
		filter = FilterForMode(mode.Spec{Exact: true})
	}
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word, ok := filter(scanner.Text())
		if !ok {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Load resolves the list for spec from dirs in order and falls back to the
// embedded copy. It returns the words and the path they came from.
func Load(spec mode.Spec, dirs []string) ([]string, string, error) {
	filter := FilterForMode(spec)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, spec.File)
		words, err := LoadWords(path, filter)
		if err == nil {
			return words, path, nil
		}
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrEmpty) {
			continue
		}
		return nil, path, fmt.Errorf("failed to read %s: %w", path, err)
	}
	file, err := embedded.Open("data/" + spec.File)
	if err != nil {
		return nil, EmbeddedSource, fmt.Errorf("no word list for %s: %w", spec.Name, err)
	}
	defer func() {
		_ = file.Close()
	}()
	words, err := ReadWords(file, filter)
	if err != nil {
		return nil, EmbeddedSource, fmt.Errorf("failed to read embedded %s: %w", spec.File, err)
	}
	return words, EmbeddedSource, nil
}
