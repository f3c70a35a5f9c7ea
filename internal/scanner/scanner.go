// Package scanner discovers new documents in the library directory and runs
// the periodic index and rebuild cycle.
package scanner

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns select the files treated as documents.
var DefaultPatterns = []string{"*.pdf"}

// ListCandidates returns the names of regular files directly inside dir that
// match any pattern, in name order. Matching ignores case.
func ListCandidates(dir string, patterns []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing library: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if Matches(e.Name(), patterns) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Matches reports whether name matches one of the glob patterns.
func Matches(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range patterns {
		matched, err := doublestar.Match(strings.ToLower(pattern), lower)
		if err == nil && matched {
			return true
		}
	}
	return false
}
