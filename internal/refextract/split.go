package refextract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinEntryLength is the shortest normalized entry kept, in characters.
	MinEntryLength = 11

	// MaxEntries caps the entries returned for one document.
	MaxEntries = 80
)

// Enumerator boundaries, tried in order: "[n]" alone on a line, "[n]" at line
// start, "n." at line start, "n)" at line start.
var enumeratorPattern = regexp.MustCompile(
	`\n\s*\[[0-9]+\]\s*\n|\n\s*\[[0-9]+\]\s*|\n\s*[0-9]+\.\s*|\n\s*[0-9]+\)\s*`,
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// SplitEntries cuts a references section body into normalized entries.
// Entries shorter than MinEntryLength are dropped and at most MaxEntries are
// returned.
func SplitEntries(section string) []string {
	// A leading newline lets the first enumerator split like the rest.
	parts := enumeratorPattern.Split("\n"+section, -1)

	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		e := Normalize(p)
		if utf8.RuneCountInString(e) < MinEntryLength {
			continue
		}
		entries = append(entries, e)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries
}

// Normalize collapses runs of whitespace to single spaces and trims.
func Normalize(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
