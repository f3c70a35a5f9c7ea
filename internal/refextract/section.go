// Package refextract pulls a plain-text reference list out of document text
// when no bibliographic service result is available.
//
// Extraction is a two-stage pipeline. LocateSection finds the body of the
// last references heading; SplitEntries cuts that body on enumerators and
// normalizes the pieces.
package refextract

import (
	"regexp"
	"strconv"
	"strings"
)

// Markers are the headings that open a references section. Korean headings
// tolerate whitespace between characters, which PDF text extraction often
// inserts.
var Markers = []string{
	`References`,
	`REFERENCES`,
	`Bibliography`,
	`BIBLIOGRAPHY`,
	`참\s*고\s*문\s*헌`,
}

// MaxMarkerPrefix is how many characters may precede the marker on its line,
// e.g. a section number such as "7. ".
const MaxMarkerPrefix = 15

var sectionPattern = regexp.MustCompile(
	`(?m)^[^\n]{0,` + strconv.Itoa(MaxMarkerPrefix) + `}?(?:` + strings.Join(Markers, "|") + `)[ \t]*\r?\n`,
)

// LocateSection returns the text following the last references heading and
// whether one was found. Earlier headings, such as a table of contents entry,
// are ignored.
func LocateSection(text string) (string, bool) {
	locs := sectionPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return "", false
	}
	return text[locs[len(locs)-1][1]:], true
}
