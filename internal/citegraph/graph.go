// Package citegraph derives the cites / cited-by graph between library
// documents from their reference lists.
package citegraph

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matsen/citenet/internal/paper"
)

// MinFuzzyTitleLength is the shortest lower-cased title, in characters, that
// may match a reference by substring.
const MinFuzzyTitleLength = 11

// Rebuild recomputes every record's Cites and CitedBy from scratch and returns
// the updated records. The input map is not modified.
//
// Every ordered pair is compared, so cost is O(n² · r). Large libraries would
// need a title and ID lookup table built once per rebuild.
func Rebuild(records map[string]paper.Paper) map[string]paper.Paper {
	keys := sortedKeys(records)

	out := make(map[string]paper.Paper, len(records))
	refText := make(map[string][]string, len(records))
	for _, k := range keys {
		p := records[k].Clone()
		p.Cites = []string{}
		p.CitedBy = []string{}
		out[k] = p
		refText[k] = lowerTexts(p.References)
	}

	// Sorted iteration keeps both edge lists sorted and duplicate free.
	for _, a := range keys {
		pa := out[a]
		for _, b := range keys {
			if a == b {
				continue
			}
			pb := out[b]
			if !cites(pa.References, refText[a], pb) {
				continue
			}
			pa.Cites = append(pa.Cites, b)
			pb.CitedBy = append(pb.CitedBy, a)
			out[b] = pb
		}
		out[a] = pa
	}
	return out
}

// Cites reports whether a's reference list points at b, by exact external ID
// or by b's title appearing in a reference text.
func Cites(a, b paper.Paper) bool {
	return cites(a.References, lowerTexts(a.References), b)
}

func cites(refs []paper.Reference, lowered []string, b paper.Paper) bool {
	if b.ExternalID != "" {
		for _, r := range refs {
			if r.ExternalID == b.ExternalID {
				return true
			}
		}
	}

	title := strings.ToLower(b.Title)
	if utf8.RuneCountInString(title) < MinFuzzyTitleLength {
		return false
	}
	for _, text := range lowered {
		if strings.Contains(text, title) {
			return true
		}
	}
	return false
}

func lowerTexts(refs []paper.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = strings.ToLower(r.Text)
	}
	return out
}

func sortedKeys(records map[string]paper.Paper) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
