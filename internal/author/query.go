// Package author matches author filters against the display names stored in
// index records ("Ashish Vaswani", "A. Vaswani", "Vaswani, Ashish").
package author

import "strings"

// Name is a display name split into given names and family name.
type Name struct {
	First string
	Last  string
}

// Split parses a display name. "Last, First" is honored; otherwise the final
// word is the family name and everything before it the given names.
func Split(name string) Name {
	name = strings.TrimSpace(name)
	if name == "" {
		return Name{}
	}

	if idx := strings.Index(name, ","); idx > 0 {
		return Name{
			First: strings.TrimSpace(name[idx+1:]),
			Last:  strings.TrimSpace(name[:idx]),
		}
	}

	parts := strings.Fields(name)
	if len(parts) == 1 {
		return Name{Last: parts[0]}
	}
	return Name{
		First: strings.Join(parts[:len(parts)-1], " "),
		Last:  parts[len(parts)-1],
	}
}

// Query is a parsed author filter. A single word is a family name only.
type Query Name

// ParseQuery parses an author filter with the same rules as Split.
func ParseQuery(input string) Query {
	return Query(Split(input))
}

// Matches reports whether the query matches a display name. The family name
// must match case-insensitively; a given name in the query is a
// case-insensitive prefix of the candidate's given names, ignoring dots, so
// "Tim Yu" matches "Timothy C Yu" and "T Yu" matches "T. Yu", but "Yu" does
// not match "Yujia Chen".
func (q Query) Matches(name string) bool {
	if q.Last == "" {
		return false
	}
	n := Split(name)
	if !strings.EqualFold(q.Last, n.Last) {
		return false
	}
	if q.First == "" {
		return true
	}
	return strings.HasPrefix(normalizeGiven(n.First), normalizeGiven(q.First))
}

// MatchesAny checks if the query matches any of the names.
func (q Query) MatchesAny(names []string) bool {
	for _, n := range names {
		if q.Matches(n) {
			return true
		}
	}
	return false
}

// AllMatch checks if all queries match at least one name each.
// This implements AND logic for multiple author filters.
func AllMatch(queries []Query, names []string) bool {
	for _, q := range queries {
		if !q.MatchesAny(names) {
			return false
		}
	}
	return true
}

func normalizeGiven(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, ".", ""))
}
