package citegraph

import (
	"cmp"
	"slices"

	"github.com/matsen/citenet/internal/paper"
)

// Edge is one directed citation: Source cites Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Edges lists every cites edge, sorted by source then target.
func Edges(records map[string]paper.Paper) []Edge {
	edges := []Edge{}
	for _, k := range sortedKeys(records) {
		for _, t := range records[k].Cites {
			edges = append(edges, Edge{Source: k, Target: t})
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		return cmp.Or(cmp.Compare(x.Source, y.Source), cmp.Compare(x.Target, y.Target))
	})
	return edges
}

// Violation reasons reported by Check.
const (
	ReasonSelfEdge       = "self_edge"
	ReasonMissingPaper   = "missing_paper"
	ReasonMissingCitedBy = "missing_cited_by"
	ReasonMissingCites   = "missing_cites"
	ReasonDuplicateEdge  = "duplicate_edge"
)

// Violation describes one inconsistency in the stored graph.
type Violation struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Check reports self edges, edges to unknown papers, duplicates and
// asymmetric pairs (b in a.cites without a in b.cited_by, or the reverse).
// A freshly rebuilt graph has no violations.
func Check(records map[string]paper.Paper) []Violation {
	var out []Violation

	for _, a := range sortedKeys(records) {
		p := records[a]

		seen := make(map[string]bool, len(p.Cites))
		for _, b := range p.Cites {
			switch {
			case seen[b]:
				out = append(out, Violation{a, b, ReasonDuplicateEdge})
				continue
			case b == a:
				out = append(out, Violation{a, b, ReasonSelfEdge})
			}
			seen[b] = true

			target, ok := records[b]
			if !ok {
				out = append(out, Violation{a, b, ReasonMissingPaper})
				continue
			}
			if b != a && !slices.Contains(target.CitedBy, a) {
				out = append(out, Violation{a, b, ReasonMissingCitedBy})
			}
		}

		seenBy := make(map[string]bool, len(p.CitedBy))
		for _, src := range p.CitedBy {
			switch {
			case seenBy[src]:
				out = append(out, Violation{src, a, ReasonDuplicateEdge})
				continue
			case src == a:
				// Already reported from the cites side when present there.
				if !slices.Contains(p.Cites, a) {
					out = append(out, Violation{src, a, ReasonSelfEdge})
				}
			}
			seenBy[src] = true

			source, ok := records[src]
			if !ok {
				out = append(out, Violation{src, a, ReasonMissingPaper})
				continue
			}
			if src != a && !slices.Contains(source.Cites, a) {
				out = append(out, Violation{src, a, ReasonMissingCites})
			}
		}
	}
	return out
}
