package viz

import (
	"maps"
	"slices"
	"strings"

	"github.com/matsen/citenet/internal/citegraph"
	"github.com/matsen/citenet/internal/paper"
)

// Node sources.
const (
	SourceS2    = "s2"
	SourceLocal = "local"
)

// LabelMaxLen bounds node labels; the full title is kept for tooltips.
const LabelMaxLen = 40

// BuildGraph constructs the visualization graph from index records.
// Isolated papers are dropped unless includeIsolated is set.
func BuildGraph(records map[string]paper.Paper, includeIsolated bool) *GraphData {
	edges := citegraph.Edges(records)

	connected := make(map[string]bool)
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		// Edges are only drawn between papers that have a node.
		if _, ok := records[e.Target]; !ok {
			continue
		}
		connected[e.Source] = true
		connected[e.Target] = true
		out = append(out, Edge{Source: e.Source, Target: e.Target})
	}

	nodes := make([]Node, 0, len(records))
	for _, s := range summariesSorted(records) {
		if !includeIsolated && !connected[s.Filename] {
			continue
		}
		nodes = append(nodes, buildNode(records[s.Filename], s))
	}

	return &GraphData{Nodes: nodes, Edges: out}
}

func buildNode(p paper.Paper, s paper.Summary) Node {
	source := SourceLocal
	if p.HasExternalID() {
		source = SourceS2
	}
	return Node{
		ID:           s.Filename,
		Label:        truncateLabel(s.Title, LabelMaxLen),
		Title:        s.Title,
		Authors:      formatAuthors(s.Authors, 3),
		Year:         s.Year,
		Source:       source,
		CitedByCount: s.CitedByCount,
		CitesCount:   s.CitesCount,
	}
}

// summariesSorted returns summaries in filename order.
func summariesSorted(records map[string]paper.Paper) []paper.Summary {
	sums := make([]paper.Summary, 0, len(records))
	for _, k := range slices.Sorted(maps.Keys(records)) {
		sums = append(sums, records[k].Summarize())
	}
	return sums
}

// formatAuthors joins up to maxCount names, adding "et al." when there are more.
func formatAuthors(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + " et al."
}

func truncateLabel(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
