// Package viz renders the citation graph for viewing outside the CLI.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents one indexed paper.
type Node struct {
	ID    string `json:"id"` // filename
	Label string `json:"label"`

	// Tooltip fields
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Year    string `json:"year,omitempty"`

	// "s2" when the paper was resolved online, "local" otherwise
	Source string `json:"source"`

	// Sizing
	CitedByCount int `json:"citedByCount"`
	CitesCount   int `json:"citesCount"`
}

// Edge is a directed citation: Source cites Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
