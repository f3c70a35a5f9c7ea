package viz

import (
	"fmt"
	"strconv"
	"strings"
)

// ToDOT renders the graph in Graphviz DOT format. Resolved papers are drawn
// filled, locally extracted ones outlined.
func (g *GraphData) ToDOT() string {
	var b strings.Builder
	b.WriteString("digraph citations {\n")
	b.WriteString("  rankdir=BT;\n")
	b.WriteString("  node [shape=box, fontsize=10];\n")

	for _, n := range g.Nodes {
		style := ""
		if n.Source == SourceS2 {
			style = `, style=filled, fillcolor="#dbe9f7"`
		}
		fmt.Fprintf(&b, "  %s [label=%s, tooltip=%s%s];\n",
			strconv.Quote(n.ID), strconv.Quote(n.Label), strconv.Quote(n.Title), style)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", strconv.Quote(e.Source), strconv.Quote(e.Target))
	}

	b.WriteString("}\n")
	return b.String()
}
