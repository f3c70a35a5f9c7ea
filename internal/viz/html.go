package viz

import (
	"bytes"
	"fmt"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// CytoscapeURL is the script loaded by the generated page.
const CytoscapeURL = "https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", "grid" or "tree"
	Title  string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Citation Graph",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid", "tree"}

// GenerateHTML generates a self-contained HTML page for the graph.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}
	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	data := templateData{
		Title:     opts.Title,
		ScriptURL: CytoscapeURL,
		GraphJSON: template.JS("null"),
		Layout:    layoutToCytoscape(opts.Layout),
		Empty:     graph.IsEmpty(),
		NodeCount: len(graph.Nodes),
		EdgeCount: len(graph.Edges),
	}
	if !graph.IsEmpty() {
		graphJSON, err := graph.ToCytoscapeJSON()
		if err != nil {
			return "", err
		}
		data.GraphJSON = template.JS(graphJSON)
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering graph page: %w", err)
	}
	return buf.String(), nil
}

func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid", "tree":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, grid, or tree", layout)
	}
}

type templateData struct {
	Title     string
	ScriptURL string
	GraphJSON template.JS
	Layout    string
	Empty     bool
	NodeCount int
	EdgeCount int
}

// layoutToCytoscape converts user-facing layout names to Cytoscape.js names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	case "tree":
		return "breadthfirst"
	default:
		return "cose"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  {{if not .Empty}}<script src="{{.ScriptURL}}"></script>{{end}}
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      background: #f5f5f5;
    }
    #cy { width: 100%; height: 100vh; background: white; }
    #stats {
      position: absolute; top: 8px; left: 12px;
      font-size: 12px; color: #666; z-index: 10;
    }
    #tooltip {
      position: absolute; display: none; background: white;
      border: 1px solid #ccc; border-radius: 4px; padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15); max-width: 320px;
      font-size: 13px; z-index: 1000; pointer-events: none;
    }
    #tooltip .title { font-weight: bold; margin-bottom: 4px; }
    #tooltip .detail { color: #555; margin: 2px 0; }
    .empty-state {
      display: flex; flex-direction: column; justify-content: center;
      align-items: center; height: 100vh; color: #666;
    }
  </style>
</head>
<body>
{{if .Empty}}
  <div class="empty-state">
    <h2>No citations yet</h2>
    <p>Add PDFs to the library and run <code>citenet scan</code>.</p>
  </div>
{{else}}
  <div id="stats">{{.NodeCount}} papers, {{.EdgeCount}} citations</div>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': '#B0B7BF',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'mapData(citedByCount, 0, 10, 20, 50)',
              'height': 'mapData(citedByCount, 0, 10, 20, 50)'
            }
          },
          {
            selector: 'node[source="s2"]',
            style: { 'background-color': '#4A90D9' }
          },
          {
            selector: 'edge',
            style: {
              'line-color': '#95A5A6',
              'target-arrow-color': '#95A5A6',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'width': 1.5
            }
          },
          { selector: '.dimmed', style: { 'opacity': 0.15 } },
          { selector: '.highlighted', style: { 'opacity': 1 } }
        ],
        layout: { name: layout, animate: false }
      });

      const tooltip = document.getElementById('tooltip');

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                          .replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;')
                          .replace(/"/g, '&quot;');
      }

      cy.on('mouseover', 'node', function(evt) {
        const d = evt.target.data();
        let html = '<div class="title">' + escapeHtml(d.title) + '</div>';
        if (d.authors) html += '<div class="detail">' + escapeHtml(d.authors) + '</div>';
        if (d.year) html += '<div class="detail">' + escapeHtml(d.year) + '</div>';
        html += '<div class="detail">' + escapeHtml(d.id) + '</div>';
        html += '<div class="detail">cites ' + d.citesCount + ', cited by ' + d.citedByCount + '</div>';
        tooltip.innerHTML = html;
        tooltip.style.left = (evt.renderedPosition.x + 15) + 'px';
        tooltip.style.top = (evt.renderedPosition.y + 15) + 'px';
        tooltip.style.display = 'block';
      });

      cy.on('mouseout', 'node', function() {
        tooltip.style.display = 'none';
      });

      cy.on('tap', 'node', function(evt) {
        const neighborhood = evt.target.closedNeighborhood();
        cy.elements().removeClass('highlighted dimmed');
        neighborhood.addClass('highlighted');
        cy.elements().not(neighborhood).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          cy.elements().removeClass('highlighted dimmed');
        }
      });
    })();
  </script>
{{end}}
</body>
</html>`
