// Package visualizer renders a sample of an edge file as an interactive
// D3.js force graph.
package visualizer

import (
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/kgimport/pkg/graph"
)

// DefaultLimit is the number of edges drawn when no limit is given.
const DefaultLimit = 500

const d3Template = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <script src="https://d3js.org/d3.v7.min.js"></script>
    <style>
        body { 
            margin: 0;
            font-family: Arial, sans-serif;
        }
        #graph {
            width: 100%;
            height: 100vh;
            background-color: #f5f5f5;
        }
        .node {
            stroke: #fff;
            stroke-width: 1.5px;
        }
        .link {
            stroke: #999;
            stroke-opacity: 0.6;
        }
        .node-label {
            font-size: 10px;
            pointer-events: none;
        }
        .controls {
            position: absolute;
            top: 10px;
            left: 10px;
            background-color: rgba(255,255,255,0.8);
            padding: 10px;
            border-radius: 5px;
            box-shadow: 0 0 10px rgba(0,0,0,0.1);
        }
    </style>
</head>
<body>
    <div id="graph"></div>
    <div class="controls">
        <h3>{{.Title}}</h3>
        <p>Nodes: {{.NodeCount}}, Edges: {{.EdgeCount}}{{if .Truncated}} (sample of {{.TotalEdges}}){{end}}</p>
        <div>
            <label for="language-filter">Language</label>
            <select id="language-filter">
                <option value="all">all</option>
            </select>
        </div>
    </div>

    <script>
        const data = {{.Graph}};
        const width = window.innerWidth, height = window.innerHeight;

        const simulation = d3.forceSimulation(data.nodes)
            .force("link", d3.forceLink(data.edges).id(d => d.id).distance(100))
            .force("charge", d3.forceManyBody().strength(-300))
            .force("center", d3.forceCenter(width / 2, height / 2));

        const svg = d3.select("#graph")
            .append("svg")
            .attr("width", "100%")
            .attr("height", "100%")
            .call(d3.zoom().on("zoom", (event) => {
                g.attr("transform", event.transform);
            }));
        const g = svg.append("g");

        // d.type is the concept's language.
        const languages = [...new Set(data.nodes.map(d => d.type))].sort();
        const color = d3.scaleOrdinal(d3.schemeCategory10).domain(languages);
        const picker = d3.select("#language-filter");
        languages.forEach(lang => picker.append("option").attr("value", lang).text(lang));

        const link = g.append("g")
            .selectAll("line")
            .data(data.edges)
            .enter()
            .append("line")
            .attr("class", "link")
            .attr("stroke-width", d => Math.max(1, Math.sqrt(Math.abs(d.weight)) * 2));
        link.append("title")
            .text(d => d.type + " (" + d.weight + ")" + (d.surface ? ": " + d.surface : ""));

        const node = g.append("g")
            .selectAll("circle")
            .data(data.nodes)
            .enter()
            .append("circle")
            .attr("class", "node")
            .attr("r", 8)
            .attr("fill", d => color(d.type))
            .call(d3.drag()
                .on("start", grab)
                .on("drag", move)
                .on("end", release));
        node.append("title").text(d => d.id);

        const label = g.append("g")
            .selectAll("text")
            .data(data.nodes)
            .enter()
            .append("text")
            .attr("class", "node-label")
            .attr("dx", 12)
            .attr("dy", ".35em")
            .text(d => d.label);

        simulation.on("tick", () => {
            link
                .attr("x1", d => d.source.x)
                .attr("y1", d => d.source.y)
                .attr("x2", d => d.target.x)
                .attr("y2", d => d.target.y);
            node
                .attr("cx", d => d.x)
                .attr("cy", d => d.y);
            label
                .attr("x", d => d.x)
                .attr("y", d => d.y);
        });

        // An edge stays visible while either end is in the chosen language.
        picker.on("change", function() {
            const lang = this.value;
            const shown = d => lang === "all" || d.type === lang;
            const vis = ok => ok ? "visible" : "hidden";
            node.style("visibility", d => vis(shown(d)));
            label.style("visibility", d => vis(shown(d)));
            link.style("visibility", d => vis(shown(d.source) || shown(d.target)));
        });

        function grab(event, d) {
            if (!event.active) simulation.alphaTarget(0.3).restart();
            d.fx = d.x;
            d.fy = d.y;
        }

        function move(event, d) {
            d.fx = event.x;
            d.fy = event.y;
        }

        function release(event, d) {
            if (!event.active) simulation.alphaTarget(0);
            d.fx = null;
            d.fy = null;
        }
    </script>
</body>
</html>
`

var page = template.Must(template.New("d3").Parse(d3Template))

// Node is one concept in the rendered graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Link is one edge in the rendered graph. Source and Target are node ids.
type Link struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Type    string  `json:"type"`
	Weight  float64 `json:"weight"`
	Surface string  `json:"surface,omitempty"`
}

// Graph is the data handed to the page.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Link `json:"edges"`
}

// D3Visualizer collects edges up to a limit and writes them as an HTML page.
type D3Visualizer struct {
	title string
	limit int
	total int
	index map[string]bool
	graph Graph
}

// NewD3Visualizer creates a visualizer drawing at most limit edges. A
// non-positive limit selects DefaultLimit.
func NewD3Visualizer(title string, limit int) *D3Visualizer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &D3Visualizer{title: title, limit: limit, index: make(map[string]bool)}
}

// Add records e, dropping it once the limit is reached. It has the shape of
// the edge readers' callback.
func (v *D3Visualizer) Add(e graph.Edge) error {
	v.total++
	if len(v.graph.Edges) >= v.limit {
		return nil
	}
	for _, id := range []string{e.Start.String(), e.End.String()} {
		if v.index[id] {
			continue
		}
		v.index[id] = true
		n := e.Start
		if id != n.String() {
			n = e.End
		}
		v.graph.Nodes = append(v.graph.Nodes, Node{ID: id, Label: n.Text(), Type: n.Language()})
	}
	v.graph.Edges = append(v.graph.Edges, Link{
		Source:  e.Start.String(),
		Target:  e.End.String(),
		Type:    string(e.Rel),
		Weight:  e.Weight,
		Surface: e.SurfaceText,
	})
	return nil
}

// Graph returns the collected sample.
func (v *D3Visualizer) Graph() Graph { return v.graph }

// Render writes the page to w.
func (v *D3Visualizer) Render(w io.Writer) error {
	data := struct {
		Title      string
		Graph      Graph
		NodeCount  int
		EdgeCount  int
		TotalEdges int
		Truncated  bool
	}{
		Title:      v.title,
		Graph:      v.graph,
		NodeCount:  len(v.graph.Nodes),
		EdgeCount:  len(v.graph.Edges),
		TotalEdges: v.total,
		Truncated:  v.total > len(v.graph.Edges),
	}
	return errors.Wrap(page.Execute(w, data), "render graph page")
}

// WriteFile renders the page into path, creating its directory.
func (v *D3Visualizer) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := v.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
