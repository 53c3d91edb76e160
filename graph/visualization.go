package graph

import (
	"fmt"
	"strings"
)

// Exporter renders the upstream closure of a set of root vertices as a
// diagram. It only reads the graph.
type Exporter struct {
	nodes []NodeInfo
	roots map[string]bool
}

// NewExporter snapshots the graph reachable from roots.
func NewExporter(roots ...Vertex) *Exporter {
	rs := make(map[string]bool, len(roots))
	for _, r := range roots {
		rs[r.Name()] = true
	}
	return &Exporter{nodes: Walk(roots...), roots: rs}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
	// ShowValues appends the current value to each label
	ShowValues bool
}

// DrawMermaid generates a Mermaid flowchart with edges pointing downstream.
func (ge *Exporter) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (ge *Exporter) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	fmt.Fprintf(&sb, "flowchart %s\n", direction)

	ids := ge.ids()
	for _, n := range ge.nodes {
		label := ge.label(n, opts.ShowValues)
		if n.Derived {
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", ids[n.Name], label)
		} else {
			fmt.Fprintf(&sb, "    %s([\"%s\"])\n", ids[n.Name], label)
		}
	}
	for _, n := range ge.nodes {
		for _, p := range n.Parents {
			fmt.Fprintf(&sb, "    %s --> %s\n", ids[p], ids[n.Name])
		}
	}
	for _, n := range ge.nodes {
		switch {
		case ge.roots[n.Name]:
			fmt.Fprintf(&sb, "    style %s fill:#87CEEB\n", ids[n.Name])
		case !n.Derived:
			fmt.Fprintf(&sb, "    style %s fill:#90EE90\n", ids[n.Name])
		}
	}
	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	ids := ge.ids()
	for _, n := range ge.nodes {
		attrs := fmt.Sprintf("label=%q", ge.label(n, false))
		switch {
		case ge.roots[n.Name]:
			attrs += ", style=filled, fillcolor=lightblue"
		case !n.Derived:
			attrs += ", shape=ellipse, style=filled, fillcolor=lightgreen"
		}
		fmt.Fprintf(&sb, "    %s [%s];\n", ids[n.Name], attrs)
	}
	for _, n := range ge.nodes {
		for _, p := range n.Parents {
			fmt.Fprintf(&sb, "    %s -> %s;\n", ids[p], ids[n.Name])
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// ids assigns diagram-safe identifiers in traversal order; node names may
// contain characters neither format accepts unquoted.
func (ge *Exporter) ids() map[string]string {
	ids := make(map[string]string, len(ge.nodes))
	for i, n := range ge.nodes {
		ids[n.Name] = fmt.Sprintf("n%d", i)
	}
	return ids
}

func (ge *Exporter) label(n NodeInfo, withValue bool) string {
	label := n.Name
	if withValue {
		label = fmt.Sprintf("%s = %v", label, n.Value)
	}
	return strings.ReplaceAll(label, `"`, `'`)
}
