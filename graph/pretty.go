package graph

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	derivedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	valueStyle   = lipgloss.NewStyle().Faint(true)
	dirtyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	branchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// PrettyPrint writes root and its ancestors as a tree, root first. A vertex
// reached again through another path is printed once and referenced by
// name afterwards.
func PrettyPrint(w io.Writer, root Vertex) error {
	seen := make(map[Vertex]bool)
	t := buildTree(root, seen).
		EnumeratorStyle(branchStyle).
		Enumerator(tree.RoundedEnumerator)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func buildTree(v Vertex, seen map[Vertex]bool) *tree.Tree {
	if seen[v] {
		return tree.Root(vertexLabel(v) + valueStyle.Render(" (see above)"))
	}
	seen[v] = true
	t := tree.Root(vertexLabel(v))
	for _, p := range v.Parents() {
		if len(p.Parents()) == 0 || seen[p] {
			t.Child(leafLabel(p, seen))
			continue
		}
		t.Child(buildTree(p, seen))
	}
	return t
}

func leafLabel(v Vertex, seen map[Vertex]bool) string {
	if seen[v] && len(v.Parents()) > 0 {
		return vertexLabel(v) + valueStyle.Render(" (see above)")
	}
	seen[v] = true
	return vertexLabel(v)
}

func vertexLabel(v Vertex) string {
	name := sourceStyle.Render(v.Name())
	if v.Derived() {
		name = derivedStyle.Render(v.Name())
	}
	label := name + valueStyle.Render(fmt.Sprintf(" = %v", v.Value()))
	if v.Dirty() {
		label += dirtyStyle.Render(" *")
	}
	return label
}
