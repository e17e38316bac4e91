package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/paeditor/pkg/editor"
)

// unitsPerInch converts editor canvas units to Graphviz inches for pinned
// layouts.
const unitsPerInch = 100.0

// Options configures DOT generation.
type Options struct {
	// Pinned places nodes at their editor positions instead of letting
	// Graphviz rank them.
	Pinned bool

	// ShowIDs appends the state id under each label. Useful after merges,
	// where ids and labels diverge.
	ShowIDs bool
}

// ToDOT converts an editor snapshot to Graphviz DOT source.
// Nodes appear in collection order and edges in insertion order.
func ToDOT(v editor.View, opts Options) string {
	selected := make(map[string]bool, len(v.Selection))
	for _, id := range v.Selection {
		selected[id] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Pinned {
		buf.WriteString("  layout=neato;\n")
		buf.WriteString("  overlap=true;\n")
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
		buf.WriteString("  ranksep=0.8;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.ShowIDs), n.ID == v.Root, selected[n.ID])
		if opts.Pinned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"", n.Position.X/unitsPerInch, 0-n.Position.Y/unitsPerInch))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges {
		if e.Label == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n editor.Node, showID bool) string {
	if !showID || n.ID == n.Label {
		return n.Label
	}
	return n.Label + "\n" + n.ID
}

func fmtAttrs(n editor.Node, label string, root, selected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if root {
		attrs = append(attrs, "shape=doublecircle")
	}
	if selected {
		attrs = append(attrs, "fillcolor=\"#fcd34d\"", "penwidth=2")
	}
	return attrs
}
