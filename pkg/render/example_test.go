package render_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/paeditor/pkg/editor"
	"github.com/matzehuels/paeditor/pkg/render"
)

func ExampleToDOT() {
	g := editor.New()
	_ = g.AddNode(editor.Node{ID: "s0", Label: "<>"})
	_ = g.AddNode(editor.Node{ID: "s1", Label: "a"})
	_ = g.AddEdge(editor.Edge{ID: "t0", Source: "s0", Target: "s1", Label: "a"})
	g.SetRoot("s0")

	dot := render.ToDOT(editor.NewEditor(g).View(), render.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "s0" -> "s1" [label="a"];
}
