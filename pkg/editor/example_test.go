package editor_test

import (
	"fmt"

	"github.com/matzehuels/paeditor/pkg/automaton"
	"github.com/matzehuels/paeditor/pkg/editor"
)

func Example() {
	a := &automaton.Automaton{
		States: []automaton.State{
			{ID: "s0", Name: "<>", Outgoing: []string{"t0", "t1"}},
			{ID: "s1", Name: "a"},
			{ID: "s2", Name: "b"},
		},
		Transitions: []automaton.Transition{
			{ID: "t0", Name: "a", FromState: "s0", ToState: "s1"},
			{ID: "t1", Name: "b", FromState: "s0", ToState: "s2"},
		},
	}

	g, err := editor.Build(a)
	if err != nil {
		panic(err)
	}
	ed := editor.NewEditor(g)
	ed.ToggleSelection("s1")
	ed.ToggleSelection("s2")
	res, _ := ed.MergeSelected()

	fmt.Println(res.Node.ID, res.Node.Position.X, res.Node.Position.Y)
	for _, e := range ed.Graph().Edges() {
		fmt.Printf("%s: %s -> %s\n", e.ID, e.Source, e.Target)
	}
	// Output:
	// s1, s2 200 50
	// t0: s0 -> s1, s2
	// t1: s0 -> s1, s2
}
