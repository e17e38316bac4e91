package editor

import (
	"testing"

	"github.com/matzehuels/paeditor/pkg/automaton"
)

// scenario is the three-state automaton: <> --a--> s1, <> --b--> s2.
func scenario() *automaton.Automaton {
	return &automaton.Automaton{
		States: []automaton.State{
			{ID: "s0", Name: "<>", Outgoing: []string{"t0", "t1"}},
			{ID: "s1", Name: "a", Outgoing: []string{}},
			{ID: "s2", Name: "b", Outgoing: []string{}},
		},
		Transitions: []automaton.Transition{
			{ID: "t0", Name: "a", FromState: "s0", ToState: "s1"},
			{ID: "t1", Name: "b", FromState: "s0", ToState: "s2"},
		},
	}
}

// deep is a two-level tree:
//
//	s0 -> s1 -> s3, s4
//	s0 -> s2 -> s5, s6
func deep() *automaton.Automaton {
	return &automaton.Automaton{
		States: []automaton.State{
			{ID: "s0", Name: "<>", Outgoing: []string{"t0", "t1"}},
			{ID: "s1", Name: "<a>", Outgoing: []string{"t2", "t3"}},
			{ID: "s2", Name: "<b>", Outgoing: []string{"t4", "t5"}},
			{ID: "s3", Name: "<a,c>"},
			{ID: "s4", Name: "<a,d>"},
			{ID: "s5", Name: "<b,c>"},
			{ID: "s6", Name: "<b,d>"},
		},
		Transitions: []automaton.Transition{
			{ID: "t0", Name: "a", FromState: "s0", ToState: "s1"},
			{ID: "t1", Name: "b", FromState: "s0", ToState: "s2"},
			{ID: "t2", Name: "c", FromState: "s1", ToState: "s3"},
			{ID: "t3", Name: "d", FromState: "s1", ToState: "s4"},
			{ID: "t4", Name: "c", FromState: "s2", ToState: "s5"},
			{ID: "t5", Name: "d", FromState: "s2", ToState: "s6"},
		},
	}
}

func mustBuild(t *testing.T, a *automaton.Automaton, opts ...Option) *Graph {
	t.Helper()
	g, err := Build(a, opts...)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func nodeIDs(g *Graph) []string {
	ids := make([]string, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func assertIntegrity(t *testing.T, g *Graph) {
	t.Helper()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	seen := make(map[string]bool)
	for _, n := range g.Nodes() {
		if seen[n.ID] {
			t.Fatalf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
}
