package editor

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/paeditor/pkg/automaton"
)

func TestMergeScenario(t *testing.T) {
	g := mustBuild(t, scenario())

	res, ok := g.Merge([]string{"s1", "s2"})
	if !ok {
		t.Fatal("Merge returned false")
	}

	if got := nodeIDs(g); !slices.Equal(got, []string{"s0", "s1, s2"}) {
		t.Fatalf("nodes = %v, want [s0 s1, s2]", got)
	}
	n, _ := g.Node("s1, s2")
	if n.Label != "a, b" {
		t.Errorf("label = %q, want %q", n.Label, "a, b")
	}
	if n.Position != (Position{200, 50}) {
		t.Errorf("position = %v, want {200 50}", n.Position)
	}
	for _, e := range g.Edges() {
		if e.Source != "s0" || e.Target != "s1, s2" {
			t.Errorf("edge %s = %s -> %s, want s0 -> s1, s2", e.ID, e.Source, e.Target)
		}
	}
	if res.Rewritten != 2 || res.SelfLoops != 0 || res.RootMerged {
		t.Errorf("result = %+v", res)
	}
	if !slices.Equal(res.Merged, []string{"s1", "s2"}) {
		t.Errorf("merged = %v", res.Merged)
	}
	assertIntegrity(t, g)
}

func TestMergeUsesCollectionOrder(t *testing.T) {
	a := mustBuild(t, scenario())
	b := mustBuild(t, scenario())

	ra, _ := a.Merge([]string{"s2", "s1"})
	rb, _ := b.Merge([]string{"s1", "s2", "s1"})

	if ra.Node.ID != "s1, s2" || rb.Node.ID != "s1, s2" {
		t.Errorf("ids = %q, %q, want both %q", ra.Node.ID, rb.Node.ID, "s1, s2")
	}
	if ra.Node != rb.Node {
		t.Errorf("nodes differ: %+v vs %+v", ra.Node, rb.Node)
	}
}

func TestMergeSingleton(t *testing.T) {
	g := mustBuild(t, scenario())
	before, _ := g.Node("s1")

	res, ok := g.Merge([]string{"s1"})
	if !ok {
		t.Fatal("Merge returned false")
	}
	if res.Node.ID != before.ID || res.Node.Label != before.Label || res.Node.Position != before.Position {
		t.Errorf("singleton merge = %+v, want %+v", res.Node, before)
	}
	if g.NodeCount() != 3 {
		t.Errorf("nodes = %d, want 3", g.NodeCount())
	}
	assertIntegrity(t, g)
}

func TestMergeNoop(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
	}{
		{"Empty", nil},
		{"Unknown", []string{"nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustBuild(t, scenario())
			if _, ok := g.Merge(tt.ids); ok {
				t.Error("Merge returned true")
			}
			if g.NodeCount() != 3 || g.EdgeCount() != 2 {
				t.Errorf("graph changed: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestMergeIgnoresUnknownIDs(t *testing.T) {
	g := mustBuild(t, scenario())

	res, ok := g.Merge([]string{"s1", "ghost", "s2"})
	if !ok {
		t.Fatal("Merge returned false")
	}
	if res.Node.ID != "s1, s2" {
		t.Errorf("id = %q", res.Node.ID)
	}
}

func TestMergeSelfLoops(t *testing.T) {
	g := mustBuild(t, scenario())
	if err := g.AddEdge(Edge{ID: "x", Source: "s1", Target: "s2"}); err != nil {
		t.Fatal(err)
	}

	res, _ := g.Merge([]string{"s1", "s2"})

	if res.SelfLoops != 1 {
		t.Errorf("self loops = %d, want 1", res.SelfLoops)
	}
	if res.Rewritten != 3 {
		t.Errorf("rewritten = %d, want 3", res.Rewritten)
	}
	if g.EdgeCount() != 3 {
		t.Errorf("edges = %d, want 3", g.EdgeCount())
	}
	last := g.Edges()[2]
	if last.Source != "s1, s2" || last.Target != "s1, s2" {
		t.Errorf("edge x = %+v, want self loop", last)
	}
	assertIntegrity(t, g)
}

func TestMergeKeepsEdgeOrder(t *testing.T) {
	g := mustBuild(t, deep())
	before := g.Edges()

	g.Merge([]string{"s1", "s2"})

	after := g.Edges()
	if len(after) != len(before) {
		t.Fatalf("edges = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Label != before[i].Label {
			t.Errorf("edge %d = %+v, want id %s", i, after[i], before[i].ID)
		}
	}
	if got := len(g.Outgoing("s1, s2")); got != 4 {
		t.Errorf("outgoing of merged node = %d, want 4", got)
	}
}

func TestMergeIDCollision(t *testing.T) {
	g := New()
	for _, id := range []string{"r", "a", "b", "a, b"} {
		if err := g.AddNode(Node{ID: id, Label: id}); err != nil {
			t.Fatal(err)
		}
	}
	g.SetRoot("r")

	res, _ := g.Merge([]string{"a", "b"})

	if res.Node.ID != "a, b (2)" {
		t.Errorf("id = %q, want %q", res.Node.ID, "a, b (2)")
	}
	if !g.HasNode("a, b") {
		t.Error("existing node a, b was removed")
	}
	assertIntegrity(t, g)
}

func TestMergeRoot(t *testing.T) {
	g := mustBuild(t, scenario())

	res, ok := g.Merge([]string{"s0", "s1"})
	if !ok {
		t.Fatal("Merge returned false")
	}
	if !res.RootMerged {
		t.Error("RootMerged = false")
	}
	if g.Root() != "s0, s1" {
		t.Errorf("root = %q, want %q", g.Root(), "s0, s1")
	}
	if res.SelfLoops != 1 {
		t.Errorf("self loops = %d, want 1", res.SelfLoops)
	}
	assertIntegrity(t, g)
}

// chain builds a root with n children, each child linked to the next.
func chain(n int) *automaton.Automaton {
	a := &automaton.Automaton{}
	root := automaton.State{ID: "s0", Name: automaton.RootName}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("s%d", i)
		tid := fmt.Sprintf("t%d", i)
		root.Outgoing = append(root.Outgoing, tid)
		a.Transitions = append(a.Transitions, automaton.Transition{ID: tid, Name: id, FromState: "s0", ToState: id})

		s := automaton.State{ID: id, Name: "<" + id + ">"}
		if i < n {
			next := fmt.Sprintf("u%d", i)
			s.Outgoing = []string{next}
			a.Transitions = append(a.Transitions, automaton.Transition{
				ID: next, Name: "next", FromState: id, ToState: fmt.Sprintf("s%d", i+1),
			})
		}
		a.States = append(a.States, s)
	}
	a.States = append([]automaton.State{root}, a.States...)
	return a
}

func TestMergeSequencesPreserveIntegrity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 20; round++ {
		g := mustBuild(t, chain(12))
		edges := g.EdgeCount()

		for g.NodeCount() > 1 {
			nodes := g.Nodes()
			var pick []string
			for _, n := range nodes {
				if rng.IntN(3) == 0 {
					pick = append(pick, n.ID)
				}
			}
			if len(pick) < 2 {
				pick = []string{nodes[0].ID, nodes[len(nodes)-1].ID}
			}
			before := g.NodeCount()
			res, ok := g.Merge(pick)
			if !ok {
				t.Fatalf("round %d: merge of %v failed", round, pick)
			}

			if got, want := g.NodeCount(), before-len(res.Merged)+1; got != want {
				t.Fatalf("round %d: nodes = %d, want %d", round, got, want)
			}
			if g.EdgeCount() != edges {
				t.Fatalf("round %d: edges = %d, want %d", round, g.EdgeCount(), edges)
			}
			assertIntegrity(t, g)
		}
	}
}
