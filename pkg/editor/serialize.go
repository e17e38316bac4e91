package editor

import "github.com/matzehuels/paeditor/pkg/automaton"

// Serialize flattens the graph into the submission wire shape: one state per
// node (label as name) in collection order and one transition per edge in
// insertion order. Referential integrity is assumed, not re-checked.
func Serialize(g *Graph) automaton.Submission {
	sub := automaton.Submission{
		States:      make([]automaton.StateRef, 0, len(g.nodes)),
		Transitions: make([]automaton.Transition, 0, len(g.edges)),
	}
	for _, n := range g.nodes {
		sub.States = append(sub.States, automaton.StateRef{ID: n.ID, Name: n.Label})
	}
	for _, e := range g.edges {
		sub.Transitions = append(sub.Transitions, automaton.Transition{
			ID:        e.ID,
			Name:      e.Label,
			FromState: e.Source,
			ToState:   e.Target,
		})
	}
	return sub
}
