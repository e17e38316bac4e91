package editor

import (
	"github.com/matzehuels/paeditor/pkg/automaton"
)

// Option configures [Build].
type Option func(*buildConfig)

type buildConfig struct {
	layout LayoutOptions
}

// WithLayout overrides the default grid spacing.
func WithLayout(opts LayoutOptions) Option {
	return func(c *buildConfig) { c.layout = opts }
}

// Build converts a served automaton into a positioned working graph.
//
// The root state (named "<>") is placed first; the remaining states are
// discovered by a depth-first walk of each state's outgoing transitions, in
// list order. A state becomes a node the first time it is reached and is
// expanded only once, so cyclic automata terminate. Every traversed
// transition becomes an edge from the state that listed it. States not
// reachable from the root are left out.
//
// Build fails with *MalformedAutomatonError if there is not exactly one root
// (a nil automaton has none) and with *DanglingReferenceError if a transition
// or target state cannot be resolved, whether or not it is reachable. No
// partial graph is returned. The input is not modified.
func Build(a *automaton.Automaton, opts ...Option) (*Graph, error) {
	cfg := buildConfig{layout: DefaultLayout()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if a == nil {
		return nil, &MalformedAutomatonError{}
	}
	roots := a.Roots()
	if len(roots) != 1 {
		return nil, &MalformedAutomatonError{RootCount: len(roots)}
	}

	src := a.Clone()
	states := make(map[string]automaton.State, len(src.States))
	for _, s := range src.States {
		states[s.ID] = s
	}
	transitions := make(map[string]automaton.Transition, len(src.Transitions))
	for _, t := range src.Transitions {
		transitions[t.ID] = t
	}

	if err := checkReferences(src, states, transitions); err != nil {
		return nil, err
	}

	root := roots[0]
	g := New()
	g.tree = newDiscoveryTree(root.ID)
	if err := g.AddNode(Node{ID: root.ID, Label: root.Name}); err != nil {
		return nil, err
	}
	g.root = root.ID

	b := &builder{
		g:           g,
		states:      states,
		transitions: transitions,
		visited:     map[string]bool{root.ID: true},
		seenEdges:   make(map[string]bool),
	}
	if err := b.visit(states[root.ID]); err != nil {
		return nil, err
	}

	g.Relayout(cfg.layout)
	return g, nil
}

// checkReferences resolves every outgoing list and every transition target,
// reachable from the root or not.
func checkReferences(a *automaton.Automaton, states map[string]automaton.State, transitions map[string]automaton.Transition) error {
	for _, s := range a.States {
		for _, tid := range s.Outgoing {
			t, ok := transitions[tid]
			if !ok {
				return &DanglingReferenceError{TransitionID: tid, StateID: s.ID, UnknownTransition: true}
			}
			if _, ok := states[t.ToState]; !ok {
				return &DanglingReferenceError{TransitionID: t.ID, StateID: t.ToState}
			}
		}
	}
	for _, t := range a.Transitions {
		if _, ok := states[t.ToState]; !ok {
			return &DanglingReferenceError{TransitionID: t.ID, StateID: t.ToState}
		}
	}
	return nil
}

type builder struct {
	g           *Graph
	states      map[string]automaton.State
	transitions map[string]automaton.Transition
	visited     map[string]bool
	seenEdges   map[string]bool
}

func (b *builder) visit(s automaton.State) error {
	for i, tid := range s.Outgoing {
		t := b.transitions[tid]
		next := b.states[t.ToState]

		discovered := !b.visited[next.ID]
		if discovered {
			b.visited[next.ID] = true
			if err := b.g.AddNode(Node{ID: next.ID, Label: next.Name}); err != nil {
				return err
			}
			b.g.tree.add(s.ID, next.ID, i)
		}

		if !b.seenEdges[t.ID] {
			b.seenEdges[t.ID] = true
			if err := b.g.AddEdge(Edge{ID: t.ID, Source: s.ID, Target: next.ID, Label: t.Name}); err != nil {
				return err
			}
		}

		if discovered {
			if err := b.visit(next); err != nil {
				return err
			}
		}
	}
	return nil
}
