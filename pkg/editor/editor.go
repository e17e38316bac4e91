package editor

import (
	"github.com/google/uuid"

	"github.com/matzehuels/paeditor/pkg/automaton"
)

// Event is a user action sent to an [Editor]. Hosts (a terminal UI, an HTTP
// handler) translate their input into events; nodes never mutate editor
// state themselves.
type Event interface {
	event()
}

// ToggleEvent flips a node's membership in the selection.
type ToggleEvent struct{ NodeID string }

// ConnectEvent adds a hand-drawn edge.
type ConnectEvent struct{ Source, Target string }

// MergeEvent merges the current selection.
type MergeEvent struct{}

// ClearEvent empties the selection.
type ClearEvent struct{}

func (ToggleEvent) event()  {}
func (ConnectEvent) event() {}
func (MergeEvent) event()   {}
func (ClearEvent) event()   {}

// Outcome reports what an event changed. Changed is false for no-ops.
type Outcome struct {
	Event   Event
	Changed bool
	Edge    *Edge        // Set for a successful ConnectEvent
	Merge   *MergeResult // Set for a successful MergeEvent
}

// View is a render-ready snapshot of the editor.
type View struct {
	Root      string   `json:"root"`
	Nodes     []Node   `json:"nodes"`
	Edges     []Edge   `json:"edges"`
	Selection []string `json:"selection"`
}

// EditorOption configures an [Editor].
type EditorOption func(*Editor)

// WithIDGenerator replaces the UUID generator used for hand-drawn edges.
func WithIDGenerator(fn func() string) EditorOption {
	return func(e *Editor) { e.newID = fn }
}

// Editor owns a working graph and the user's selection. All operations run
// synchronously; Editor is not safe for concurrent use.
type Editor struct {
	graph     *Graph
	selection map[string]struct{}
	newID     func() string
	listeners []func(Outcome)
}

// NewEditor wraps g. The editor takes ownership of g.
func NewEditor(g *Graph, opts ...EditorOption) *Editor {
	e := &Editor{
		graph:     g,
		selection: make(map[string]struct{}),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the working graph.
func (e *Editor) Graph() *Graph { return e.graph }

// Subscribe registers fn to be called after every event that changed the
// editor. Listeners run synchronously in registration order.
func (e *Editor) Subscribe(fn func(Outcome)) {
	e.listeners = append(e.listeners, fn)
}

// Apply dispatches ev and notifies listeners if anything changed.
func (e *Editor) Apply(ev Event) Outcome {
	out := Outcome{Event: ev}
	switch ev := ev.(type) {
	case ToggleEvent:
		out.Changed = e.toggle(ev.NodeID)
	case ConnectEvent:
		if edge, ok := e.connect(ev.Source, ev.Target); ok {
			out.Changed = true
			out.Edge = &edge
		}
	case MergeEvent:
		if res, ok := e.merge(); ok {
			out.Changed = true
			out.Merge = &res
		}
	case ClearEvent:
		out.Changed = len(e.selection) > 0
		e.resetSelection()
	}
	if out.Changed {
		for _, fn := range e.listeners {
			fn(out)
		}
	}
	return out
}

// ToggleSelection adds id to the selection or removes it. Unknown ids are
// ignored and false is returned.
func (e *Editor) ToggleSelection(id string) bool {
	return e.Apply(ToggleEvent{NodeID: id}).Changed
}

// Connect appends an edge with a generated id and an empty label. Returns
// false without changes if either endpoint is not in the graph.
func (e *Editor) Connect(source, target string) (Edge, bool) {
	out := e.Apply(ConnectEvent{Source: source, Target: target})
	if out.Edge == nil {
		return Edge{}, false
	}
	return *out.Edge, true
}

// MergeSelected merges the selected nodes (see [Graph.Merge]) and clears the
// selection. An empty or stale selection is a no-op.
func (e *Editor) MergeSelected() (MergeResult, bool) {
	out := e.Apply(MergeEvent{})
	if out.Merge == nil {
		return MergeResult{}, false
	}
	return *out.Merge, true
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() { e.Apply(ClearEvent{}) }

// IsSelected reports whether id is selected.
func (e *Editor) IsSelected(id string) bool {
	_, ok := e.selection[id]
	return ok
}

// Selection returns the selected ids in node collection order.
func (e *Editor) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for _, n := range e.graph.nodes {
		if _, ok := e.selection[n.ID]; ok {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Serialize flattens the working graph for submission.
func (e *Editor) Serialize() automaton.Submission { return Serialize(e.graph) }

// View returns a snapshot for rendering.
func (e *Editor) View() View {
	return View{
		Root:      e.graph.root,
		Nodes:     e.graph.Nodes(),
		Edges:     e.graph.Edges(),
		Selection: e.Selection(),
	}
}

func (e *Editor) toggle(id string) bool {
	if !e.graph.HasNode(id) {
		return false
	}
	if _, ok := e.selection[id]; ok {
		delete(e.selection, id)
		e.graph.setSelected(id, false)
	} else {
		e.selection[id] = struct{}{}
		e.graph.setSelected(id, true)
	}
	return true
}

func (e *Editor) connect(source, target string) (Edge, bool) {
	edge := Edge{ID: e.newID(), Source: source, Target: target}
	if err := e.graph.AddEdge(edge); err != nil {
		return Edge{}, false
	}
	return edge, true
}

func (e *Editor) merge() (MergeResult, bool) {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	res, ok := e.graph.Merge(ids)
	if !ok {
		return MergeResult{}, false
	}
	e.resetSelection()
	return res, true
}

func (e *Editor) resetSelection() {
	for id := range e.selection {
		e.graph.setSelected(id, false)
	}
	clear(e.selection)
}
