package editor

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs are unique within a working graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that is not in the graph.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrMissingRoot is returned by [Graph.Validate] when the root node is
	// not in the graph.
	ErrMissingRoot = errors.New("root node missing")
)

// Position is a node's location on the editing canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a state in the working graph.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Position Position `json:"position"`
	Selected bool     `json:"selected"`
}

// Edge is a transition in the working graph. Multiple edges may connect the
// same pair of nodes.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Graph is the editor's working copy of a prefix automaton.
//
// Nodes keep insertion order, which is also the order merges and the
// serializer observe. The zero value is not usable; create graphs with
// [New] or [Build]. Graph is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
	root  string
	tree  *discoveryTree
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID or
// ErrDuplicateNodeID if the ID is taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[n.ID] = node
	return nil
}

// AddEdge appends an edge between two existing nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.index[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// SetRoot marks id as the root node. It is a no-op if id is not in the graph.
func (g *Graph) SetRoot(id string) {
	if _, ok := g.index[id]; ok {
		g.root = id
	}
}

// Root returns the ID of the root node.
func (g *Graph) Root() string { return g.root }

// Node returns a copy of the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns copies of all nodes in collection order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the edges leaving id, in insertion order.
func (g *Graph) Outgoing(id string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering id, in insertion order.
func (g *Graph) Incoming(id string) []Edge {
	var in []Edge
	for _, e := range g.edges {
		if e.Target == id {
			in = append(in, e)
		}
	}
	return in
}

// Clone returns an independent deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]*Node, len(g.nodes)),
		index: make(map[string]*Node, len(g.nodes)),
		edges: slices.Clone(g.edges),
		root:  g.root,
		tree:  g.tree,
	}
	for i, n := range g.nodes {
		cp := *n
		c.nodes[i] = &cp
		c.index[cp.ID] = &cp
	}
	return c
}

// Validate checks referential integrity: the root exists and every edge
// endpoint resolves to a node.
func (g *Graph) Validate() error {
	if _, ok := g.index[g.root]; !ok {
		return ErrMissingRoot
	}
	for _, e := range g.edges {
		if _, ok := g.index[e.Source]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.index[e.Target]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return nil
}

func (g *Graph) setSelected(id string, selected bool) {
	if n, ok := g.index[id]; ok {
		n.Selected = selected
	}
}
