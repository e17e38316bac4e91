package editor

// LayoutOptions configures the first-discovery grid layout.
type LayoutOptions struct {
	XSpacing float64 `toml:"x_spacing"` // Horizontal distance per depth level
	YSpacing float64 `toml:"y_spacing"` // Vertical distance per sibling index
	// Stacked offsets each child by its parent's y instead of placing it at
	// YSpacing × index from the top.
	Stacked bool `toml:"stacked"`
}

// DefaultLayout returns the standard 200×100 grid.
func DefaultLayout() LayoutOptions {
	return LayoutOptions{XSpacing: 200, YSpacing: 100}
}

// discoveryTree records, for every node, the traversal step that first
// reached it: its parent and the index of the transition in the parent's
// outgoing list. It is a tree by construction.
type discoveryTree struct {
	root     string
	children map[string][]discovery
}

type discovery struct {
	id    string
	index int
}

func newDiscoveryTree(root string) *discoveryTree {
	return &discoveryTree{root: root, children: make(map[string][]discovery)}
}

func (t *discoveryTree) add(parent, id string, index int) {
	t.children[parent] = append(t.children[parent], discovery{id: id, index: index})
}

// depths returns the traversal depth of every discovered id.
func (t *discoveryTree) depths() map[string]int {
	out := map[string]int{t.root: 0}
	var walk func(id string, d int)
	walk = func(id string, d int) {
		for _, c := range t.children[id] {
			out[c.id] = d + 1
			walk(c.id, d+1)
		}
	}
	walk(t.root, 0)
	return out
}

// Relayout assigns positions from the discovery tree recorded by [Build]:
// x = XSpacing × depth and y = YSpacing × sibling index. Nodes created by a
// merge or absent from the tree keep their current position. Graphs not
// produced by Build are left unchanged.
func (g *Graph) Relayout(opts LayoutOptions) {
	if g.tree == nil {
		return
	}
	var place func(id string, depth int, y float64)
	place = func(id string, depth int, y float64) {
		if n, ok := g.index[id]; ok {
			n.Position = Position{X: opts.XSpacing * float64(depth), Y: y}
		}
		for _, c := range g.tree.children[id] {
			cy := opts.YSpacing * float64(c.index)
			if opts.Stacked {
				cy += y
			}
			place(c.id, depth+1, cy)
		}
	}
	place(g.tree.root, 0, 0)
}

// Depth returns the discovery depth of id, or -1 if id was not discovered
// by [Build] (for example a merged node).
func (g *Graph) Depth(id string) int {
	if g.tree == nil {
		return -1
	}
	if d, ok := g.tree.depths()[id]; ok && g.HasNode(id) {
		return d
	}
	return -1
}
