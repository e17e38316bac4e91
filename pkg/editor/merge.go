package editor

import (
	"fmt"
	"strings"
)

// mergeSeparator joins member ids and labels of a merged node.
const mergeSeparator = ", "

// MergeResult describes a completed merge.
type MergeResult struct {
	Node       Node     `json:"node"`        // The synthesized node
	Merged     []string `json:"merged"`      // Member ids in collection order
	Rewritten  int      `json:"rewritten"`   // Edges with at least one endpoint rewritten
	SelfLoops  int      `json:"self_loops"`  // Edges with both endpoints in the merge set
	RootMerged bool     `json:"root_merged"` // The root was one of the members
}

// Merge collapses the nodes named in ids into one node.
//
// Members are taken in node collection order, not in the order of ids;
// ids not present in the graph are ignored. The new node's id and label are
// the members' ids and labels joined with ", ", and its position is the
// centroid of the members. It replaces the members at the end of the
// collection. Every edge touching a member is rewritten in place to the new
// node; edges between two members become self-loops and parallel edges are
// kept. If the joined id is already used by a node outside the merge, a
// " (n)" suffix keeps ids unique.
//
// Merging the root is allowed; the root then refers to the new node and
// RootMerged is set. Returns false, leaving the graph untouched, when no id
// resolves to a node.
func (g *Graph) Merge(ids []string) (MergeResult, bool) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	var members []*Node
	for _, n := range g.nodes {
		if set[n.ID] {
			members = append(members, n)
		}
	}
	if len(members) == 0 {
		return MergeResult{}, false
	}

	memberIDs := make([]string, len(members))
	labels := make([]string, len(members))
	var sumX, sumY float64
	for i, n := range members {
		memberIDs[i] = n.ID
		labels[i] = n.Label
		sumX += n.Position.X
		sumY += n.Position.Y
	}
	inMerge := make(map[string]bool, len(members))
	for _, id := range memberIDs {
		inMerge[id] = true
	}

	merged := Node{
		ID:    g.uniqueID(strings.Join(memberIDs, mergeSeparator), inMerge),
		Label: strings.Join(labels, mergeSeparator),
		Position: Position{
			X: sumX / float64(len(members)),
			Y: sumY / float64(len(members)),
		},
	}

	kept := g.nodes[:0]
	for _, n := range g.nodes {
		if inMerge[n.ID] {
			delete(g.index, n.ID)
			continue
		}
		kept = append(kept, n)
	}
	g.nodes = kept
	node := merged
	g.nodes = append(g.nodes, &node)
	g.index[node.ID] = &node

	res := MergeResult{Node: merged, Merged: memberIDs}
	for i := range g.edges {
		e := &g.edges[i]
		touched := false
		if inMerge[e.Target] {
			e.Target = merged.ID
			touched = true
		}
		if inMerge[e.Source] {
			e.Source = merged.ID
			touched = true
		}
		if touched {
			res.Rewritten++
			if e.Source == merged.ID && e.Target == merged.ID {
				res.SelfLoops++
			}
		}
	}

	if inMerge[g.root] {
		res.RootMerged = true
		g.root = merged.ID
	}
	return res, true
}

// uniqueID returns id, or id with a " (n)" suffix if a node outside the
// merge already uses it.
func (g *Graph) uniqueID(id string, members map[string]bool) string {
	taken := func(candidate string) bool {
		_, exists := g.index[candidate]
		return exists && !members[candidate]
	}
	if !taken(id) {
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", id, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
