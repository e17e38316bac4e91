// Package editor implements the prefix-automaton graph editor.
//
// # Overview
//
// The backend serves a prefix automaton as flat lists of states and
// transitions (see package automaton). This package turns it into a working
// graph that a user can reshape before submitting it for translucification:
//
//  1. [Build] reconstructs nodes and edges by a depth-first walk from the
//     root state "<>", recording which transition first reached each state.
//  2. [Graph.Relayout] places nodes on a grid from that walk: x grows with
//     depth, y with the index of the discovering transition.
//  3. An [Editor] owns the graph and the selection. Hosts send it events
//     ([ToggleEvent], [ConnectEvent], [MergeEvent], [ClearEvent]).
//  4. [Graph.Merge] collapses selected states into one node at their
//     centroid and rewrites every incident edge.
//  5. [Serialize] flattens the result back into the submission shape.
//
// # Basic Usage
//
//	g, err := editor.Build(pa)
//	if err != nil {
//	    return err // *MalformedAutomatonError or *DanglingReferenceError
//	}
//	ed := editor.NewEditor(g)
//	ed.ToggleSelection("s1")
//	ed.ToggleSelection("s2")
//	res, _ := ed.MergeSelected() // res.Node.ID == "s1, s2"
//	sub := ed.Serialize()
//
// # Invariants
//
// Node ids are unique, every edge endpoint resolves to a node, and the
// selection only ever names nodes in the graph. Interaction operations on
// unknown ids are no-ops rather than errors, so stale UI callbacks are
// harmless.
//
// Merging the root state is permitted; [MergeResult.RootMerged] reports it
// so hosts can warn that the result no longer has a state named "<>".
package editor
