// Package render draws the working graph of the prefix-automaton editor.
//
// # Overview
//
// Rendering is a two-step pipeline. [ToDOT] turns an [editor.View] into
// Graphviz DOT source; [Render] lays the DOT out with Graphviz and produces
// SVG or PNG bytes:
//
//	dot := render.ToDOT(ed.View(), render.Options{Pinned: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Layout
//
// By default Graphviz' dot engine ranks the graph left to right, which
// mirrors the editor's depth-based x coordinate. With [Options.Pinned] every
// node is placed at its editor position instead (neato with pinned
// coordinates), so merged nodes appear at the centroid of their members.
//
// # Styling
//
// The root state is drawn as a double circle, selected nodes are filled
// amber, and self-loops created by merges are kept as loops. Edge labels
// carry the transition names.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no external binaries are required.
package render
