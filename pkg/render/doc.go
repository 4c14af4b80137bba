// Package render draws a laid-out graph with Graphviz.
//
// # Overview
//
// [ToDOT] emits a DOT document whose node positions are pinned to the
// normalized layout, so Graphviz only routes edges and paints; it never
// moves a node. Nodes are colored by community label and edges are scaled
// by weight when the graph is weighted.
//
//	dot := render.ToDOT(g, positions, labels, render.Options{Width: 800, Height: 600})
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.RenderPNG(ctx, dot)
//
// # Coordinates
//
// Layout coordinates grow downward from the top-left corner of the viewport.
// Graphviz grows y upward, so ToDOT flips y against the viewport height and
// sets inputscale=72 so that one layout unit is one point.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process; no system installation is required.
package render
