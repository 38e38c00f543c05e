// Package diagram renders unit categories as node-link diagrams.
//
// # Overview
//
// Each category is drawn as a hub: the base unit (linear categories) or the
// reference unit (temperature) sits in the middle and every other unit links
// to it. Linear edges are labelled with the unit's factor ("1 km = 1000 m"),
// affine edges with the formula that converts from the reference unit.
//
// # Usage
//
// Convert a category to DOT, then render it:
//
//	c, _ := units.Default().Category("length")
//	dot := diagram.ToDOT(c, diagram.Options{Detailed: true})
//	svg, err := diagram.Render(ctx, dot, diagram.FormatSVG)
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no system Graphviz installation is needed.
package diagram
