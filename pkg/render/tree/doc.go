// Package tree renders the syntax tree of a Boolean expression as a
// Graphviz diagram.
//
// # Overview
//
// The schematic produced by the circuit package shows where gates sit; the
// tree diagram shows why. Each operator node is labelled with the name of
// the gate output it becomes (T0, T1, ...), so the two views can be read
// side by side.
//
// # Usage
//
//	e, err := expr.Parse("~(a&b)|c")
//	dot := tree.ToDOT(e, tree.Options{Detailed: true})
//	svg, err := tree.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package tree
