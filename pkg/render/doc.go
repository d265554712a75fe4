// Package render draws laid-out circuits.
//
// # Overview
//
// Rendering is split in two. [Draw] walks a [circuit.Circuit] and issues
// drawing commands to a [Surface]; surfaces turn those commands into an
// output format:
//
//   - [RasterSurface]: PNG via fogleman/gg, labels in Go Regular
//   - [SVGSurface]: plain SVG markup
//
// [RenderPNG], [RenderSVG] and [RenderJSON] wrap the common cases.
//
//	c, _ := circuit.Build("a&b")
//	png, err := render.RenderPNG(c, render.WithScale(2))
//
// # Symbols
//
// Operand wires are drawn as short leads with their name above. Gates are
// rectangles carrying "&" (AND) or "1" (OR, NOT); NOT gates get an output
// bubble on their right edge. Every gate has an output lead, and routed
// connections are drawn as polylines.
//
// The [tree] subpackage renders the expression's syntax tree with Graphviz.
package render
