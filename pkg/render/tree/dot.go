package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gatesketch/pkg/expr"
)

// Options configures tree diagram rendering.
type Options struct {
	// Detailed adds the gate output name and source position to labels.
	// When false, nodes show only their symbol or identifier.
	Detailed bool
}

// ToDOT converts an expression tree to Graphviz DOT. Operator nodes are
// numbered in post-order, which matches the order the circuit builder
// creates gates, so node "T<n>" in the diagram is gate n in the schematic.
func ToDOT(e *expr.Expr, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := &writer{buf: &buf, detailed: opts.Detailed}
	w.node(e.Root)
	if len(w.edges) > 0 {
		buf.WriteString("\n")
	}
	for _, edge := range w.edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", edge[0], edge[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf      *bytes.Buffer
	detailed bool
	leaves   int
	gates    int
	edges    [][2]string
}

// node emits n after its children and returns its DOT id.
func (w *writer) node(n *expr.Node) string {
	if n.Kind == expr.Ident {
		id := fmt.Sprintf("v%d", w.leaves)
		w.leaves++
		label := n.Name
		if w.detailed {
			label = fmt.Sprintf("%s\npos: %d", n.Name, n.Pos+1)
		}
		fmt.Fprintf(w.buf, "  %q [label=%q, shape=ellipse];\n", id, label)
		return id
	}

	children := make([]string, len(n.Args))
	for i, a := range n.Args {
		children[i] = w.node(a)
	}

	id := fmt.Sprintf("T%d", w.gates)
	w.gates++
	label := n.Kind.String()
	if w.detailed {
		label = fmt.Sprintf("%s\n%s\npos: %d", n.Kind, id, n.Pos+1)
	}
	fmt.Fprintf(w.buf, "  %q [label=%q];\n", id, label)
	for _, c := range children {
		w.edges = append(w.edges, [2]string{id, c})
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// width and height match the viewBox, so the diagram scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
