package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/gatesketch/pkg/circuit"
	"github.com/matzehuels/gatesketch/pkg/expr"
	"github.com/matzehuels/gatesketch/pkg/render"
	"github.com/matzehuels/gatesketch/pkg/render/tree"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, c *circuit.Circuit, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}

		var data []byte
		var err error

		switch format {
		case FormatPNG:
			data, err = render.RenderPNG(c, render.WithScale(opts.Scale))
		case FormatSVG:
			data = render.RenderSVG(c, render.WithScale(opts.Scale))
		case FormatJSON:
			data, err = render.RenderJSON(c)
		case FormatDOT, FormatTree:
			if dot == "" {
				dot, err = treeDOT(c)
				if err != nil {
					break
				}
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = tree.RenderSVG(ctx, dot)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// treeDOT re-parses the circuit's expression for the tree diagram. Gate
// names in the diagram match c because both follow post-order.
func treeDOT(c *circuit.Circuit) (string, error) {
	e, err := expr.Parse(c.Expression)
	if err != nil {
		return "", err
	}
	return tree.ToDOT(e, tree.Options{Detailed: true}), nil
}
