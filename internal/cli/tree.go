package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/expr"
	"github.com/matzehuels/gatesketch/pkg/render/tree"
)

// treeCommand creates the tree command for drawing an expression's syntax
// tree with Graphviz.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		dotOnly  bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "tree <expression>",
		Short: "Draw the syntax tree of an expression",
		Long: `Tree draws the parsed expression as a tree. Operator nodes are labelled with
the gate names (T0, T1, ...) used in the circuit schematic when --detailed is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := joinArgs(args)
			if err := gserrors.ValidateExpressionInput(s); err != nil {
				return userError(err)
			}
			e, err := expr.Parse(s)
			if err != nil {
				return userError(err)
			}

			dot := tree.ToDOT(e, tree.Options{Detailed: detailed})
			if dotOnly {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}

			prog := newProgress(c.Logger)
			svg, err := tree.RenderSVG(cmd.Context(), dot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("Rendered tree")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tree.svg", "output SVG file")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "print Graphviz DOT instead of rendering")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with gate names and positions")

	return cmd
}
