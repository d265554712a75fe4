package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/pkg/circuit"
)

// inspectCommand creates the inspect command, which prints the laid-out
// circuit as tables instead of drawing it.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags renderFlags
	var connections bool

	cmd := &cobra.Command{
		Use:   "inspect <expression>",
		Short: "Show the gates and routes of an expression's circuit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			built, err := c.buildCircuit(cmd.Context(), joinArgs(args), flags)
			if err != nil {
				return err
			}
			writeCircuit(cmd.OutOrStdout(), built, connections)
			return nil
		},
	}

	cmd.Flags().BoolVar(&connections, "connections", false, "also list every routed connection")
	flags.register(cmd)

	return cmd
}

// buildCircuit runs only the build stage through a cached runner.
func (c *CLI) buildCircuit(ctx context.Context, expression string, flags renderFlags) (*circuit.Circuit, error) {
	runner, err := c.newRunner(ctx, flags.noCache, false)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	built, err := runner.Build(ctx, c.options(expression, nil, flags))
	if err != nil {
		return nil, userError(err)
	}
	return built, nil
}

// writeCircuit prints a summary of c followed by its gate table.
func writeCircuit(w io.Writer, c *circuit.Circuit, connections bool) {
	fmt.Fprintln(w, keyValue("expression", c.Expression))
	fmt.Fprintln(w, keyValue("postfix", strings.Join(c.Postfix, " ")))
	fmt.Fprintln(w, keyValue("operands", strings.Join(c.Operands, ", ")))
	fmt.Fprintln(w, keyValue("output", c.Output))
	fmt.Fprintln(w, keyValue("size", fmt.Sprintf("%dx%d", c.Width, c.Height)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, gateTable(c, -1))
	if connections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, connectionTable(c))
	}
}
