package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/expr"
)

// postfixCommand creates the postfix command. It stops after validation and
// the shunting-yard stage, so it needs neither cache nor store.
func (c *CLI) postfixCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "postfix <expression>",
		Short: "Print the postfix (reverse Polish) form of an expression",
		Example: `  gatesketch postfix '~(a&b)|c'
  a b & ~ c |`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			postfix, err := postfixOf(joinArgs(args))
			if err != nil {
				return userError(err)
			}
			if check {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(postfix, " "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "only report whether the expression is valid")

	return cmd
}

// postfixOf validates s and returns its postfix sequence.
func postfixOf(s string) ([]string, error) {
	if err := gserrors.ValidateExpressionInput(s); err != nil {
		return nil, err
	}
	e, err := expr.Parse(s)
	if err != nil {
		return nil, err
	}
	return expr.FormatPostfix(e.Postfix()), nil
}
