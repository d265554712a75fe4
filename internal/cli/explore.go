package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/pkg/circuit"
)

// exploreCommand creates the explore command, an interactive editor that
// validates an expression as it is typed.
func (c *CLI) exploreCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "explore [expression]",
		Short: "Edit an expression interactively and inspect its circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, flags.noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Log lines would tear the alternate screen.
			c.SetLogLevel(log.FatalLevel)

			m := NewExploreModel(func(s string) (*circuit.Circuit, error) {
				return runner.Build(ctx, c.options(s, nil, flags))
			})
			if len(args) > 0 {
				m = m.WithInput(joinArgs(args))
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(ExploreModel); ok && fm.Circuit != nil {
				printSuccess("%s", StyleHighlight.Render(fm.Circuit.Expression))
				printDetail("postfix: %s", joinArgs(fm.Circuit.Postfix))
			}
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
