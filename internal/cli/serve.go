package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/internal/server"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// serveCommand creates the serve command, which runs the web form and JSON
// API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger,
				server.WithSeed(c.Config.Render.Seed),
				server.WithScale(c.Config.Render.Scale),
				server.WithIdentity(storage.Identity(c.Config.Render.Identity)))

			printInfo("Listening on %s", StyleLink.Render(displayURL(addr)))
			printDetail("storage: %s, cache: %s", c.Config.Storage.Backend, c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
