package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/pkg/cache"
	"github.com/matzehuels/gatesketch/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the circuit and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached circuits and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, err := newCache(ctx, c.Config.Cache, false)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer backend.Close()

			clearer, ok := backend.(cache.Clearer)
			if !ok {
				printInfo("Cache is disabled")
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared cache")
			printDetail("Location: %s", cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.Cache))
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory, a Redis URL or
// "none".
func cacheLocation(cfg config.CacheConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return cfg.RedisURL
	case config.BackendNone:
		return config.BackendNone
	default:
		return cfg.Dir
	}
}
