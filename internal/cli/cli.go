// Package cli implements the gatesketch command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/pkg/buildinfo"
	"github.com/matzehuels/gatesketch/pkg/cache"
	"github.com/matzehuels/gatesketch/pkg/config"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/expr"
	"github.com/matzehuels/gatesketch/pkg/pipeline"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// cacheScope prefixes every key the CLI writes to a shared cache.
	cacheScope = "cli"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gatesketch draws logic circuits for Boolean expressions",
		Long: `Gatesketch turns Boolean expressions over named variables into logic-circuit
schematics. Expressions use & (AND), | (OR), ~ (NOT) and parentheses.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gatesketch/config.toml)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.postfixCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Artifacts are persisted only when persist is set; otherwise the runner
// discards them and commands write files themselves.
func (c *CLI) newRunner(ctx context.Context, noCache, persist bool) (*pipeline.Runner, error) {
	backend, err := newCache(ctx, c.Config.Cache, noCache)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if persist {
		store, err = newStore(ctx, c.Config.Storage)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	runner := pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, cacheScope), store, c.Logger)
	if c.Config.Cache.TTL > 0 {
		runner.ArtifactTTL = c.Config.Cache.TTL
	}
	return runner, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	default:
		return cache.NewFileCache(cfg.Dir)
	}
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendMongo:
		return storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return storage.NewFileStore(cfg.Dir)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the pipeline flags shared by build, tree and serve.
type renderFlags struct {
	seed    uint64
	scale   float64
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for route offsets (default from config)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "raster scale factor (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results and rebuild")
}

// options merges flags over the configured defaults.
func (c *CLI) options(expression string, formats []string, f renderFlags) pipeline.Options {
	opts := pipeline.Options{
		Expression: expression,
		Formats:    formats,
		Seed:       c.Config.Render.Seed,
		Scale:      c.Config.Render.Scale,
		Identity:   storage.Identity(c.Config.Render.Identity),
		Refresh:    f.refresh,
		Logger:     c.Logger,
	}
	if f.seed != 0 {
		opts.Seed = f.seed
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	if layout := c.Config.Layout; layout != (config.Default().Layout) {
		opts.Layout = &layout
	}
	return opts
}

// joinArgs rebuilds an expression that the shell split on whitespace.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// describe formats an error for terminal output, adding the parser's detail
// when there is one.
func describe(err error) string {
	msg := gserrors.UserMessage(err)
	if detail := expr.Detail(err); detail != "" {
		return fmt.Sprintf("%s: %s", msg, detail)
	}
	return msg
}

// userErr prints as the plain message and parser diagnostic, without the
// error code, while keeping the chain for errors.Is.
type userErr struct{ err error }

func (e userErr) Error() string { return describe(e.err) }
func (e userErr) Unwrap() error { return e.err }

func userError(err error) error {
	if err == nil {
		return nil
	}
	return userErr{err}
}
