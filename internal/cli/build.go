package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gatesketch/pkg/pipeline"
)

const defaultBaseName = "circuit"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output  string // directory artifacts are written to
	name    string // file name without extension
	formats string // comma-separated output formats
	store   bool   // persist through the configured store instead of writing files
	render  renderFlags
}

// buildCommand creates the build command, which runs the full pipeline for
// one expression.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{output: ".", name: defaultBaseName}

	cmd := &cobra.Command{
		Use:   "build <expression>",
		Short: "Draw the circuit for a Boolean expression",
		Long: `Build validates an expression, lays out its circuit and writes the schematic
in every requested format. Formats: png (default), svg, json, dot, tree.`,
		Example: `  gatesketch build '~(a&b)|c'
  gatesketch build -f png,svg,tree -o out 'a & (b | c)'
  gatesketch build --store 'x|y'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), joinArgs(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.name, "name", "n", opts.name, "output file name without extension")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, json, dot, tree (comma-separated)")
	cmd.Flags().BoolVar(&opts.store, "store", false, "persist artifacts in the configured store and print their ids")
	opts.render.register(cmd)

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, expression string, opts *buildOpts) error {
	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return userError(err)
	}

	runner, err := c.newRunner(ctx, opts.render.noCache, opts.store)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building circuit...")
	spinner.Start()
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, c.options(expression, formats, opts.render))
	spinner.Stop()
	if err != nil {
		return userError(err)
	}
	prog.done(fmt.Sprintf("Built %d gates", result.Stats.Gates))

	printSuccess("Circuit for %s", StyleHighlight.Render(expression))
	printStats(result.Stats, result.CacheInfo.BuildHit)

	if opts.store {
		for _, format := range sortedKeys(result.ArtifactIDs) {
			printKeyValue(format, result.ArtifactIDs[format])
		}
		return nil
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, format := range sortedKeys(result.Artifacts) {
		path := artifactPath(opts.output, opts.name, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// extensions maps output formats to file suffixes. The tree diagram is an
// SVG too, so it gets a distinct double extension.
var extensions = map[string]string{
	pipeline.FormatPNG:  ".png",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatJSON: ".json",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatTree: ".tree.svg",
}

// artifactPath returns where an artifact of the given format is written.
func artifactPath(dir, name, format string) string {
	if name == "" {
		name = defaultBaseName
	}
	ext, ok := extensions[format]
	if !ok {
		ext = "." + format
	}
	return filepath.Join(dir, name+ext)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
