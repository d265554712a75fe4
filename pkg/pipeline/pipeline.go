// Package pipeline provides the build → render → store pipeline for gatesketch.
//
// This package implements the complete flow from a Boolean expression to
// persisted schematics. The CLI and the HTTP server both run it, so
// validation, caching and artifact identity behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Validate the expression and lay out its circuit
//  2. Render: Generate output in the requested formats (PNG, SVG, JSON, DOT, tree)
//  3. Store: Persist each artifact under an id
//
// Build and Render results are cached. Identical concurrent requests share a
// single build and render.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Expression: "~(a&b)|c",
//	    Formats:    []string{"png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id := result.ArtifactIDs["png"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gatesketch/pkg/cache"
	"github.com/matzehuels/gatesketch/pkg/circuit"
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = circuit.DefaultSeed

	// DefaultScale is the default raster scale factor.
	DefaultScale = 1.0

	// DefaultIdentity derives artifact ids from content.
	DefaultIdentity = storage.IdentityContent
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree" // expression tree as SVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatTree: true,
}

// ContentTypes maps each format to its media type.
var ContentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatTree: "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Expression string           `json:"expression"`
	Seed       uint64           `json:"seed,omitempty"`
	Formats    []string         `json:"formats,omitempty"`
	Scale      float64          `json:"scale,omitempty"`
	Identity   storage.Identity `json:"identity,omitempty"`
	Refresh    bool             `json:"refresh,omitempty"` // bypass cached geometry and renders

	// Runtime options (not serialized)
	Layout *circuit.Layout `json:"-"` // nil selects circuit.DefaultLayout
	Logger *log.Logger     `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Circuit is the laid-out schematic.
	Circuit *circuit.Circuit

	// Postfix is the operator/operand sequence the circuit was built from.
	Postfix []string

	// CircuitHash is the content hash of the circuit geometry.
	CircuitHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// ArtifactIDs contains the stored id of each artifact keyed by format.
	ArtifactIDs map[string]string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Operands    int
	Gates       int
	Connections int
	BuildTime   time.Duration
	RenderTime  time.Duration
	StoreTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the geometry came from cache
	RenderHit bool // Whether all artifacts came from cache
	Shared    bool // Whether the result was shared with a concurrent identical request
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return gserrors.New(gserrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg, json, dot, tree)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats parses a comma-separated format list. An empty string
// selects PNG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatPNG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the expression boundary and applies
// defaults. Grammar errors surface later from the build stage.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := gserrors.ValidateExpressionInput(o.Expression); err != nil {
		return err
	}
	o.SetBuildDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.Identity == "" {
		o.Identity = DefaultIdentity
	}
	if !o.Identity.Valid() {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "invalid identity: %q (must be content or request)", o.Identity)
	}
	o.validated = true
	return nil
}

// SetBuildDefaults sets default values for circuit construction.
func (o *Options) SetBuildDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "invalid scale: %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// layout returns the geometry to build with.
func (o *Options) layout() circuit.Layout {
	if o.Layout == nil {
		return circuit.DefaultLayout
	}
	return *o.Layout
}

// CircuitKeyOpts returns cache key options for circuit construction.
func (o *Options) CircuitKeyOpts() cache.CircuitKeyOpts {
	k := cache.CircuitKeyOpts{Seed: o.Seed}
	if l := o.layout(); l != circuit.DefaultLayout {
		data, _ := json.Marshal(l)
		k.Layout = cache.Hash(data)
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// Scale only affects the schematic image formats.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG || format == FormatSVG {
		k.Scale = o.Scale
	}
	return k
}

// flightKey identifies a build-and-render so identical concurrent requests
// can share it.
func (o *Options) flightKey(keyer cache.Keyer) string {
	return fmt.Sprintf("%s|%s|%g|%t", keyer.CircuitKey(o.Expression, o.CircuitKeyOpts()),
		strings.Join(o.Formats, ","), o.Scale, o.Refresh)
}
