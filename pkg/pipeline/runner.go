package pipeline

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/gatesketch/pkg/cache"
	"github.com/matzehuels/gatesketch/pkg/circuit"
	"github.com/matzehuels/gatesketch/pkg/observability"
	"github.com/matzehuels/gatesketch/pkg/render"
	"github.com/matzehuels/gatesketch/pkg/storage"
)

// Runner encapsulates pipeline execution with caching and persistence.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner doesn't store pipeline results. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  storage.Store
	Logger *log.Logger

	// ArtifactTTL bounds how long rendered output stays cached.
	ArtifactTTL time.Duration

	flight singleflight.Group
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If store is nil, a NullStore is used (artifacts are not persisted).
func NewRunner(c cache.Cache, keyer cache.Keyer, store storage.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = storage.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Store:       store,
		Logger:      logger,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// built is the shareable part of a run: everything before persistence.
type built struct {
	circuit   *circuit.Circuit
	hash      string
	artifacts map[string][]byte
	buildHit  bool
	renderHit bool
	buildDur  time.Duration
	renderDur time.Duration
}

// Execute runs the complete build → render → store pipeline with caching.
// Nothing is persisted unless the build and every render succeed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// The shared work outlives any one caller; each caller still persists
	// under its own ctx.
	shareCtx := context.WithoutCancel(ctx)
	v, err, shared := r.flight.Do(opts.flightKey(r.Keyer), func() (any, error) {
		return r.buildAndRender(shareCtx, opts)
	})
	if err != nil {
		return nil, err
	}
	b := v.(*built)

	result := &Result{
		Circuit:     b.circuit,
		Postfix:     b.circuit.Postfix,
		CircuitHash: b.hash,
		Artifacts:   maps.Clone(b.artifacts),
		Stats: Stats{
			Operands:    len(b.circuit.Operands),
			Gates:       len(b.circuit.Gates),
			Connections: len(b.circuit.Connections),
			BuildTime:   b.buildDur,
			RenderTime:  b.renderDur,
		},
		CacheInfo: CacheInfo{
			BuildHit:  b.buildHit,
			RenderHit: b.renderHit,
			Shared:    shared,
		},
	}

	storeStart := time.Now()
	ids, err := r.Persist(ctx, b.hash, result.Artifacts, opts)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	result.ArtifactIDs = ids
	result.Stats.StoreTime = time.Since(storeStart)

	r.Logger.Info("stored artifacts",
		"count", len(ids),
		"duration", result.Stats.StoreTime)

	return result, nil
}

func (r *Runner) buildAndRender(ctx context.Context, opts Options) (*built, error) {
	b := &built{}

	buildStart := time.Now()
	c, hit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	b.circuit, b.buildHit = c, hit
	b.buildDur = time.Since(buildStart)

	r.Logger.Info("built circuit",
		"expression", opts.Expression,
		"gates", len(c.Gates),
		"duration", b.buildDur)

	renderStart := time.Now()
	artifacts, hash, hit, err := r.renderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	b.artifacts, b.hash, b.renderHit = artifacts, hash, hit
	b.renderDur = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", b.renderDur)

	return b, nil
}

// BuildWithCacheInfo lays out the circuit with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*circuit.Circuit, bool, error) {
	r.applyLogger(&opts)
	opts.SetBuildDefaults()

	cacheKey := r.Keyer.CircuitKey(opts.Expression, opts.CircuitKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if c, err := render.ReadJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "circuit")
				return c, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "circuit")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Expression)
	start := time.Now()

	c, err := circuit.Build(opts.Expression,
		circuit.WithSeed(opts.Seed),
		circuit.WithLayout(opts.layout()),
		circuit.WithLogger(opts.Logger))

	gates := 0
	if c != nil {
		gates = len(c.Gates)
	}
	hooks.OnBuildComplete(ctx, opts.Expression, gates, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := render.RenderJSON(c); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLCircuit); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "circuit", len(data))
		}
	}

	return c, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*circuit.Circuit, error) {
	c, _, err := r.BuildWithCacheInfo(ctx, opts)
	return c, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *circuit.Circuit, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, c, opts)
	return artifacts, hit, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, c *circuit.Circuit, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	// Compute cache key from circuit geometry
	data, err := render.RenderJSON(c)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize circuit for cache key: %w", err)
	}
	circuitHash := cache.Hash(data)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(circuitHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(uniq(opts.Formats)) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, circuitHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, c, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(circuitHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, circuitHash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c *circuit.Circuit, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

// Persist stores each artifact and returns their ids keyed by format.
// With content identity the id depends only on the circuit hash and render
// options, so repeated requests overwrite the same artifact with identical
// bytes.
func (r *Runner) Persist(ctx context.Context, circuitHash string, artifacts map[string][]byte, opts Options) (map[string]string, error) {
	if opts.Identity == "" {
		opts.Identity = DefaultIdentity
	}
	ids := make(map[string]string, len(artifacts))
	now := time.Now().UTC()

	for _, format := range uniq(opts.Formats) {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		key := r.Keyer.ArtifactKey(circuitHash, opts.ArtifactKeyOpts(format))
		a := &storage.Artifact{
			ID:          storage.NewID(opts.Identity, key),
			Format:      format,
			ContentType: ContentTypes[format],
			Data:        data,
			Expression:  opts.Expression,
			CreatedAt:   now,
		}
		err := r.Store.Put(ctx, a)
		observability.Pipeline().OnStoreComplete(ctx, a.ID, format, len(data), err)
		if err != nil {
			return nil, err
		}
		ids[format] = a.ID
		r.Logger.Debug("stored artifact", "id", a.ID, "format", format, "bytes", len(data))
	}
	return ids, nil
}

// Close releases resources held by the runner (cache and store).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func uniq(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
