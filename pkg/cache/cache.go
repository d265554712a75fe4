// Package cache provides the byte-level caches used by the build pipeline.
//
// # Overview
//
// Building a circuit is cheap, but rendering PNGs and persisting them is not
// free, and a web form tends to receive the same expressions again and
// again. The pipeline therefore caches two kinds of entries:
//
//   - circuit geometry, keyed by expression and seed ([Keyer.CircuitKey])
//   - rendered artifacts, keyed by circuit hash and format ([Keyer.ArtifactKey])
//
// # Backends
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//
// All backends satisfy [Cache]. Those that can drop every entry also
// satisfy [Clearer], which backs the "cache clear" command.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is reported as hit=false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can remove all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	// TTLCircuit applies to cached geometry. Geometry depends only on the
	// expression, seed and layout, so it can live long.
	TTLCircuit = 7 * 24 * time.Hour
	// TTLArtifact applies to rendered output.
	TTLArtifact = 24 * time.Hour
)
