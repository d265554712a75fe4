// Package storage persists rendered artifacts.
//
// An [Artifact] is one rendering of one circuit (a PNG, an SVG, the JSON
// geometry or the expression tree DOT). The HTTP server writes the PNG for
// each submitted expression and later streams it back by id.
//
// # Backends
//
//   - [FileStore]: one file per artifact under a directory (the default)
//   - [MongoStore]: a MongoDB collection, for servers sharing storage
//   - [MemoryStore]: an in-process map, for tests and one-shot runs
//   - [NullStore]: discards everything
//
// # Identity
//
// Artifact ids come from [NewID]. With [IdentityContent] the id is derived
// from the cache key, so the same expression, seed and format always map to
// the same artifact and concurrent identical requests write identical bytes.
// With [IdentityRequest] every request gets a fresh uuid. Either way two
// different requests never write to one fixed shared path.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// Artifact is a stored rendering.
type Artifact struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	Expression  string    `json:"expression"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is the interface for artifact storage backends.
type Store interface {
	// Put stores a, replacing any artifact with the same id. Readers never
	// observe a partially written artifact.
	Put(ctx context.Context, a *Artifact) error

	// Get returns the artifact with the given id, or an error carrying
	// [gserrors.ErrCodeNotFound].
	Get(ctx context.Context, id string) (*Artifact, error)

	Close() error
}

// Identity selects how artifact ids are assigned.
type Identity string

const (
	// IdentityContent derives ids from the content key.
	IdentityContent Identity = "content"
	// IdentityRequest assigns a random id per request.
	IdentityRequest Identity = "request"
)

// Valid reports whether i is a known identity mode.
func (i Identity) Valid() bool {
	return i == IdentityContent || i == IdentityRequest
}

// NewID returns an artifact id. For [IdentityContent] it is the first 32 hex
// digits of the SHA-256 of key; otherwise a random uuid.
func NewID(identity Identity, key string) string {
	if identity == IdentityContent {
		sum := sha256.Sum256([]byte(key))
		return hex.EncodeToString(sum[:16])
	}
	return uuid.NewString()
}

func notFound(id string) error {
	return gserrors.New(gserrors.ErrCodeNotFound, "artifact %s not found", id)
}

// check validates an artifact before it is written.
func check(a *Artifact) error {
	if a == nil {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "nil artifact")
	}
	if err := gserrors.ValidateArtifactID(a.ID); err != nil {
		return err
	}
	if err := gserrors.ValidateArtifactID(a.Format); err != nil {
		return gserrors.New(gserrors.ErrCodeInvalidFormat, "invalid artifact format %q", a.Format)
	}
	return nil
}
