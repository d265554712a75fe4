package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance without seeing each other's entries.
//
// Example usage:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CircuitKey generates a prefixed key for geometry caching.
func (k *ScopedKeyer) CircuitKey(expression string, opts CircuitKeyOpts) string {
	return k.prefix + k.inner.CircuitKey(expression, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(circuitHash, opts)
}
