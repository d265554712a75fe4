package cache

// Keyer derives cache keys. Implementations must return equal keys for equal
// inputs and distinct keys otherwise.
type Keyer interface {
	// CircuitKey identifies the geometry built for an expression.
	CircuitKey(expression string, opts CircuitKeyOpts) string
	// ArtifactKey identifies one rendering of a circuit, given the hash of
	// its geometry.
	ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string
}

// CircuitKeyOpts holds the build inputs that change geometry.
type CircuitKeyOpts struct {
	Seed   uint64 `json:"seed"`
	Layout string `json:"layout,omitempty"` // hash of a non-default layout
}

// ArtifactKeyOpts holds the render inputs that change output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CircuitKey returns "circuit:<sha256>".
func (DefaultKeyer) CircuitKey(expression string, opts CircuitKeyOpts) string {
	return hashKey("circuit", expression, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(circuitHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", circuitHash, opts)
}

var _ Keyer = DefaultKeyer{}
