package circuit

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
	"github.com/matzehuels/gatesketch/pkg/expr"
)

// DefaultSeed seeds the jog generator when no seed or source is given.
const DefaultSeed = uint64(42)

// Source supplies random integers in [0, n). *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Option configures a [Builder].
type Option func(*Builder)

// WithLayout replaces [DefaultLayout].
func WithLayout(l Layout) Option { return func(b *Builder) { b.layout = l } }

// WithSeed seeds a fresh PCG generator for every build.
func WithSeed(seed uint64) Option {
	return func(b *Builder) { b.seed = seed; b.source = nil }
}

// WithSource uses src for route jogs. The source is shared across builds, so
// results depend on call order; prefer [WithSeed] for reproducible output.
func WithSource(src Source) Option { return func(b *Builder) { b.source = src } }

// WithLogger sets the logger used for debug-level placement traces.
func WithLogger(l *log.Logger) Option { return func(b *Builder) { b.logger = l } }

// Builder turns expressions into circuits. It holds only configuration and
// may be reused; it is safe for concurrent use unless built with a shared
// [WithSource] that is not itself safe.
type Builder struct {
	layout Layout
	seed   uint64
	source Source
	logger *log.Logger
}

// NewBuilder creates a builder with [DefaultLayout] and [DefaultSeed].
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{layout: DefaultLayout, seed: DefaultSeed}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return b
}

// Build is shorthand for NewBuilder(opts...).Build(expression).
func Build(expression string, opts ...Option) (*Circuit, error) {
	return NewBuilder(opts...).Build(expression)
}

// Layout returns the geometry the builder places with.
func (b *Builder) Layout() Layout { return b.layout }

// Build validates expression and lays out its circuit.
//
// Invalid input yields an INVALID_EXPRESSION error before any layout work.
// A broken postfix or stack invariant yields INTERNAL_INCONSISTENCY.
func (b *Builder) Build(expression string) (*Circuit, error) {
	if err := b.layout.Validate(); err != nil {
		return nil, err
	}

	e, err := expr.Parse(expression)
	if err != nil {
		return nil, err
	}
	postfix := e.Postfix()
	if err := expr.CheckPostfix(postfix); err != nil {
		return nil, err
	}

	rng := b.source
	if rng == nil {
		rng = rand.New(rand.NewPCG(b.seed, b.seed^0xdeadbeef))
	}

	s := &state{
		layout: b.layout,
		rng:    rng,
		logger: b.logger,
		index:  make(map[string]int),
		circuit: &Circuit{
			Expression: expression,
			Postfix:    expr.FormatPostfix(postfix),
			Operands:   e.Operands(),
			Layout:     b.layout,
		},
	}
	if err := s.run(postfix); err != nil {
		return nil, err
	}
	return s.circuit, nil
}

// state is the per-build working set.
type state struct {
	layout  Layout
	rng     Source
	logger  *log.Logger
	circuit *Circuit
	index   map[string]int // wire name -> position in circuit.Wires
	stack   []string
	usedY   []int
}

func (s *state) run(postfix []expr.Token) error {
	c := s.circuit
	for i, name := range c.Operands {
		s.addWire(Wire{Name: name, Kind: OperandWire, Pos: s.layout.operandPos(i)})
	}

	for _, t := range postfix {
		if t.Kind == expr.Ident {
			s.stack = append(s.stack, t.Text)
			continue
		}
		kind, ok := gateKindOf(t)
		if !ok {
			return inconsistent("unexpected token %q in postfix sequence", t.Text)
		}
		if len(c.Operands) == 0 {
			return inconsistent("operator %q with no operands", t.Text)
		}
		if err := s.place(kind); err != nil {
			return err
		}
	}

	if len(s.stack) != 1 {
		return inconsistent("%d wires left on the stack, want 1", len(s.stack))
	}
	c.Output = s.stack[0]

	maxY := s.layout.EmptyMaxY
	if len(s.usedY) > 0 {
		maxY = slices.Max(s.usedY)
	}
	c.Width, c.Height = s.layout.extent(len(c.Gates), len(c.Operands), maxY)
	return s.layout.checkExtent(c.Width, c.Height)
}

// place pops the gate's inputs, positions the gate, routes its inputs and
// pushes its output wire.
func (s *state) place(kind GateKind) error {
	arity := kind.Arity()
	if len(s.stack) < arity {
		return inconsistent("%s gate needs %d inputs, stack holds %d", kind, arity, len(s.stack))
	}
	inputs := make([]string, arity)
	for i := range inputs {
		inputs[i] = s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
	}

	resolved, err := s.resolve(inputs)
	if err != nil {
		return err
	}

	n := len(s.circuit.Gates)
	y := resolved[0].Pos.Y
	if arity == 2 {
		y += s.layout.PairOffset
	}
	y = s.clearY(y)

	g := Gate{
		Index:  n,
		Kind:   kind,
		Inputs: inputs,
		Output: fmt.Sprintf("T%d", n),
		Pos:    Point{X: s.layout.gateX(n), Y: y},
		Width:  s.layout.GateWidth,
		Height: s.layout.GateHeight,
	}
	s.circuit.Gates = append(s.circuit.Gates, g)
	s.addWire(Wire{Name: g.Output, Kind: OutputWire, Pos: s.layout.outputPos(g.Pos)})

	terminals := g.Terminals(s.layout)
	if len(resolved) < len(terminals) {
		// Both inputs name the same wire (a&a): it feeds every terminal.
		for t, p := range terminals {
			s.connect(resolved[0], g, t, p)
		}
	} else {
		for i, w := range resolved {
			s.connect(w, g, i, terminals[i])
		}
	}

	s.logger.Debug("placed gate", "gate", g.Output, "kind", g.Kind, "inputs", inputs, "pos", g.Pos)
	s.stack = append(s.stack, g.Output)
	return nil
}

// resolve maps popped names to their wires, ordered by the position of the
// wire in the circuit. Repeated names resolve to a single wire.
func (s *state) resolve(names []string) ([]Wire, error) {
	idx := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := s.index[name]
		if !ok {
			return nil, inconsistent("wire %q does not exist", name)
		}
		if !slices.Contains(idx, i) {
			idx = append(idx, i)
		}
	}
	slices.Sort(idx)
	out := make([]Wire, len(idx))
	for k, i := range idx {
		out[k] = s.circuit.Wires[i]
	}
	return out, nil
}

// clearY moves y down until it is clear of every placed gate, then records
// it.
func (s *state) clearY(y int) int {
	for s.collides(y) {
		y += s.layout.CollisionStep
	}
	s.usedY = append(s.usedY, y)
	return y
}

func (s *state) collides(y int) bool {
	for _, u := range s.usedY {
		if abs(y-u) <= s.layout.MinSeparation {
			return true
		}
	}
	return false
}

func (s *state) addWire(w Wire) {
	s.index[w.Name] = len(s.circuit.Wires)
	s.circuit.Wires = append(s.circuit.Wires, w)
}

func (s *state) connect(w Wire, g Gate, terminal int, to Point) {
	s.circuit.Connections = append(s.circuit.Connections, Connection{
		From:     w.Name,
		Gate:     g.Index,
		Terminal: terminal,
		Path:     route(w.Pos, to, s.rng.IntN(s.layout.MaxJog+1)),
	})
}

func inconsistent(format string, args ...any) error {
	return gserrors.New(gserrors.ErrCodeInternalInconsistency, format, args...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
