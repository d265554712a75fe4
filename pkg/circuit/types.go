package circuit

import (
	"fmt"

	"github.com/matzehuels/gatesketch/pkg/expr"
)

// Point is a position on the canvas. Y grows downwards.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// GateKind is the logic function of a gate.
type GateKind string

const (
	AND GateKind = "AND"
	OR  GateKind = "OR"
	NOT GateKind = "NOT"
)

// Symbol returns the mark printed inside the gate box: "&" for AND and "1"
// for OR and NOT.
func (k GateKind) Symbol() string {
	if k == AND {
		return "&"
	}
	return "1"
}

// Arity returns the number of inputs the gate takes.
func (k GateKind) Arity() int {
	if k == NOT {
		return 1
	}
	return 2
}

func gateKindOf(t expr.Token) (GateKind, bool) {
	switch t.Kind {
	case expr.And:
		return AND, true
	case expr.Or:
		return OR, true
	case expr.Not:
		return NOT, true
	}
	return "", false
}

// WireKind distinguishes input wires from gate outputs.
type WireKind string

const (
	OperandWire WireKind = "operand"
	OutputWire  WireKind = "output"
)

// Wire is a named signal. Pos is the wire's connection point: the right end
// of an operand lead, or the far end of a gate's output lead.
type Wire struct {
	Name string   `json:"name"`
	Kind WireKind `json:"kind"`
	Pos  Point    `json:"pos"`
}

// Gate is a placed logic element. Inputs lists wire names in the order they
// were popped from the operand stack.
type Gate struct {
	Index  int      `json:"index"`
	Kind   GateKind `json:"kind"`
	Inputs []string `json:"inputs"`
	Output string   `json:"output"`
	Pos    Point    `json:"pos"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
}

// Terminals returns the input connection points on the gate's left edge:
// the centre for NOT, upper and lower for two-input gates.
func (g Gate) Terminals(l Layout) []Point {
	left := g.Pos.X - g.Width/2
	if g.Kind == NOT {
		return []Point{{X: left, Y: g.Pos.Y}}
	}
	return []Point{
		{X: left, Y: g.Pos.Y - l.TerminalSpread},
		{X: left, Y: g.Pos.Y + l.TerminalSpread},
	}
}

// Connection is a routed path from a wire to one gate terminal. Consecutive
// path points share an x or a y coordinate.
type Connection struct {
	From     string  `json:"from"`
	Gate     int     `json:"gate"`
	Terminal int     `json:"terminal"`
	Path     []Point `json:"path"`
}

// Circuit is the complete schematic for one expression.
type Circuit struct {
	Expression  string       `json:"expression"`
	Postfix     []string     `json:"postfix"`
	Operands    []string     `json:"operands"`
	Wires       []Wire       `json:"wires"`
	Gates       []Gate       `json:"gates"`
	Connections []Connection `json:"connections"`
	Output      string       `json:"output"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Layout      Layout       `json:"layout"`
}

// Wire returns the wire with the given name.
func (c *Circuit) Wire(name string) (Wire, bool) {
	for _, w := range c.Wires {
		if w.Name == name {
			return w, true
		}
	}
	return Wire{}, false
}
