// Package circuit lays out a logic-circuit schematic for a Boolean
// expression.
//
// [Build] validates the expression, converts it to postfix order and walks
// the sequence with a stack of live wire names. Each identifier becomes an
// operand wire on the left margin; each operator becomes a [Gate] placed in
// its own column with a fresh output wire named T<n>, where n is the gate's
// creation index. Inputs are routed to gate terminals with orthogonal paths.
//
// # Placement
//
// Operand wires sit at x = 30 and y = 50 + 100*i in sorted name order. Gate n
// sits at x = 120 + 200*n. A gate's vertical position starts from its first
// input wire (offset by 10 for two-input gates) and is pushed down in steps
// of 40 until it is at least 40 away from every gate already placed.
//
// # Determinism
//
// The only randomness is the horizontal jog at the start of each route. It
// comes from an injected [Source]; the default is a PCG generator seeded per
// build, so the same expression and seed always give the same geometry.
//
//	c, err := circuit.Build("~(a&b)|c", circuit.WithSeed(7))
//	for _, g := range c.Gates {
//	    fmt.Println(g.Output, g.Kind, g.Pos)
//	}
package circuit
