package render

import (
	"github.com/matzehuels/gatesketch/pkg/circuit"
)

// Label and symbol offsets relative to the element they annotate.
const (
	labelDX      = -15
	labelDY      = -20
	symbolDY     = -20
	bubbleRadius = 5
)

// Draw issues the commands for c: operand wires and labels, then gates with
// their output leads, then connections.
func Draw(c *circuit.Circuit, s Surface) {
	l := c.Layout

	for _, w := range c.Wires {
		if w.Kind != circuit.OperandWire {
			continue
		}
		x, y := float64(w.Pos.X), float64(w.Pos.Y)
		s.Line(x, y, x-float64(l.OperandLead), y)
		s.Text(w.Name, x+labelDX, y+labelDY)
	}

	for _, g := range c.Gates {
		drawGate(s, l, g)
	}

	for _, conn := range c.Connections {
		for i := 1; i < len(conn.Path); i++ {
			a, b := conn.Path[i-1], conn.Path[i]
			s.Line(float64(a.X), float64(a.Y), float64(b.X), float64(b.Y))
		}
	}
}

func drawGate(s Surface, l circuit.Layout, g circuit.Gate) {
	x, y := float64(g.Pos.X), float64(g.Pos.Y)
	w, h := float64(g.Width), float64(g.Height)

	s.Rect(x-w/2, y-h/2, w, h)
	if g.Kind == circuit.NOT {
		s.Circle(x+w/2, y, bubbleRadius)
	}
	s.Text(g.Kind.Symbol(), x, y+symbolDY)

	ox := x + w/2 + float64(l.OutputLead)
	s.Line(ox, y, ox-float64(l.OutputLead), y)
}
