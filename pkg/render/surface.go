package render

// Surface receives drawing commands in canvas units. Text is anchored at its
// top-left corner.
type Surface interface {
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64)
	Circle(cx, cy, r float64)
	Text(s string, x, y float64)
}
