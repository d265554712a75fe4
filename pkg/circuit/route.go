package circuit

// route returns an orthogonal path from a wire to a gate terminal. The path
// leaves the wire horizontally by jog units; if that point lines up with
// the target a single segment finishes it, otherwise it turns vertical and
// then horizontal into the target. Collinear points are dropped.
func route(from, to Point, jog int) []Point {
	bend := Point{X: from.X + jog, Y: from.Y}
	pts := []Point{from, bend}
	if bend.X != to.X && bend.Y != to.Y {
		pts = append(pts, Point{X: bend.X, Y: to.Y})
	}
	pts = append(pts, to)
	return simplify(pts)
}

// simplify removes repeated points and interior points that lie on a
// straight line between their neighbours.
func simplify(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 && collinear(out[n-2], out[n-1], p) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func collinear(a, b, c Point) bool {
	return (a.X == b.X && b.X == c.X) || (a.Y == b.Y && b.Y == c.Y)
}
