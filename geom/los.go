package geom

// Polygon is a closed terrain outline. Vertices are assumed to be in order;
// the closing edge from the last vertex back to the first is implicit.
type Polygon []Point

// segmentsIntersect reports whether segments ab and cd properly intersect or
// touch. Uses cross-product orientation tests rather than line equations so
// vertical segments need no special case.
func segmentsIntersect(a, b, c, d Point) bool {
	o1 := orientation(a, b, c)
	o2 := orientation(a, b, d)
	o3 := orientation(c, d, a)
	o4 := orientation(c, d, b)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear touches.
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// orientation returns 0 for collinear, 1 for clockwise, 2 for counterclockwise.
func orientation(a, b, c Point) int {
	v := b.Sub(a).Cross(c.Sub(a))
	switch {
	case v > 1e-9:
		return 2
	case v < -1e-9:
		return 1
	default:
		return 0
	}
}

func onSegment(a, b, p Point) bool {
	return p.X >= minf(a.X, b.X)-1e-9 && p.X <= maxf(a.X, b.X)+1e-9 &&
		p.Y >= minf(a.Y, b.Y)-1e-9 && p.Y <= maxf(a.Y, b.Y)+1e-9
}

// Contains reports whether p lies inside the polygon, using the ray-casting
// parity rule. Points exactly on an edge count as inside.
func (poly Polygon) Contains(p Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a, b := poly[i], poly[j]
		if orientation(a, b, p) == 0 && onSegment(a, b, p) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Intersects reports whether segment ab crosses any edge of the polygon or
// has an endpoint inside it.
func (poly Polygon) Intersects(a, b Point) bool {
	if len(poly) < 3 {
		return false
	}
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		if segmentsIntersect(a, b, poly[i], poly[j]) {
			return true
		}
		j = i
	}
	return poly.Contains(a) || poly.Contains(b)
}

// LineBlocked reports whether the sight line from a to b passes through any
// of the given blocking polygons. Endpoints sitting inside a blocker count as
// blocked; a shooter peeking out of area terrain is the host engine's call,
// not ours.
func LineBlocked(a, b Point, blockers []Polygon) bool {
	for _, poly := range blockers {
		if poly.Intersects(a, b) {
			return true
		}
	}
	return false
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
