package geom

import "math"

// fallbackAngles are the directions tried when searching for a retreat or
// collision-free position, in radians relative to the preferred heading.
// Ordered by increasing deviation so the first workable candidate is also the
// least disruptive one.
var fallbackAngles = []float64{
	0,
	math.Pi / 6, -math.Pi / 6,
	math.Pi / 3, -math.Pi / 3,
	math.Pi / 2, -math.Pi / 2,
	2 * math.Pi / 3, -2 * math.Pi / 3,
	5 * math.Pi / 6, -5 * math.Pi / 6,
}

// FallbackDirections returns the candidate headings for a retreat whose
// preferred direction is dir (a unit vector). Eleven directions, preferred
// first, fanning out to either side.
func FallbackDirections(dir Point) []Point {
	if dir.Len() < 1e-9 {
		dir = Point{1, 0}
	}
	dir = dir.Norm()
	out := make([]Point, 0, len(fallbackAngles))
	for _, a := range fallbackAngles {
		out = append(out, dir.Rotate(a))
	}
	return out
}

// MoveCandidates generates alternative destinations for a move from `from`
// toward `dest` with the given move allowance: the naive destination, lateral
// offsets, shortened moves, and shortened+offset combinations. The naive
// destination is always first.
func MoveCandidates(from, dest Point, move float64) []Point {
	naive := Toward(from, dest, move)
	dir := dest.Sub(from).Norm()
	if dir.Len() < 1e-9 {
		return []Point{naive}
	}
	perp := Point{-dir.Y, dir.X}

	out := []Point{naive}
	for _, off := range []float64{3, -3, 6, -6} {
		out = append(out, naive.Add(perp.Scale(off)))
	}
	for _, frac := range []float64{0.75, 0.5} {
		short := Toward(from, dest, move*frac)
		out = append(out, short)
		for _, off := range []float64{3, -3} {
			out = append(out, short.Add(perp.Scale(off)))
		}
	}
	return out
}

// Formation places n circular bases of the given radius around center in a
// packed ring pattern: one model on the center, the rest in rings spaced by
// the base diameter plus a small gap. Used to turn a single destination point
// into per-model positions.
func Formation(center Point, n int, radius float64) []Point {
	if n <= 0 {
		return nil
	}
	out := make([]Point, 0, n)
	out = append(out, center)
	gap := radius*2 + 0.2
	ring := 1
	for len(out) < n {
		r := gap * float64(ring)
		// Models that fit on this ring's circumference.
		capacity := int(math.Max(1, math.Floor(2*math.Pi*r/gap)))
		for i := 0; i < capacity && len(out) < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(capacity)
			out = append(out, center.Add(Point{math.Cos(a) * r, math.Sin(a) * r}))
		}
		ring++
	}
	return out
}

// ClearOfAll reports whether every point in pts keeps at least clearance
// distance from every circle's edge.
func ClearOfAll(pts []Point, radius float64, obstacles []Circle, clearance float64) bool {
	for _, p := range pts {
		for _, o := range obstacles {
			if Dist(p, o.C) < o.R+radius+clearance {
				return false
			}
		}
	}
	return true
}

// NoOverlap reports whether the bases at pts avoid overlapping any occupied
// base. Bases in pts are not checked against each other; Formation already
// spaces them.
func NoOverlap(pts []Point, radius float64, occupied []Circle) bool {
	for _, p := range pts {
		c := Circle{C: p, R: radius}
		for _, o := range occupied {
			if c.Overlaps(o) {
				return false
			}
		}
	}
	return true
}
