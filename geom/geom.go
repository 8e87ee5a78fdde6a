// Package geom provides the 2D primitives the decision engine reasons with.
// The battlefield is a flat plane measured in inches; units occupy circular
// bases and terrain is polygonal.
package geom

import "math"

// Point is a position on the battlefield in inches.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point      { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point      { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(f float64) Point  { return Point{p.X * f, p.Y * f} }
func (p Point) Len() float64           { return math.Hypot(p.X, p.Y) }
func (p Point) Dot(q Point) float64    { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64  { return p.X*q.Y - p.Y*q.X }

// Norm returns the unit vector in p's direction, or the zero vector if p is
// (numerically) zero so callers never divide by zero.
func (p Point) Norm() Point {
	l := p.Len()
	if l < 1e-9 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Rotate returns p rotated by the given angle in radians around the origin.
func (p Point) Rotate(rad float64) Point {
	s, c := math.Sincos(rad)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Dist returns the straight-line distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Lerp interpolates between a and b by t in [0, 1].
func Lerp(a, b Point, t float64) Point {
	return Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Toward returns the point reached by moving dist from `from` in the
// direction of `to`, never overshooting `to`.
func Toward(from, to Point, dist float64) Point {
	d := Dist(from, to)
	if d <= dist || d < 1e-9 {
		return to
	}
	return Lerp(from, to, dist/d)
}

// Centroid returns the average of the given points, or the zero point for an
// empty slice.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts)))
}

// Circle is a model base footprint.
type Circle struct {
	C Point
	R float64
}

// Overlaps reports whether two bases overlap (touching is allowed).
func (c Circle) Overlaps(o Circle) bool {
	return Dist(c.C, o.C) < c.R+o.R-1e-9
}

// Rect is an axis-aligned region, used for deployment zones.
type Rect struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether p lies inside the rectangle (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{(r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2}
}

// Clamp returns the nearest point to p inside the rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{clampf(p.X, r.MinX, r.MaxX), clampf(p.Y, r.MinY, r.MaxY)}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
