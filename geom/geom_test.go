package geom

import (
	"math"
	"testing"
)

func TestDistAndToward(t *testing.T) {
	a := Point{0, 0}
	b := Point{3, 4}
	if got := Dist(a, b); got != 5 {
		t.Fatalf("Dist = %v, want 5", got)
	}
	mid := Toward(a, b, 2.5)
	if math.Abs(Dist(a, mid)-2.5) > 1e-9 {
		t.Errorf("Toward moved %v, want 2.5", Dist(a, mid))
	}
	// Never overshoots.
	if got := Toward(a, b, 100); got != b {
		t.Errorf("Toward overshoot = %v, want %v", got, b)
	}
}

func TestNormZeroVector(t *testing.T) {
	if got := (Point{}).Norm(); got != (Point{}) {
		t.Errorf("Norm of zero = %v, want zero", got)
	}
}

func TestRotate(t *testing.T) {
	p := Point{1, 0}.Rotate(math.Pi / 2)
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y-1) > 1e-9 {
		t.Errorf("Rotate(pi/2) = %v, want (0,1)", p)
	}
}

func TestCircleOverlaps(t *testing.T) {
	a := Circle{C: Point{0, 0}, R: 1}
	tests := []struct {
		name string
		b    Circle
		want bool
	}{
		{"overlapping", Circle{C: Point{1, 0}, R: 1}, true},
		{"touching is allowed", Circle{C: Point{2, 0}, R: 1}, false},
		{"apart", Circle{C: Point{5, 0}, R: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"inside stays", Point{5, 5}, Point{5, 5}},
		{"outside lands on edge", Point{20, 5}, Point{10, 5}},
		{"corner", Point{-3, 30}, Point{0, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Clamp(tt.p); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonContains(t *testing.T) {
	square := Polygon{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{5, 5}, true},
		{"outside", Point{15, 5}, false},
		{"on edge", Point{10, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := square.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestLineBlocked(t *testing.T) {
	wall := Polygon{{4, -1}, {6, -1}, {6, 1}, {4, 1}}
	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"through the wall", Point{0, 0}, Point{10, 0}, true},
		{"around the wall", Point{0, 5}, Point{10, 5}, false},
		{"endpoint inside", Point{5, 0}, Point{10, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineBlocked(tt.a, tt.b, []Polygon{wall}); got != tt.want {
				t.Errorf("LineBlocked = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFallbackDirections(t *testing.T) {
	dirs := FallbackDirections(Point{0, 1})
	if len(dirs) != 11 {
		t.Fatalf("got %d directions, want 11", len(dirs))
	}
	// Preferred heading comes first, unchanged.
	if math.Abs(dirs[0].X) > 1e-9 || math.Abs(dirs[0].Y-1) > 1e-9 {
		t.Errorf("first direction = %v, want (0,1)", dirs[0])
	}
	for i, d := range dirs {
		if math.Abs(d.Len()-1) > 1e-9 {
			t.Errorf("direction %d is not a unit vector: %v", i, d)
		}
	}
	// A zero preferred direction still yields a full fan.
	if got := FallbackDirections(Point{}); len(got) != 11 {
		t.Errorf("zero-dir fan has %d directions, want 11", len(got))
	}
}

func TestMoveCandidatesNaiveFirst(t *testing.T) {
	from := Point{0, 0}
	dest := Point{20, 0}
	cands := MoveCandidates(from, dest, 6)
	if len(cands) == 0 {
		t.Fatal("no candidates")
	}
	if cands[0] != (Point{6, 0}) {
		t.Errorf("first candidate = %v, want naive (6,0)", cands[0])
	}
	// Shortened candidates never exceed the allowance.
	for i, c := range cands {
		if Dist(from, c) > 6+6+1e-9 { // lateral offsets may add up to 6
			t.Errorf("candidate %d at %v is implausibly far", i, c)
		}
	}
}

func TestFormation(t *testing.T) {
	center := Point{10, 10}
	pts := Formation(center, 10, 0.5)
	if len(pts) != 10 {
		t.Fatalf("got %d positions, want 10", len(pts))
	}
	if pts[0] != center {
		t.Errorf("first model at %v, want center %v", pts[0], center)
	}
	// Ring spacing keeps bases from overlapping each other.
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if Dist(pts[i], pts[j]) < 1.0-1e-6 {
				t.Errorf("models %d and %d overlap: %v vs %v", i, j, pts[i], pts[j])
			}
		}
	}
}

func TestClearOfAll(t *testing.T) {
	obstacles := []Circle{{C: Point{0, 0}, R: 0.5}}
	near := []Point{{1, 0}}
	far := []Point{{5, 0}}
	if ClearOfAll(near, 0.5, obstacles, 1.0) {
		t.Error("point within clearance reported clear")
	}
	if !ClearOfAll(far, 0.5, obstacles, 1.0) {
		t.Error("distant point reported blocked")
	}
}
