package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestComposeAppliesRightOperandFirst(t *testing.T) {
	tr := Translation(10, 20).Compose(Scaling(2))
	got := tr.Apply(Point2D{X: 1, Y: 2})
	if math.Abs(got.X-12) > eps || math.Abs(got.Y-24) > eps {
		t.Errorf("got %+v, want (12, 24)", got)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	tr := Translation(3, -7).
		Compose(Rotation(0.7)).
		Compose(Scaling(1.8))
	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("transform not invertible")
	}

	p := Point2D{X: 42.5, Y: -13.25}
	back := inv.Apply(tr.Apply(p))
	if math.Abs(back.X-p.X) > 1e-6 || math.Abs(back.Y-p.Y) > 1e-6 {
		t.Errorf("round trip drifted: %+v -> %+v", p, back)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, ok := (AffineTransform{}).Inverse(); ok {
		t.Error("zero matrix reported invertible")
	}
}

func TestDecompose(t *testing.T) {
	tr := Translation(5, 6).
		Compose(Rotation(30 * math.Pi / 180)).
		Compose(Scaling(2))
	scale, rot, tx, ty := tr.Decompose()
	if math.Abs(scale-2) > 1e-9 {
		t.Errorf("scale = %v, want 2", scale)
	}
	if math.Abs(rot-30) > 1e-9 {
		t.Errorf("rotation = %v, want 30", rot)
	}
	if tx != 5 || ty != 6 {
		t.Errorf("translation = (%v, %v), want (5, 6)", tx, ty)
	}
}

func TestHeadingDeg(t *testing.T) {
	tests := []struct {
		from, to Point2D
		want     float64
	}{
		{Point2D{0, 0}, Point2D{1, 0}, 0},
		{Point2D{0, 0}, Point2D{0, 1}, 90},
		{Point2D{0, 0}, Point2D{-1, 0}, 180},
		{Point2D{2, 2}, Point2D{3, 3}, 45},
	}
	for _, tt := range tests {
		if got := tt.from.HeadingDeg(tt.to); math.Abs(got-tt.want) > eps {
			t.Errorf("HeadingDeg(%+v -> %+v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	tests := []struct {
		name string
		p    Point2D
		want float64
	}{
		{"above middle", Point2D{X: 5, Y: 3}, 3},
		{"beyond end", Point2D{X: 14, Y: 3}, 5},
		{"before start", Point2D{X: -3, Y: 4}, 5},
		{"on segment", Point2D{X: 7, Y: 0}, 0},
	}
	for _, tt := range tests {
		if got := SegmentDistance(tt.p, a, b); math.Abs(got-tt.want) > eps {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}

	// Degenerate segment collapses to point distance.
	if got := SegmentDistance(Point2D{X: 3, Y: 4}, a, a); math.Abs(got-5) > eps {
		t.Errorf("degenerate segment: got %v, want 5", got)
	}
}

func TestPolylineDistance(t *testing.T) {
	line := []Point2D{{0, 0}, {10, 0}, {10, 10}}
	if got := PolylineDistance(Point2D{X: 12, Y: 5}, line); math.Abs(got-2) > eps {
		t.Errorf("got %v, want 2", got)
	}
	if got := PolylineDistance(Point2D{X: 1, Y: 1}, []Point2D{{4, 5}}); math.Abs(got-5) > eps {
		t.Errorf("single point: got %v, want 5", got)
	}
	if got := PolylineDistance(Point2D{}, nil); got < 1e17 {
		t.Errorf("empty polyline should be unreachable, got %v", got)
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox([]Point2D{{3, 9}, {-1, 4}, {7, 5}})
	if box.X != -1 || box.Y != 4 || box.Width != 8 || box.Height != 5 {
		t.Errorf("got %+v", box)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 100, 50)
	tests := []struct {
		p    Point2D
		want bool
	}{
		{Point2D{X: 50, Y: 25}, true},
		{Point2D{X: 0, Y: 0}, true},
		{Point2D{X: 100, Y: 50}, true},
		{Point2D{X: -0.1, Y: 25}, false},
		{Point2D{X: 50, Y: 50.1}, false},
	}
	for _, tc := range tests {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Point2D{{0, 0}, {10, 0}, {5, 9}})
	if math.Abs(c.X-5) > eps || math.Abs(c.Y-3) > eps {
		t.Errorf("got %+v, want (5, 3)", c)
	}
	if got := Centroid(nil); got != (Point2D{}) {
		t.Errorf("empty set: got %+v, want origin", got)
	}
}
