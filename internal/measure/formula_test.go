package measure

import (
	"math"
	"testing"

	"radview/pkg/geometry"
)

func TestComputeDistance(t *testing.T) {
	tests := []struct {
		name      string
		points    []geometry.Point2D
		wantValue float64
		wantText  string
	}{
		{
			name:      "ten pixels horizontal",
			points:    []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}},
			wantValue: 1.0,
			wantText:  "1.0mm",
		},
		{
			name:      "diagonal 3-4-5",
			points:    []geometry.Point2D{{X: 0, Y: 0}, {X: 30, Y: 40}},
			wantValue: 5.0,
			wantText:  "5.0mm",
		},
		{
			name:      "zero length",
			points:    []geometry.Point2D{{X: 7, Y: 7}, {X: 7, Y: 7}},
			wantValue: 0,
			wantText:  "0.0mm",
		},
		{
			name:     "too few points yields fallback",
			points:   []geometry.Point2D{{X: 0, Y: 0}},
			wantText: "--",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, text := Compute(Distance2, tt.points)
			if math.Abs(got-tt.wantValue) > 1e-9 {
				t.Errorf("value = %v, want %v", got, tt.wantValue)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestComputeAngle3(t *testing.T) {
	tests := []struct {
		name      string
		points    []geometry.Point2D
		wantValue float64
		wantText  string
	}{
		{
			name:      "perpendicular segments",
			points:    []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
			wantValue: 90,
			wantText:  "90.0°",
		},
		{
			name:      "collinear segments",
			points:    []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}},
			wantValue: 0,
			wantText:  "0.0°",
		},
		{
			name:      "obtuse raw difference folds below 90",
			points:    []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 1}},
			wantValue: 180 - math.Atan2(1, -10)*180/math.Pi,
			wantText:  "5.7°",
		},
		{
			name:     "too few points yields fallback",
			points:   []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}},
			wantText: "--",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, text := Compute(Angle3, tt.points)
			if math.Abs(got-tt.wantValue) > 1e-6 {
				t.Errorf("value = %v, want %v", got, tt.wantValue)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestComputeAngle4Pair(t *testing.T) {
	tests := []struct {
		name      string
		points    []geometry.Point2D
		wantValue float64
	}{
		{
			name: "perpendicular lines",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0},
				{X: 5, Y: 0}, {X: 5, Y: 10},
			},
			wantValue: 90,
		},
		{
			name: "parallel lines",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0},
				{X: 0, Y: 5}, {X: 10, Y: 5},
			},
			wantValue: 0,
		},
		{
			name: "opposite directions read as parallel",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0},
				{X: 10, Y: 5}, {X: 0, Y: 5},
			},
			wantValue: 0,
		},
		{
			name: "45 degree pair",
			points: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0},
				{X: 0, Y: 0}, {X: 10, Y: 10},
			},
			wantValue: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Compute(Angle4Pair, tt.points)
			if math.Abs(got-tt.wantValue) > 1e-6 {
				t.Errorf("value = %v, want %v", got, tt.wantValue)
			}
		})
	}
}

// Reported angles must always land in [0, 90] regardless of click order.
func TestAngleRange(t *testing.T) {
	headings := []float64{-179, -135, -91, -90, -45, -1, 0, 1, 45, 89, 90, 91, 135, 179, 180}
	for _, h1 := range headings {
		for _, h2 := range headings {
			got := segmentAngle(h1, h2)
			if got < 0 || got > 90 {
				t.Fatalf("segmentAngle(%v, %v) = %v, out of [0, 90]", h1, h2, got)
			}
		}
	}
}

func TestComputeComposite(t *testing.T) {
	if v, text := Compute(Composite, []geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}}); v != 0 || text != "--" {
		t.Errorf("Compute(Composite) = %v, %q, want 0, %q", v, text, "--")
	}
}
