package align

import (
	"math"
	"testing"

	"radview/pkg/geometry"
)

func applyAll(t geometry.AffineTransform, pts []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

func TestRegisterExactThreePoints(t *testing.T) {
	want := geometry.Translation(20, -10).Compose(
		geometry.Scaling(2).Compose(geometry.Rotation(math.Pi / 6)))

	src := []geometry.Point2D{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}
	dst := applyAll(want, src)

	res, err := Register(src, dst)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i, p := range src {
		got := res.Transform.Apply(p)
		if got.Distance(dst[i]) > 1e-6 {
			t.Errorf("landmark %d maps to %v, want %v", i, got, dst[i])
		}
	}
	if res.MeanError > 1e-6 {
		t.Errorf("mean error = %v, want ~0", res.MeanError)
	}

	scale, rot, _, _ := res.Transform.Decompose()
	if math.Abs(scale-2) > 1e-6 {
		t.Errorf("decomposed scale = %v, want 2", scale)
	}
	if math.Abs(rot-30) > 1e-6 {
		t.Errorf("decomposed rotation = %v, want 30", rot)
	}
}

func TestRegisterRejectsOutlier(t *testing.T) {
	truth := geometry.Translation(5, 7)
	src := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100},
		{X: 100, Y: 100}, {X: 50, Y: 50}, {X: 30, Y: 80},
	}
	dst := applyAll(truth, src)
	// One badly mis-clicked landmark.
	dst[3] = geometry.Point2D{X: 400, Y: -300}

	res, err := Register(src, dst)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, i := range res.Inliers {
		if i == 3 {
			t.Error("outlier landmark 3 survived RANSAC")
		}
	}
	if len(res.Inliers) != 5 {
		t.Errorf("inliers = %d, want 5", len(res.Inliers))
	}
	if res.MeanError > 0.5 {
		t.Errorf("mean error = %v, want below RANSAC threshold", res.MeanError)
	}
	got := res.Transform.Apply(geometry.Point2D{X: 10, Y: 10})
	if got.Distance(geometry.Point2D{X: 15, Y: 17}) > 0.5 {
		t.Errorf("recovered transform maps (10,10) to %v, want (15,17)", got)
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []geometry.Point2D
		dst  []geometry.Point2D
	}{
		{
			name: "count mismatch",
			src:  []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
			dst:  []geometry.Point2D{{X: 0, Y: 0}},
		},
		{
			name: "too few pairs",
			src:  []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}},
			dst:  []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Register(tt.src, tt.dst); err == nil {
				t.Error("Register accepted invalid input")
			}
		})
	}
}
