package measure

import (
	"fmt"
	"math"

	"radview/pkg/geometry"
)

// PixelSpacingMM is the fixed pixel-to-physical conversion used for distance
// tools. Acquisition hardware at the clinic produces scans at this spacing;
// per-image spacing metadata is not available on the raster contract.
const PixelSpacingMM = 0.1

// Compute evaluates a formula over the given points and returns the numeric
// value plus its formatted display string. Callers are expected to satisfy
// the tool's arity first; if they do not, a zero value and a placeholder
// string are returned rather than panicking.
func Compute(kind FormulaKind, points []geometry.Point2D) (float64, string) {
	switch kind {
	case Distance2:
		if len(points) < 2 {
			return 0, "--"
		}
		mm := points[0].Distance(points[1]) * PixelSpacingMM
		return mm, fmt.Sprintf("%.1fmm", mm)
	case Angle3:
		if len(points) < 3 {
			return 0, "--"
		}
		deg := segmentAngle(
			points[0].HeadingDeg(points[1]),
			points[1].HeadingDeg(points[2]),
		)
		return deg, fmt.Sprintf("%.1f°", deg)
	case Angle4Pair:
		if len(points) < 4 {
			return 0, "--"
		}
		deg := segmentAngle(
			points[0].HeadingDeg(points[1]),
			points[2].HeadingDeg(points[3]),
		)
		return deg, fmt.Sprintf("%.1f°", deg)
	default:
		return 0, "--"
	}
}

// segmentAngle returns the angle between two headings, folded so the result
// is always in [0, 90]. Spinal curvature measurements report the angle
// between lines, not directed segments, so headings 170° apart read as 10°.
func segmentAngle(h1, h2 float64) float64 {
	diff := math.Abs(h1 - h2)
	if diff > 180 {
		diff = 360 - diff
	}
	if diff > 90 {
		diff = 180 - diff
	}
	return diff
}
