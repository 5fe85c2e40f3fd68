package geometry

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b Point2D) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(Point2D{X: a.X + t*abx, Y: a.Y + t*aby})
}

// PolylineDistance returns the smallest distance from p to any segment of
// the polyline through points. Returns +Inf semantics via a large value when
// points is empty; a single point degenerates to point distance.
func PolylineDistance(p Point2D, points []Point2D) float64 {
	if len(points) == 0 {
		return 1e18
	}
	if len(points) == 1 {
		return p.Distance(points[0])
	}
	best := SegmentDistance(p, points[0], points[1])
	for i := 1; i < len(points)-1; i++ {
		if d := SegmentDistance(p, points[i], points[i+1]); d < best {
			best = d
		}
	}
	return best
}
