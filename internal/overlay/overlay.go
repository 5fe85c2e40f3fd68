// Package overlay turns finalized measurements and in-progress session
// points into vector drawing instructions, and rasterises those instructions
// over a rendered frame. Building instructions is a pure function of its
// inputs.
package overlay

import (
	"radview/internal/measure"
	"radview/pkg/geometry"
)

// Marker is a point marker. Index is 1-based for numbered in-progress
// points and 0 for stored measurement points.
type Marker struct {
	Center geometry.Point2D
	Index  int
	Active bool
}

// Segment is a guide line between two points.
type Segment struct {
	From, To geometry.Point2D
	Dashed   bool
	Active   bool
}

// Label is measurement text anchored near its points.
type Label struct {
	At   geometry.Point2D
	Text string
}

// Drawing is the full instruction list for one frame.
type Drawing struct {
	Markers  []Marker
	Segments []Segment
	Labels   []Label
}

// Build produces the drawing instructions for the finalized measurements,
// the in-progress points of the active tool, and the live preview lines.
func Build(measurements []measure.Measurement, inProgress []geometry.Point2D, active *measure.ToolDefinition) Drawing {
	var d Drawing

	for _, m := range measurements {
		tool, ok := measure.FindTool(m.ToolID)
		for _, p := range m.Points {
			d.Markers = append(d.Markers, Marker{Center: p})
		}
		if ok {
			for _, pair := range guidePairs(tool.Kind, len(m.Points)) {
				if pair[0] >= len(m.Points) || pair[1] >= len(m.Points) {
					continue
				}
				d.Segments = append(d.Segments, Segment{
					From:   m.Points[pair[0]],
					To:     m.Points[pair[1]],
					Dashed: tool.Kind != measure.Distance2,
				})
			}
		}
		d.Labels = append(d.Labels, Label{At: labelAnchor(m.Points), Text: m.Value})
	}

	for i, p := range inProgress {
		d.Markers = append(d.Markers, Marker{Center: p, Index: i + 1, Active: true})
	}
	if active != nil && len(inProgress) > 1 {
		for _, pair := range guidePairs(active.Kind, active.PointsNeeded) {
			if pair[0] < len(inProgress) && pair[1] < len(inProgress) {
				d.Segments = append(d.Segments, Segment{
					From:   inProgress[pair[0]],
					To:     inProgress[pair[1]],
					Dashed: true,
					Active: true,
				})
			}
		}
	}

	return d
}

// Transformed maps every drawing coordinate through t. Used to carry a
// drawing built in image space onto a rendered screen frame.
func (d Drawing) Transformed(t geometry.AffineTransform) Drawing {
	out := Drawing{
		Markers:  make([]Marker, len(d.Markers)),
		Segments: make([]Segment, len(d.Segments)),
		Labels:   make([]Label, len(d.Labels)),
	}
	for i, m := range d.Markers {
		m.Center = t.Apply(m.Center)
		out.Markers[i] = m
	}
	for i, s := range d.Segments {
		s.From = t.Apply(s.From)
		s.To = t.Apply(s.To)
		out.Segments[i] = s
	}
	for i, l := range d.Labels {
		l.At = t.Apply(l.At)
		out.Labels[i] = l
	}
	return out
}

// guidePairs returns the point-index pairs connected by guide lines for a
// tool family: angle tools connect (0,1)+(2,3) when 4 points and (0,1)+(1,2)
// when 3, distance tools connect first to last.
func guidePairs(kind measure.FormulaKind, arity int) [][2]int {
	switch kind {
	case measure.Angle4Pair:
		return [][2]int{{0, 1}, {2, 3}}
	case measure.Angle3:
		return [][2]int{{0, 1}, {1, 2}}
	default:
		if arity < 2 {
			return nil
		}
		return [][2]int{{0, arity - 1}}
	}
}

// labelAnchor places the value text just right of the measured points,
// vertically on their centroid.
func labelAnchor(points []geometry.Point2D) geometry.Point2D {
	box := geometry.BoundingBox(points)
	return geometry.Point2D{X: box.X + box.Width + 8, Y: geometry.Centroid(points).Y}
}
