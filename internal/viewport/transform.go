// Package viewport owns the per-viewport display state: the view transform
// (scale/pan/rotation), the radiometric adjustments, and the Instance that
// binds them to a raster and a measurement session.
package viewport

import (
	"math"

	"radview/pkg/geometry"
)

const (
	// MinScale and MaxScale bound the zoom range. Setters clamp to this
	// range rather than rejecting out-of-range input.
	MinScale = 0.1
	MaxScale = 10.0
)

// TransformState is the view transform of one viewport.
type TransformState struct {
	Scale       float64 `json:"scale"`
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	RotationDeg float64 `json:"rotation_deg"`
}

// Transform mutates a TransformState through clamping setters.
type Transform struct {
	state TransformState
}

// NewTransform returns a transform at identity (scale 1, no pan, no
// rotation).
func NewTransform() *Transform {
	return &Transform{state: TransformState{Scale: 1}}
}

// State returns a copy of the current state.
func (t *Transform) State() TransformState {
	return t.state
}

// SetScale stores the zoom factor, clamped to [MinScale, MaxScale].
func (t *Transform) SetScale(v float64) {
	if v < MinScale {
		v = MinScale
	}
	if v > MaxScale {
		v = MaxScale
	}
	t.state.Scale = v
}

// SetPan stores raw pan offsets. Panning past the image bounds is allowed so
// a partially-panned view can recenter.
func (t *Transform) SetPan(dx, dy float64) {
	t.state.OffsetX = dx
	t.state.OffsetY = dy
}

// SetRotation stores deg mod 360, keeping the sign for display. Use
// NormalizedRotation when comparing angles.
func (t *Transform) SetRotation(deg float64) {
	t.state.RotationDeg = math.Mod(deg, 360)
}

// NormalizedRotation returns the rotation folded into [0, 360).
func (t *Transform) NormalizedRotation() float64 {
	r := math.Mod(t.state.RotationDeg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// ResetView restores scale 1, zero pan and zero rotation. It does not touch
// the measurement session; clearing an in-progress measurement is a distinct
// user action.
func (t *Transform) ResetView() {
	t.state = TransformState{Scale: 1}
}

// ScreenTransform composes the affine mapping image coordinates to screen
// coordinates for a surface of the given size: translate to the surface
// center plus pan, scale, then rotate, so zoom and rotation pivot around the
// viewport center rather than the image's top-left corner.
func (t *Transform) ScreenTransform(surfaceW, surfaceH, imageW, imageH float64) geometry.AffineTransform {
	center := geometry.Translation(surfaceW/2+t.state.OffsetX, surfaceH/2+t.state.OffsetY)
	scale := geometry.Scaling(t.state.Scale)
	rotate := geometry.Rotation(t.state.RotationDeg * math.Pi / 180)
	recenter := geometry.Translation(-imageW/2, -imageH/2)
	return center.Compose(scale).Compose(rotate).Compose(recenter)
}

// ScreenToImage maps a screen-space point back into image coordinates.
func (t *Transform) ScreenToImage(p geometry.Point2D, surfaceW, surfaceH, imageW, imageH float64) (geometry.Point2D, bool) {
	inv, ok := t.ScreenTransform(surfaceW, surfaceH, imageW, imageH).Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	return inv.Apply(p), true
}
