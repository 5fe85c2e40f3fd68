package viewport

import (
	"fmt"
	"strconv"
	"strings"

	"radview/internal/measure"
	"radview/internal/raster"
	"radview/pkg/geometry"
)

// State is the flattened snapshot carried by every state-change
// notification.
type State struct {
	Scale        float64 `json:"scale"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`
	RotationDeg  float64 `json:"rotation_deg"`
	WindowCenter float64 `json:"window_center"`
	WindowWidth  float64 `json:"window_width"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
}

// ChangeListener receives the id of the instance that mutated plus its new
// state. All mutation and notification is synchronous on the UI goroutine.
type ChangeListener func(sourceID string, s State)

// Instance binds one raster, one view transform, one radiometric adjuster
// and one measurement session to an on-screen surface.
type Instance struct {
	id string

	ras    *raster.Raster
	rasErr error

	transform *Transform
	adjust    *Adjuster
	session   *measure.Session

	measurements []measure.Measurement
	nextMeasure  int

	listeners []ChangeListener
}

// NewInstance creates an instance for a raster. A nil raster with a non-nil
// err models the RasterUnavailable state: the viewport stays interactive for
// everything not needing pixel data and renders a placeholder.
func NewInstance(id string, ras *raster.Raster, err error) *Instance {
	var meta raster.Metadata
	if ras != nil {
		meta = ras.Meta
	}
	return &Instance{
		id:        id,
		ras:       ras,
		rasErr:    err,
		transform: NewTransform(),
		adjust:    NewAdjuster(meta),
		session:   measure.NewSession(),
	}
}

// ID returns the instance id.
func (in *Instance) ID() string { return in.id }

// Raster returns the bound raster, or nil with the load error when the
// source failed to supply pixel data.
func (in *Instance) Raster() (*raster.Raster, error) {
	return in.ras, in.rasErr
}

// Transform exposes the view transform for read-side helpers (coordinate
// mapping). Mutation goes through the Instance setters so listeners fire.
func (in *Instance) Transform() *Transform { return in.transform }

// Adjuster exposes the radiometric adjuster for read-side helpers.
func (in *Instance) Adjuster() *Adjuster { return in.adjust }

// Session returns the instance's measurement session.
func (in *Instance) Session() *measure.Session { return in.session }

// OnChange registers a state-change listener.
func (in *Instance) OnChange(l ChangeListener) {
	in.listeners = append(in.listeners, l)
}

// GetState returns the flattened transform+radiometry snapshot.
func (in *Instance) GetState() State {
	t := in.transform.State()
	a := in.adjust.State()
	return State{
		Scale:        t.Scale,
		OffsetX:      t.OffsetX,
		OffsetY:      t.OffsetY,
		RotationDeg:  t.RotationDeg,
		WindowCenter: a.WindowCenter,
		WindowWidth:  a.WindowWidth,
		Brightness:   a.Brightness,
		Contrast:     a.Contrast,
	}
}

func (in *Instance) notify() {
	s := in.GetState()
	for _, l := range in.listeners {
		l(in.id, s)
	}
}

// SetScale sets the zoom factor (clamped) and notifies listeners.
func (in *Instance) SetScale(v float64) {
	in.transform.SetScale(v)
	in.notify()
}

// SetPan sets the pan offsets and notifies listeners.
func (in *Instance) SetPan(dx, dy float64) {
	in.transform.SetPan(dx, dy)
	in.notify()
}

// SetRotation sets the rotation in degrees and notifies listeners.
func (in *Instance) SetRotation(deg float64) {
	in.transform.SetRotation(deg)
	in.notify()
}

// SetWindowLevel sets the display window and notifies listeners.
func (in *Instance) SetWindowLevel(center, width float64) {
	in.adjust.SetWindowLevel(center, width)
	in.notify()
}

// SetBrightness sets brightness and notifies listeners.
func (in *Instance) SetBrightness(v float64) {
	in.adjust.SetBrightness(v)
	in.notify()
}

// SetContrast sets contrast and notifies listeners.
func (in *Instance) SetContrast(v float64) {
	in.adjust.SetContrast(v)
	in.notify()
}

// SetInvert toggles inversion and notifies listeners.
func (in *Instance) SetInvert(invert bool) {
	in.adjust.SetInvert(invert)
	in.notify()
}

// ResetView restores the identity view transform. Collected session points
// are kept; clearing them is the session's own explicit operation.
func (in *Instance) ResetView() {
	in.transform.ResetView()
	in.notify()
}

// ResetAdjustments restores the radiometric defaults.
func (in *Instance) ResetAdjustments() {
	in.adjust.ResetAdjustments()
	in.notify()
}

// ApplyAlignment decomposes a registration transform into scale, rotation
// and pan and applies them through the ordinary setters, so listeners and
// the sync coordinator observe a normal state change.
func (in *Instance) ApplyAlignment(t geometry.AffineTransform) {
	scale, rotation, tx, ty := t.Decompose()
	in.transform.SetScale(scale)
	in.transform.SetRotation(rotation)
	in.transform.SetPan(tx, ty)
	in.notify()
}

// HandlePoint feeds a clicked point, already mapped to image space, to the
// session. When the click completes a measurement it is stored and returned.
func (in *Instance) HandlePoint(p geometry.Point2D) *measure.Measurement {
	m := in.session.AddPoint(p)
	if m == nil {
		return nil
	}
	in.nextMeasure++
	m.ID = fmt.Sprintf("%s-m%d", in.id, in.nextMeasure)
	in.measurements = append(in.measurements, *m)
	return m
}

// AddMeasurement creates a measurement directly from a tool id and a full
// point set, bypassing the session. The point count must match the tool's
// arity; partial point sets never enter the measurement list.
func (in *Instance) AddMeasurement(toolID string, points []geometry.Point2D) (*measure.Measurement, error) {
	tool, ok := measure.FindTool(toolID)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", toolID)
	}
	if len(points) != tool.PointsNeeded {
		return nil, fmt.Errorf("tool %q needs %d points, got %d", toolID, tool.PointsNeeded, len(points))
	}

	stored := make([]geometry.Point2D, len(points))
	copy(stored, points)
	_, value := measure.Compute(tool.Kind, stored)

	in.nextMeasure++
	m := measure.Measurement{
		ID:          fmt.Sprintf("%s-m%d", in.id, in.nextMeasure),
		ToolID:      tool.ID,
		Points:      stored,
		Value:       value,
		Description: tool.DisplayName + " " + value,
	}
	in.measurements = append(in.measurements, m)
	return &m, nil
}

// RemoveMeasurement deletes a measurement by id.
func (in *Instance) RemoveMeasurement(id string) bool {
	for i, m := range in.measurements {
		if m.ID == id {
			in.measurements = append(in.measurements[:i], in.measurements[i+1:]...)
			return true
		}
	}
	return false
}

// MeasurementAt returns the id of the measurement nearest to an image-space
// point within tolerance, or "". Distance is taken to the measurement's
// points and the polyline between them.
func (in *Instance) MeasurementAt(p geometry.Point2D, tolerance float64) string {
	bestID := ""
	best := tolerance
	for _, m := range in.measurements {
		if d := geometry.PolylineDistance(p, m.Points); d <= best {
			best = d
			bestID = m.ID
		}
	}
	return bestID
}

// Measurements returns a copy of the finalized measurement list.
func (in *Instance) Measurements() []measure.Measurement {
	out := make([]measure.Measurement, len(in.measurements))
	copy(out, in.measurements)
	return out
}

// ReplaceMeasurements swaps in a loaded measurement list wholesale. Save and
// load are an atomic replace; there is no merging. Entries whose point count
// does not match their tool's arity are dropped rather than let a malformed
// document reach the overlay, and the id counter resumes past the highest
// loaded id so reloads never mint a duplicate.
func (in *Instance) ReplaceMeasurements(ms []measure.Measurement) {
	in.measurements = in.measurements[:0]
	in.nextMeasure = 0
	for _, m := range ms {
		if tool, ok := measure.FindTool(m.ToolID); ok && len(m.Points) != tool.PointsNeeded {
			continue
		}
		in.measurements = append(in.measurements, m)
		if n, ok := idSequence(m.ID); ok && n > in.nextMeasure {
			in.nextMeasure = n
		}
	}
}

// idSequence extracts the numeric suffix of an instance-minted measurement
// id, e.g. "vp1-m7" yields 7.
func idSequence(id string) (int, bool) {
	i := strings.LastIndex(id, "-m")
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+2:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
