// Package viewer provides the viewport widget and the main window.
package viewer

import (
	"image"

	"radview/internal/measure"
	"radview/internal/overlay"
	"radview/internal/render"
	"radview/internal/viewport"
	"radview/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const zoomStep = 1.25

// DragMode selects what a drag gesture adjusts.
type DragMode int

const (
	DragPan DragMode = iota
	DragWindowLevel
)

// Window/level drag gain: pixels of drag per unit of center/width.
const windowDragGain = 0.5

// ViewportCanvas displays one viewport instance and routes pointer input to
// it. All image state lives in the instance; the widget only draws.
type ViewportCanvas struct {
	widget.BaseWidget

	vp     *viewport.Instance
	raster *fynecanvas.Raster
	interp render.Interpolation

	dragMode DragMode

	onActivity func()                       // any pointer interaction
	onMeasured func(m *measure.Measurement) // measurement finalized
}

// NewViewportCanvas creates a widget over a viewport instance.
func NewViewportCanvas(vp *viewport.Instance) *ViewportCanvas {
	vc := &ViewportCanvas{
		vp:     vp,
		interp: render.Nearest,
	}
	vc.raster = fynecanvas.NewRaster(vc.draw)
	vc.raster.ScaleMode = fynecanvas.ImageScalePixels

	// Peer-sourced sync writes land here too; redraw on every change.
	vp.OnChange(func(string, viewport.State) {
		vc.raster.Refresh()
	})

	vc.ExtendBaseWidget(vc)
	return vc
}

// Instance returns the backing viewport.
func (vc *ViewportCanvas) Instance() *viewport.Instance { return vc.vp }

// SetInterpolation switches the sampling filter.
func (vc *ViewportCanvas) SetInterpolation(interp render.Interpolation) {
	vc.interp = interp
	vc.raster.Refresh()
}

// SetDragMode selects whether drags pan or adjust window/level.
func (vc *ViewportCanvas) SetDragMode(mode DragMode) {
	vc.dragMode = mode
}

// OnActivity sets a callback fired on any pointer interaction, before the
// interaction is applied. The window uses it to move sync focus.
func (vc *ViewportCanvas) OnActivity(callback func()) {
	vc.onActivity = callback
}

// OnMeasured sets a callback fired when a click completes a measurement.
func (vc *ViewportCanvas) OnMeasured(callback func(m *measure.Measurement)) {
	vc.onMeasured = callback
}

// Refresh redraws the frame.
func (vc *ViewportCanvas) Refresh() {
	vc.raster.Refresh()
	vc.BaseWidget.Refresh()
}

// Scrolled zooms on wheel input.
func (vc *ViewportCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if vc.onActivity != nil {
		vc.onActivity()
	}
	scale := vc.vp.GetState().Scale
	if ev.Scrolled.DY > 0 {
		vc.vp.SetScale(scale * zoomStep)
	} else if ev.Scrolled.DY < 0 {
		vc.vp.SetScale(scale / zoomStep)
	}
	vc.raster.Refresh()
}

// Dragged pans the view or adjusts window/level depending on the drag mode.
func (vc *ViewportCanvas) Dragged(ev *fyne.DragEvent) {
	if vc.onActivity != nil {
		vc.onActivity()
	}
	st := vc.vp.GetState()
	switch vc.dragMode {
	case DragWindowLevel:
		center := st.WindowCenter - float64(ev.Dragged.DY)*windowDragGain
		width := st.WindowWidth + float64(ev.Dragged.DX)*windowDragGain
		vc.vp.SetWindowLevel(center, width)
	default:
		vc.vp.SetPan(st.OffsetX+float64(ev.Dragged.DX), st.OffsetY+float64(ev.Dragged.DY))
	}
	vc.raster.Refresh()
}

// DragEnd implements fyne.Draggable.
func (vc *ViewportCanvas) DragEnd() {}

// Tapped places a measurement point when a tool is active.
func (vc *ViewportCanvas) Tapped(ev *fyne.PointEvent) {
	if vc.onActivity != nil {
		vc.onActivity()
	}
	if vc.vp.Session().ActiveTool() == nil {
		return
	}

	ras, err := vc.vp.Raster()
	if err != nil || ras == nil {
		return
	}
	size := vc.Size()
	p, ok := vc.vp.Transform().ScreenToImage(
		geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)},
		float64(size.Width), float64(size.Height),
		float64(ras.Width()), float64(ras.Height()),
	)
	if !ok {
		return
	}
	bounds := geometry.NewRect(0, 0, float64(ras.Width()), float64(ras.Height()))
	if !bounds.Contains(p) {
		return
	}

	if m := vc.vp.HandlePoint(p); m != nil && vc.onMeasured != nil {
		vc.onMeasured(m)
	}
	vc.raster.Refresh()
}

// TappedSecondary discards the in-progress measurement, or deletes the
// finalized measurement under the cursor when nothing is in progress.
func (vc *ViewportCanvas) TappedSecondary(ev *fyne.PointEvent) {
	session := vc.vp.Session()
	if session.Phase() == measure.PhaseCollecting && len(session.Points()) > 0 {
		session.ClearCurrentMeasurement()
		vc.raster.Refresh()
		return
	}

	ras, err := vc.vp.Raster()
	if err != nil || ras == nil {
		return
	}
	size := vc.Size()
	p, ok := vc.vp.Transform().ScreenToImage(
		geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)},
		float64(size.Width), float64(size.Height),
		float64(ras.Width()), float64(ras.Height()),
	)
	if !ok {
		return
	}

	// Hit tolerance shrinks in image space as zoom grows.
	tolerance := 8.0 / vc.vp.GetState().Scale
	if id := vc.vp.MeasurementAt(p, tolerance); id != "" {
		vc.vp.RemoveMeasurement(id)
		if vc.onMeasured != nil {
			vc.onMeasured(nil)
		}
	}
	vc.raster.Refresh()
}

// draw renders the frame with measurement overlays for the current size.
func (vc *ViewportCanvas) draw(w, h int) image.Image {
	ras, err := vc.vp.Raster()
	if err != nil || ras == nil {
		return render.Placeholder(w, h)
	}

	frame := render.Frame(ras, vc.vp.Transform(), vc.vp.Adjuster(), w, h, vc.interp)

	session := vc.vp.Session()
	d := overlay.Build(vc.vp.Measurements(), session.Points(), session.ActiveTool())
	screen := vc.vp.Transform().ScreenTransform(
		float64(w), float64(h), float64(ras.Width()), float64(ras.Height()))
	overlay.Rasterize(frame, d.Transformed(screen))

	return frame
}

// CreateRenderer implements fyne.Widget.
func (vc *ViewportCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(vc.raster)
}
