// Package raster provides decoded pixel buffers and display metadata for
// images identified by opaque ids. Decoding and transport live behind the
// Source interface; the viewport core only ever sees resident pixel data.
package raster

import (
	"errors"
	"image"
)

// ErrUnavailable is returned when a source cannot supply pixel data for an
// id. Viewports treat it as a non-fatal per-viewport error state.
var ErrUnavailable = errors.New("raster unavailable")

// Metadata is the optional display metadata attached to a raster.
type Metadata struct {
	// WindowCenter and WindowWidth are the acquisition's declared display
	// window. HasWindow reports whether they were present at all; a raster
	// without a declared window is displayed with the {128, 256} defaults.
	WindowCenter float64 `json:"window_center"`
	WindowWidth  float64 `json:"window_width"`
	HasWindow    bool    `json:"has_window"`

	Rows    int `json:"rows"`
	Columns int `json:"columns"`

	// ViewLabel is the acquisition view ("frontal", "lateral") when the
	// upstream system recorded one. Empty means unclassified.
	ViewLabel string `json:"view_label,omitempty"`
}

// Raster is a decoded, already-oriented pixel buffer plus its metadata.
type Raster struct {
	ID     string
	Pixels *image.RGBA
	Meta   Metadata
}

// Width returns the pixel width.
func (r *Raster) Width() int {
	if r == nil || r.Pixels == nil {
		return 0
	}
	return r.Pixels.Bounds().Dx()
}

// Height returns the pixel height.
func (r *Raster) Height() int {
	if r == nil || r.Pixels == nil {
		return 0
	}
	return r.Pixels.Bounds().Dy()
}

// Source supplies rasters by opaque id.
type Source interface {
	Raster(id string) (*Raster, error)
}

// FromImage wraps an already-decoded image in a Raster, converting to RGBA
// when necessary.
func FromImage(id string, img image.Image, meta Metadata) *Raster {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
			}
		}
	}
	meta.Rows = rgba.Bounds().Dy()
	meta.Columns = rgba.Bounds().Dx()
	return &Raster{ID: id, Pixels: rgba, Meta: meta}
}
