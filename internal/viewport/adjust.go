package viewport

import (
	"radview/internal/raster"
	"radview/pkg/colorutil"
)

// Radiometric defaults when the raster declares no display window.
const (
	DefaultWindowCenter = 128
	DefaultWindowWidth  = 256
)

// AdjustState is the radiometric state of one viewport.
type AdjustState struct {
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	WindowCenter float64 `json:"window_center"`
	WindowWidth  float64 `json:"window_width"`
	Invert       bool    `json:"invert"`
}

// Adjuster remaps decoded pixel intensities to display intensities. The
// remap passes compose in a fixed order (contrast, then brightness, then
// windowing, then inversion) so a given state tuple always produces the same
// pixels.
type Adjuster struct {
	state AdjustState

	// Defaults restored by ResetAdjustments; they come from the raster's
	// declared window when present.
	defaultCenter float64
	defaultWidth  float64

	// windowed is set when the source declares a window or the user adjusts
	// the window level. Non-windowed sources skip the window pass entirely.
	windowed bool
}

// NewAdjuster creates an adjuster with defaults taken from the raster
// metadata, or {128, 256} when the raster declares no window.
func NewAdjuster(meta raster.Metadata) *Adjuster {
	a := &Adjuster{
		defaultCenter: DefaultWindowCenter,
		defaultWidth:  DefaultWindowWidth,
	}
	if meta.HasWindow {
		a.defaultCenter = clampRange(meta.WindowCenter, 0, 255)
		a.defaultWidth = clampRange(meta.WindowWidth, 1, 512)
		a.windowed = true
	}
	a.state = AdjustState{
		WindowCenter: a.defaultCenter,
		WindowWidth:  a.defaultWidth,
	}
	return a
}

// State returns a copy of the current state.
func (a *Adjuster) State() AdjustState {
	return a.state
}

// Windowed reports whether the window pass applies to this viewport.
func (a *Adjuster) Windowed() bool {
	return a.windowed
}

// SetBrightness stores brightness clamped to [-100, 100].
func (a *Adjuster) SetBrightness(v float64) {
	a.state.Brightness = clampRange(v, -100, 100)
}

// SetContrast stores contrast clamped to [-100, 100].
func (a *Adjuster) SetContrast(v float64) {
	a.state.Contrast = clampRange(v, -100, 100)
}

// SetWindowLevel stores the window center (clamped to [0, 255]) and width
// (clamped to [1, 512]) and marks the viewport as windowed.
func (a *Adjuster) SetWindowLevel(center, width float64) {
	a.state.WindowCenter = clampRange(center, 0, 255)
	a.state.WindowWidth = clampRange(width, 1, 512)
	a.windowed = true
}

// SetInvert toggles grayscale inversion.
func (a *Adjuster) SetInvert(invert bool) {
	a.state.Invert = invert
}

// ResetAdjustments restores brightness and contrast to zero and the window
// to the raster's declared defaults. The view transform is untouched.
func (a *Adjuster) ResetAdjustments() {
	a.state = AdjustState{
		WindowCenter: a.defaultCenter,
		WindowWidth:  a.defaultWidth,
	}
}

// IsIdentity reports whether the remap pass can be skipped entirely for this
// viewport: no brightness, no contrast, no inversion, and a non-windowed
// source.
func (a *Adjuster) IsIdentity() bool {
	return a.state.Brightness == 0 && a.state.Contrast == 0 &&
		!a.state.Invert && !a.windowed
}

// LUT builds the 256-entry per-channel lookup table for the current state.
// Each channel is remapped independently through the same table.
func (a *Adjuster) LUT() [256]uint8 {
	var lut [256]uint8
	factor := colorutil.ContrastFactor(a.state.Contrast)
	for i := 0; i < 256; i++ {
		v := float64(i)

		// Contrast pivots around mid-gray.
		v = factor*(v-128) + 128
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}

		v = v + a.state.Brightness
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}

		if a.windowed {
			v = colorutil.WindowRemap(v, a.state.WindowCenter, a.state.WindowWidth)
		}

		if a.state.Invert {
			v = 255 - v
		}

		lut[i] = colorutil.Clamp8(v)
	}
	return lut
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
