// Package colorutil provides shared color utilities for the viewer application.
package colorutil

import (
	"image/color"
)

// Common annotation colors used throughout the application.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Clamp8 clamps a float to the displayable [0, 255] range.
func Clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ContrastFactor converts a contrast setting in [-100, 100] to the per-pixel
// multiplier of the standard contrast remap curve.
func ContrastFactor(contrast float64) float64 {
	return (259 * (contrast + 255)) / (255 * (259 - contrast))
}

// WindowRemap maps an intensity through a center/width display window:
// intensities at or below the lower bound go to 0, at or above the upper
// bound to 255, and the interior is linearly stretched across the window.
func WindowRemap(v, center, width float64) float64 {
	lo := center - width/2
	hi := center + width/2
	if v <= lo {
		return 0
	}
	if v >= hi {
		return 255
	}
	return (v - lo) / width * 255
}
