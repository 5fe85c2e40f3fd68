// Package render composes a raster, a view transform and a radiometric
// adjuster into a drawable frame. Rendering is a pure function of its
// inputs; it never mutates viewport state.
package render

import (
	"image"
	"image/color"

	"radview/internal/raster"
	"radview/internal/viewport"
)

// Interpolation selects the sampling mode of the affine draw step.
type Interpolation int

const (
	// Nearest samples the closest source pixel.
	Nearest Interpolation = iota
	// Bilinear blends the four surrounding source pixels.
	Bilinear
)

// placeholderGray fills frames for viewports whose raster is unavailable.
var placeholderGray = color.RGBA{R: 40, G: 40, B: 40, A: 255}

// Frame renders one viewport frame of the given surface size. The steps are
// fixed: clear, draw the raster under the affine view transform (pivoting
// around the surface center), then re-read the drawn pixels and apply the
// radiometric remap when the adjuster is not identity. Remapping the freshly
// transformed pixels each frame keeps repeated partial updates from
// accumulating rounding error.
func Frame(ras *raster.Raster, tr *viewport.Transform, adj *viewport.Adjuster, w, h int, interp Interpolation) *image.RGBA {
	out := newBlackFrame(w, h)
	if ras == nil || ras.Pixels == nil || w <= 0 || h <= 0 {
		return out
	}

	drawRaster(out, ras.Pixels, tr, interp)

	if adj != nil && !adj.IsIdentity() {
		applyLUT(out, adj.LUT())
	}
	return out
}

// Placeholder renders the frame shown when a raster source fails: a flat
// gray surface with a thin border, so the viewport is visibly alive while
// its controls keep working.
func Placeholder(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(x, y, placeholderGray)
		}
	}
	border := color.RGBA{R: 90, G: 90, B: 90, A: 255}
	for x := 0; x < w; x++ {
		out.SetRGBA(x, 0, border)
		out.SetRGBA(x, h-1, border)
	}
	for y := 0; y < h; y++ {
		out.SetRGBA(0, y, border)
		out.SetRGBA(w-1, y, border)
	}
	return out
}

func newBlackFrame(w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255
	}
	return out
}

// drawRaster inverse-maps every output pixel into source space and samples
// the raster there.
func drawRaster(out *image.RGBA, src *image.RGBA, tr *viewport.Transform, interp Interpolation) {
	b := out.Bounds()
	sb := src.Bounds()
	w, h := b.Dx(), b.Dy()
	srcW, srcH := sb.Dx(), sb.Dy()

	forward := tr.ScreenTransform(float64(w), float64(h), float64(srcW), float64(srcH))
	inv, ok := forward.Inverse()
	if !ok {
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Sample at the pixel center to keep rotation symmetric.
			sx := inv.A*(float64(x)+0.5) + inv.B*(float64(y)+0.5) + inv.TX
			sy := inv.C*(float64(x)+0.5) + inv.D*(float64(y)+0.5) + inv.TY

			var c color.RGBA
			var inside bool
			if interp == Bilinear {
				c, inside = sampleBilinear(src, sx, sy)
			} else {
				c, inside = sampleNearest(src, sx, sy)
			}
			if inside {
				out.SetRGBA(x, y, c)
			}
		}
	}
}

func sampleNearest(src *image.RGBA, sx, sy float64) (color.RGBA, bool) {
	b := src.Bounds()
	ix, iy := int(sx), int(sy)
	if sx < 0 || sy < 0 || ix >= b.Dx() || iy >= b.Dy() {
		return color.RGBA{}, false
	}
	return src.RGBAAt(b.Min.X+ix, b.Min.Y+iy), true
}

func sampleBilinear(src *image.RGBA, sx, sy float64) (color.RGBA, bool) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if sx < 0 || sy < 0 || sx >= float64(w) || sy >= float64(h) {
		return color.RGBA{}, false
	}

	x0, y0 := int(sx), int(sy)
	x1, y1 := x0+1, y0+1
	if x1 >= w {
		x1 = w - 1
	}
	if y1 >= h {
		y1 = h - 1
	}
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	c00 := src.RGBAAt(b.Min.X+x0, b.Min.Y+y0)
	c10 := src.RGBAAt(b.Min.X+x1, b.Min.Y+y0)
	c01 := src.RGBAAt(b.Min.X+x0, b.Min.Y+y1)
	c11 := src.RGBAAt(b.Min.X+x1, b.Min.Y+y1)

	lerp := func(a, b uint8, t float64) float64 {
		return float64(a)*(1-t) + float64(b)*t
	}
	blend := func(a, b, c, d uint8) uint8 {
		top := lerp(a, b, fx)
		bot := lerp(c, d, fx)
		return uint8(top*(1-fy) + bot*fy + 0.5)
	}

	return color.RGBA{
		R: blend(c00.R, c10.R, c01.R, c11.R),
		G: blend(c00.G, c10.G, c01.G, c11.G),
		B: blend(c00.B, c10.B, c01.B, c11.B),
		A: 255,
	}, true
}

// applyLUT remaps the drawn buffer in place through the per-channel lookup
// table. Alpha is untouched.
func applyLUT(out *image.RGBA, lut [256]uint8) {
	pix := out.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = lut[pix[i]]
		pix[i+1] = lut[pix[i+1]]
		pix[i+2] = lut[pix[i+2]]
	}
}
