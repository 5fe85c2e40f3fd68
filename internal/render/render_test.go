package render

import (
	"image"
	"image/color"
	"testing"

	"radview/internal/raster"
	"radview/internal/viewport"
)

// solidRaster builds a raster with a uniform fill.
func solidRaster(w, h int, c color.RGBA) *raster.Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return raster.FromImage("test", img, raster.Metadata{})
}

func neutralAdjuster() *viewport.Adjuster {
	return viewport.NewAdjuster(raster.Metadata{})
}

func TestFrameCentersImage(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{200, 200, 200, 255})
	tr := viewport.NewTransform()

	out := Frame(ras, tr, neutralAdjuster(), 100, 100, Nearest)

	// The image occupies the 10x10 block around the surface center.
	if got := out.RGBAAt(50, 50); got.R != 200 {
		t.Errorf("center pixel = %+v, want the raster fill", got)
	}
	if got := out.RGBAAt(5, 5); got.R != 0 || got.A != 255 {
		t.Errorf("corner pixel = %+v, want opaque black background", got)
	}
	if got := out.RGBAAt(50, 42); got.R != 0 {
		t.Errorf("pixel above the image block = %+v, want background", got)
	}
	if got := out.RGBAAt(50, 46); got.R != 200 {
		t.Errorf("pixel inside the image block = %+v, want fill", got)
	}
}

func TestFrameScaleGrowsImage(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{200, 200, 200, 255})
	tr := viewport.NewTransform()
	tr.SetScale(4)

	out := Frame(ras, tr, neutralAdjuster(), 100, 100, Nearest)

	// At 4x, the block spans 40 pixels around the center.
	if got := out.RGBAAt(50, 32); got.R != 200 {
		t.Errorf("pixel inside scaled block = %+v, want fill", got)
	}
	if got := out.RGBAAt(50, 28); got.R != 0 {
		t.Errorf("pixel outside scaled block = %+v, want background", got)
	}
}

func TestFramePanShiftsImage(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{200, 200, 200, 255})
	tr := viewport.NewTransform()
	tr.SetPan(30, 0)

	out := Frame(ras, tr, neutralAdjuster(), 100, 100, Nearest)

	if got := out.RGBAAt(80, 50); got.R != 200 {
		t.Errorf("pixel at panned center = %+v, want fill", got)
	}
	if got := out.RGBAAt(50, 50); got.R != 0 {
		t.Errorf("pixel at old center = %+v, want background", got)
	}
}

func TestFrameRotationKeepsCenterPixel(t *testing.T) {
	// A half-red half-blue raster rotated 180° swaps the halves.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				img.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
			}
		}
	}
	ras := raster.FromImage("half", img, raster.Metadata{})

	tr := viewport.NewTransform()
	tr.SetRotation(180)
	out := Frame(ras, tr, neutralAdjuster(), 40, 40, Nearest)

	left := out.RGBAAt(17, 20)
	right := out.RGBAAt(23, 20)
	if left.B != 255 || left.R != 0 {
		t.Errorf("left of center after 180° = %+v, want blue", left)
	}
	if right.R != 255 || right.B != 0 {
		t.Errorf("right of center after 180° = %+v, want red", right)
	}
}

func TestFrameAppliesRemap(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{100, 100, 100, 255})
	tr := viewport.NewTransform()

	adj := neutralAdjuster()
	adj.SetBrightness(50)
	out := Frame(ras, tr, adj, 50, 50, Nearest)

	if got := out.RGBAAt(25, 25); got.R != 150 {
		t.Errorf("brightened pixel = %+v, want R=150", got)
	}
	// Background is remapped too: it is part of the drawn buffer.
	if got := out.RGBAAt(1, 1); got.R != 50 {
		t.Errorf("brightened background = %+v, want R=50", got)
	}
	if got := out.RGBAAt(1, 1); got.A != 255 {
		t.Errorf("alpha touched by remap: %+v", got)
	}
}

func TestFrameIdentityAdjusterSkipsRemap(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{100, 100, 100, 255})
	tr := viewport.NewTransform()

	out := Frame(ras, tr, neutralAdjuster(), 50, 50, Nearest)
	if got := out.RGBAAt(25, 25); got.R != 100 {
		t.Errorf("identity adjuster changed pixels: %+v", got)
	}
}

func TestFrameWindowedSource(t *testing.T) {
	ras := solidRaster(10, 10, color.RGBA{100, 100, 100, 255})
	ras.Meta = raster.Metadata{WindowCenter: 100, WindowWidth: 10, HasWindow: true}
	tr := viewport.NewTransform()
	adj := viewport.NewAdjuster(ras.Meta)

	out := Frame(ras, tr, adj, 50, 50, Nearest)

	// Intensity 100 sits exactly at the window center: mid output.
	got := out.RGBAAt(25, 25)
	if got.R < 126 || got.R > 129 {
		t.Errorf("windowed center intensity = %d, want ~127", got.R)
	}
	// The black background is far below the window floor.
	if got := out.RGBAAt(1, 1); got.R != 0 {
		t.Errorf("windowed background = %d, want 0", got.R)
	}
}

func TestFrameNilRaster(t *testing.T) {
	tr := viewport.NewTransform()
	out := Frame(nil, tr, neutralAdjuster(), 20, 20, Nearest)
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Fatalf("bounds = %v, want 20x20", out.Bounds())
	}
	if got := out.RGBAAt(10, 10); got.A != 255 || got.R != 0 {
		t.Errorf("nil raster frame pixel = %+v, want opaque black", got)
	}
}

func TestFrameDeterministic(t *testing.T) {
	ras := solidRaster(16, 16, color.RGBA{90, 90, 90, 255})
	tr := viewport.NewTransform()
	tr.SetScale(1.5)
	tr.SetRotation(17)
	adj := neutralAdjuster()
	adj.SetContrast(25)
	adj.SetBrightness(-10)

	a := Frame(ras, tr, adj, 64, 64, Bilinear)
	b := Frame(ras, tr, adj, 64, 64, Bilinear)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs across identical renders: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder(30, 20)
	if got := out.RGBAAt(15, 10); got.R != 40 {
		t.Errorf("placeholder fill = %+v, want gray 40", got)
	}
	if got := out.RGBAAt(0, 0); got.R != 90 {
		t.Errorf("placeholder border = %+v, want gray 90", got)
	}
}
