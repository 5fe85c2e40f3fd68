// Package marker reads burned-in acquisition markers ("AP", "PA", "LAT",
// laterality letters) from the corners of a raster using Tesseract. The
// markers hint the exam category when the upstream system supplied none.
package marker

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// MarkerChars restricts recognition to the characters burned-in view
// markers use. Lowercase is excluded to avoid 0/O and 1/I style confusion.
const MarkerChars = "APLRT"

// Corner fraction of the raster inspected for markers. Markers are burned
// into the top corners by the acquisition console.
const (
	cornerWidthFrac  = 0.25
	cornerHeightFrac = 0.18
)

// Reader performs marker OCR. It owns a Tesseract client and must be
// closed.
type Reader struct {
	client *gosseract.Client
}

// NewReader creates a marker reader.
func NewReader() (*Reader, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Markers are not dictionary words; dictionary correction only hurts.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Reader{client: client}, nil
}

// Close releases OCR resources.
func (r *Reader) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ReadCorners runs OCR over the top corners of the raster and returns the
// concatenated cleaned text, uppercased.
func (r *Reader) ReadCorners(img *image.RGBA) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil raster")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cw := int(float64(w) * cornerWidthFrac)
	ch := int(float64(h) * cornerHeightFrac)
	if cw < 8 || ch < 8 {
		return "", fmt.Errorf("raster too small for marker regions")
	}

	var parts []string
	regions := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Min.X+cw, b.Min.Y+ch),
		image.Rect(b.Max.X-cw, b.Min.Y, b.Max.X, b.Min.Y+ch),
	}
	for _, region := range regions {
		text, err := r.readRegion(img, region)
		if err != nil {
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}

func (r *Reader) readRegion(img *image.RGBA, region image.Rectangle) (string, error) {
	sub, ok := img.SubImage(region).(*image.RGBA)
	if !ok {
		return "", fmt.Errorf("empty marker region")
	}

	mat, err := gocv.ImageToMatRGBA(sub)
	if err != nil {
		return "", fmt.Errorf("failed to convert region: %w", err)
	}
	defer mat.Close()

	processed := preprocess(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	if err := r.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := r.client.SetWhitelist(MarkerChars); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	text = strings.ToUpper(strings.Join(strings.Fields(text), " "))
	return text, nil
}

// preprocess upscales small regions and binarises for clean glyph edges.
func preprocess(region gocv.Mat) gocv.Mat {
	h, w := region.Rows(), region.Cols()

	var scaled gocv.Mat
	minDim := h
	if w < minDim {
		minDim = w
	}
	if minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorRGBAToGray)
	scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	// Tesseract expects dark text on a light background. Marker corners are
	// usually white glyphs on black air, so flip when white is the minority.
	whiteCount := gocv.CountNonZero(binary)
	if float64(whiteCount) < 0.5*float64(binary.Rows()*binary.Cols()) {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()

	return result
}
