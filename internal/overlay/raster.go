package overlay

import (
	"image"
	"image/color"
	"math"

	"radview/pkg/colorutil"
	"radview/pkg/geometry"
)

// Overlay colors. Finalized measurements draw yellow, the in-progress set
// draws green so the clinician can tell a live collection from stored data.
var (
	finalColor  = colorutil.Yellow
	activeColor = colorutil.Green
	labelColor  = colorutil.White
)

// Dash pattern for guide lines, in pixels of pen travel.
const (
	dashOn  = 6.0
	dashOff = 4.0
)

const markerRadius = 3

// Rasterize draws the instruction list onto dst in place. Coordinates in the
// drawing are screen-space pixels of dst.
func Rasterize(dst *image.RGBA, d Drawing) {
	for _, s := range d.Segments {
		col := finalColor
		if s.Active {
			col = activeColor
		}
		if s.Dashed {
			drawDashedLine(dst, s.From, s.To, col)
		} else {
			drawLine(dst, s.From, s.To, col)
		}
	}

	for _, m := range d.Markers {
		col := finalColor
		if m.Active {
			col = activeColor
		}
		drawMarker(dst, m.Center, col)
		if m.Index > 0 {
			drawText(dst, digitString(m.Index), int(m.Center.X)+markerRadius+2, int(m.Center.Y)-markerRadius-6, col, 1)
		}
	}

	for _, l := range d.Labels {
		drawText(dst, l.Text, int(l.At.X), int(l.At.Y)-3, labelColor, 2)
	}
}

// drawMarker draws a small filled disc with a contrasting core pixel.
func drawMarker(dst *image.RGBA, c geometry.Point2D, col color.RGBA) {
	cx, cy := int(c.X), int(c.Y)
	for dy := -markerRadius; dy <= markerRadius; dy++ {
		for dx := -markerRadius; dx <= markerRadius; dx++ {
			if dx*dx+dy*dy <= markerRadius*markerRadius {
				setPixel(dst, cx+dx, cy+dy, col)
			}
		}
	}
	setPixel(dst, cx, cy, colorutil.Black)
}

// drawLine walks the segment in unit steps of pen travel.
func drawLine(dst *image.RGBA, from, to geometry.Point2D, col color.RGBA) {
	walkLine(dst, from, to, col, func(traveled float64) bool { return true })
}

// drawDashedLine walks the segment, lifting the pen on the dash gaps.
func drawDashedLine(dst *image.RGBA, from, to geometry.Point2D, col color.RGBA) {
	period := dashOn + dashOff
	walkLine(dst, from, to, col, func(traveled float64) bool {
		return math.Mod(traveled, period) < dashOn
	})
}

func walkLine(dst *image.RGBA, from, to geometry.Point2D, col color.RGBA, penDown func(traveled float64) bool) {
	length := from.Distance(to)
	if length == 0 {
		setPixel(dst, int(from.X), int(from.Y), col)
		return
	}
	steps := int(length) + 1
	dx := (to.X - from.X) / float64(steps)
	dy := (to.Y - from.Y) / float64(steps)
	stepLen := length / float64(steps)

	x, y := from.X, from.Y
	for i := 0; i <= steps; i++ {
		if penDown(float64(i) * stepLen) {
			setPixel(dst, int(x), int(y), col)
			// Thicken to 2px so lines survive compositing over busy frames.
			setPixel(dst, int(x)+1, int(y), col)
			setPixel(dst, int(x), int(y)+1, col)
		}
		x += dx
		y += dy
	}
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	b := dst.Bounds()
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return
	}
	dst.SetRGBA(x, y, col)
}

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// symbolPatterns covers the characters measurement values use beyond digits.
var symbolPatterns = map[rune][5]uint8{
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'°': {0b111, 0b101, 0b111, 0b000, 0b000},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

func charPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := symbolPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// drawText renders a string with the 3x5 bitmap font at the given scale.
func drawText(dst *image.RGBA, text string, x, y int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	cx := x
	for _, ch := range text {
		pattern := charPattern(ch)
		for row := 0; row < 5; row++ {
			for colBit := 0; colBit < 3; colBit++ {
				if pattern[row]&(1<<(2-colBit)) == 0 {
					continue
				}
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						setPixel(dst, cx+colBit*scale+sx, y+row*scale+sy, col)
					}
				}
			}
		}
		cx += 4 * scale
	}
}

func digitString(n int) string {
	if n < 0 {
		n = 0
	}
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
