// Command viewtest renders a viewport headlessly and prints measurement
// results. Useful for checking transform, windowing, and tool behavior
// without a display.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"radview/internal/align"
	"radview/internal/examtype"
	"radview/internal/measure"
	"radview/internal/overlay"
	"radview/internal/raster"
	"radview/internal/render"
	"radview/internal/viewport"
	"radview/pkg/geometry"
)

func main() {
	imagesRoot := flag.String("images", ".", "Directory image ids are resolved against")
	id := flag.String("i", "", "Image id to open")
	out := flag.String("o", "", "Write the rendered frame to this PNG path")
	width := flag.Int("w", 800, "Surface width")
	height := flag.Int("h", 600, "Surface height")
	zoom := flag.Float64("zoom", 1.0, "Zoom factor")
	rotate := flag.Float64("rotate", 0, "Rotation in degrees")
	panX := flag.Float64("pan-x", 0, "Pan offset X")
	panY := flag.Float64("pan-y", 0, "Pan offset Y")
	center := flag.Float64("wc", -1, "Window center (0-255)")
	windowW := flag.Float64("ww", -1, "Window width (1-512)")
	invert := flag.Bool("invert", false, "Invert output values")
	bilinear := flag.Bool("bilinear", false, "Use bilinear sampling")
	toolID := flag.String("tool", "", "Measurement tool id")
	pointsArg := flag.String("points", "", "Measurement points as x,y;x,y;...")
	landmarks := flag.String("landmarks", "",
		"Landmark pairs srcX,srcY>dstX,dstY;... to register and apply as the view pose")
	flag.Parse()

	if *id == "" {
		fmt.Println("Usage: viewtest -i <image id> [-images <dir>] [-o out.png] ...")
		os.Exit(1)
	}

	source := raster.NewFileSource(*imagesRoot)
	ras, err := source.Raster(*id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *id, err)
		os.Exit(1)
	}

	category := examtype.Metadata().Classify(ras)
	fmt.Printf("Image: %s (%dx%d), exam category: %s\n",
		*id, ras.Width(), ras.Height(), category)
	fmt.Printf("Tools: %s\n", toolList(measure.ToolsFor(category)))

	vp := viewport.NewInstance(*id, ras, nil)
	vp.SetScale(*zoom)
	vp.SetRotation(*rotate)
	vp.SetPan(*panX, *panY)
	if *center >= 0 && *windowW > 0 {
		vp.SetWindowLevel(*center, *windowW)
	}
	vp.SetInvert(*invert)

	if *landmarks != "" {
		src, dst, err := parseLandmarks(*landmarks)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -landmarks: %v\n", err)
			os.Exit(1)
		}
		result, err := align.Register(src, dst)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registration: %d inliers, mean error %.2f px\n",
			len(result.Inliers), result.MeanError)
		vp.ApplyAlignment(result.Transform)
	}

	if *toolID != "" {
		points, err := parsePoints(*pointsArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad -points: %v\n", err)
			os.Exit(1)
		}
		m, err := vp.AddMeasurement(*toolID, points)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Measurement failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Measurement %s: %s = %s\n", m.ID, m.ToolID, m.Value)
	}

	st := vp.GetState()
	fmt.Printf("State: zoom %.2fx rot %.0f° pan (%.0f, %.0f) W/L %.0f/%.0f\n",
		st.Scale, vp.Transform().NormalizedRotation(),
		st.OffsetX, st.OffsetY, st.WindowWidth, st.WindowCenter)

	if *out == "" {
		return
	}

	interp := render.Nearest
	if *bilinear {
		interp = render.Bilinear
	}
	frame := render.Frame(ras, vp.Transform(), vp.Adjuster(), *width, *height, interp)

	d := overlay.Build(vp.Measurements(), nil, nil)
	screen := vp.Transform().ScreenTransform(
		float64(*width), float64(*height), float64(ras.Width()), float64(ras.Height()))
	overlay.Rasterize(frame, d.Transformed(screen))

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()
	if err := png.Encode(f, frame); err != nil {
		fmt.Fprintf(os.Stderr, "PNG encode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *out, *width, *height)
}

func toolList(tools []measure.ToolDefinition) string {
	ids := make([]string, len(tools))
	for i, t := range tools {
		ids[i] = t.ID
	}
	return strings.Join(ids, ", ")
}

// parseLandmarks parses "sx,sy>dx,dy;..." into source/destination pairs.
func parseLandmarks(s string) (src, dst []geometry.Point2D, err error) {
	for _, part := range strings.Split(s, ";") {
		ends := strings.Split(strings.TrimSpace(part), ">")
		if len(ends) != 2 {
			return nil, nil, fmt.Errorf("%q is not src>dst", part)
		}
		sp, err := parsePoints(ends[0])
		if err != nil || len(sp) != 1 {
			return nil, nil, fmt.Errorf("bad source point in %q", part)
		}
		dp, err := parsePoints(ends[1])
		if err != nil || len(dp) != 1 {
			return nil, nil, fmt.Errorf("bad destination point in %q", part)
		}
		src = append(src, sp[0])
		dst = append(dst, dp[0])
	}
	return src, dst, nil
}

// parsePoints parses "x,y;x,y;..." into image-space points.
func parsePoints(s string) ([]geometry.Point2D, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no points given")
	}
	var points []geometry.Point2D
	for _, part := range strings.Split(s, ";") {
		coords := strings.Split(strings.TrimSpace(part), ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("%q is not x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, err
		}
		points = append(points, geometry.Point2D{X: x, Y: y})
	}
	return points, nil
}
