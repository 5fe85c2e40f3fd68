package raster

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	_ "golang.org/x/image/tiff"
)

// FileSource resolves raster ids to image files under a root directory. The
// id is the file name relative to the root. Window metadata, when present,
// comes from a sidecar "<name>.meta.json" written by the ingest side.
type FileSource struct {
	Root string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Root: dir}
}

// Raster loads and decodes the image for id. Decoding goes through OpenCV
// first (handles 16-bit scans and odd colorspaces); the stdlib decoders are
// the fallback for formats OpenCV was built without.
func (s *FileSource) Raster(id string) (*Raster, error) {
	path := filepath.Join(s.Root, filepath.FromSlash(id))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, id, err)
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, id, err)
	}

	meta := loadSidecarMeta(path)
	return FromImage(id, img, meta), nil
}

func decodeFile(path string) (image.Image, error) {
	// IMRead hands back a Mat even on failure; close it on every path.
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if !mat.Empty() {
		if img, err := mat.ToImage(); err == nil {
			return img, nil
		}
	}

	// Fallback: stdlib decode (png/jpeg, tiff via x/image).
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// sidecarMeta mirrors the ingest side's metadata schema.
type sidecarMeta struct {
	WindowCenter *float64 `json:"window_center,omitempty"`
	WindowWidth  *float64 `json:"window_width,omitempty"`
	ViewLabel    string   `json:"view_label,omitempty"`
}

func loadSidecarMeta(imagePath string) Metadata {
	base := imagePath[:len(imagePath)-len(filepath.Ext(imagePath))]
	data, err := os.ReadFile(base + ".meta.json")
	if err != nil {
		return Metadata{}
	}

	var sc sidecarMeta
	if err := json.Unmarshal(data, &sc); err != nil {
		return Metadata{}
	}

	meta := Metadata{ViewLabel: sc.ViewLabel}
	if sc.WindowCenter != nil && sc.WindowWidth != nil {
		meta.WindowCenter = *sc.WindowCenter
		meta.WindowWidth = *sc.WindowWidth
		meta.HasWindow = true
	}
	return meta
}
