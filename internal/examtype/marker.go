package examtype

import (
	"log"

	"radview/internal/marker"
	"radview/internal/measure"
	"radview/internal/raster"
)

// Marker classifies from burned-in view markers read off the raster
// corners. OCR failures are logged and reported as undecided so the chain
// can fall through to the generic tool set.
func Marker(reader *marker.Reader) Classifier {
	return ClassifierFunc(func(ras *raster.Raster) measure.ExamCategory {
		if reader == nil || ras == nil || ras.Pixels == nil {
			return measure.CategoryUnknown
		}
		text, err := reader.ReadCorners(ras.Pixels)
		if err != nil {
			log.Printf("marker OCR failed for %s: %v", ras.ID, err)
			return measure.CategoryUnknown
		}
		return CategoryFromText(text)
	})
}
