// Package examtype classifies an image into the exam category that selects
// its measurement tool set. The core never infers the category itself; it
// asks a Classifier chain and falls back to the generic tools.
package examtype

import (
	"strings"

	"radview/internal/measure"
	"radview/internal/raster"
)

// Classifier maps an image to an exam category. Implementations return
// CategoryUnknown when they cannot decide so the next classifier in a chain
// gets a chance.
type Classifier interface {
	Classify(ras *raster.Raster) measure.ExamCategory
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ras *raster.Raster) measure.ExamCategory

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ras *raster.Raster) measure.ExamCategory {
	return f(ras)
}

// Chain tries classifiers in order and returns the first decisive answer.
type Chain []Classifier

// Classify implements Classifier.
func (c Chain) Classify(ras *raster.Raster) measure.ExamCategory {
	for _, cl := range c {
		if cat := cl.Classify(ras); cat != measure.CategoryUnknown {
			return cat
		}
	}
	return measure.CategoryUnknown
}

// Metadata classifies from the view label the upstream system recorded.
func Metadata() Classifier {
	return ClassifierFunc(func(ras *raster.Raster) measure.ExamCategory {
		if ras == nil {
			return measure.CategoryUnknown
		}
		return CategoryFromText(ras.Meta.ViewLabel)
	})
}

// CategoryFromText maps a view label or OCR'd marker text to a category.
func CategoryFromText(text string) measure.ExamCategory {
	t := strings.ToUpper(strings.TrimSpace(text))
	if t == "" {
		return measure.CategoryUnknown
	}
	switch {
	case strings.Contains(t, "LAT"), strings.Contains(t, "SIDE"):
		return measure.CategoryLateral
	case strings.Contains(t, "FRONT"), strings.Contains(t, "AP"), strings.Contains(t, "PA"):
		return measure.CategoryFrontal
	default:
		return measure.CategoryUnknown
	}
}
