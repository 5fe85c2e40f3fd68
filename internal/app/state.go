// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"fmt"
	"sync"

	"radview/internal/examtype"
	"radview/internal/measure"
	"radview/internal/raster"
	"radview/internal/report"
	"radview/internal/viewport"
)

// Study is one opened image with its viewport and persisted report.
type Study struct {
	ID       string
	Viewport *viewport.Instance
	Category measure.ExamCategory
	Tools    []measure.ToolDefinition
	Report   *report.File

	// LoadErr is set when the image could not be fetched. The viewport stays
	// interactive for transform and windowing state; only rendering degrades
	// to a placeholder.
	LoadErr error
}

// EventType identifies application events.
type EventType int

const (
	EventStudyOpened EventType = iota
	EventStudyClosed
	EventMeasurementsChanged
	EventReportSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the open studies and the services they share.
type State struct {
	mu sync.RWMutex

	source     raster.Source
	classifier examtype.Classifier
	reports    report.Store

	studies map[string]*Study
	order   []string

	listeners map[EventType][]EventListener
}

// NewState creates application state over an image source, an exam
// classifier chain, and a report store.
func NewState(source raster.Source, classifier examtype.Classifier, reports report.Store) *State {
	return &State{
		source:     source,
		classifier: classifier,
		reports:    reports,
		studies:    make(map[string]*Study),
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// OpenStudy fetches the image, classifies the exam, restores any saved
// measurements, and returns the study. A fetch failure is reported through
// Study.LoadErr rather than an error return: the viewport still opens.
func (s *State) OpenStudy(id string) (*Study, error) {
	s.mu.RLock()
	existing := s.studies[id]
	s.mu.RUnlock()
	if existing != nil {
		return existing, nil
	}

	ras, loadErr := s.source.Raster(id)

	category := measure.CategoryUnknown
	if s.classifier != nil && ras != nil {
		category = s.classifier.Classify(ras)
	}

	st := &Study{
		ID:       id,
		Viewport: viewport.NewInstance(id, ras, loadErr),
		Category: category,
		Tools:    measure.ToolsFor(category),
		LoadErr:  loadErr,
	}

	if s.reports != nil {
		doc, err := s.reports.Load(id)
		if err != nil {
			return nil, fmt.Errorf("load report for %s: %w", id, err)
		}
		st.Report = doc
		st.Viewport.ReplaceMeasurements(doc.Measurements)
	} else {
		st.Report = report.New(id)
	}

	s.mu.Lock()
	s.studies[id] = st
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.Emit(EventStudyOpened, st)
	return st, nil
}

// Study returns an open study by id, or nil.
func (s *State) Study(id string) *Study {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.studies[id]
}

// Studies returns the open studies in opening order.
func (s *State) Studies() []*Study {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Study, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.studies[id])
	}
	return out
}

// CloseStudy drops a study without saving.
func (s *State) CloseStudy(id string) {
	s.mu.Lock()
	st, ok := s.studies[id]
	if ok {
		delete(s.studies, id)
		for i, sid := range s.order {
			if sid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if ok {
		s.Emit(EventStudyClosed, st)
	}
}

// SaveStudy writes the study's current measurements and report text. The
// stored document is replaced wholesale.
func (s *State) SaveStudy(id string) error {
	s.mu.RLock()
	st := s.studies[id]
	s.mu.RUnlock()
	if st == nil {
		return fmt.Errorf("study %s is not open", id)
	}
	if s.reports == nil {
		return fmt.Errorf("no report store configured")
	}

	st.Report.Measurements = st.Viewport.Measurements()
	if err := s.reports.Save(st.Report); err != nil {
		return err
	}

	s.Emit(EventReportSaved, st)
	return nil
}
