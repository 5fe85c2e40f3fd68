// Package report provides measurement and report persistence for images.
// Save and load replace the whole measurement list wholesale; there is no
// merging.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"radview/internal/measure"
)

// File is the persisted measurement document for one image.
type File struct {
	Version  int       `json:"version"`
	ImageID  string    `json:"image_id"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Report is the free-text report content attached to the image.
	Report string `json:"report,omitempty"`

	Measurements []measure.Measurement `json:"measurements"`
}

// New creates an empty document for an image id.
func New(imageID string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		ImageID:  imageID,
		Created:  now,
		Modified: now,
	}
}

// Store persists measurement documents keyed by image id.
type Store interface {
	Load(imageID string) (*File, error)
	Save(f *File) error
}

// DirStore keeps one JSON document per image id under a directory.
type DirStore struct {
	Root string
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Root: dir}
}

// Load reads the document for an image id. A missing document is not an
// error: it returns a fresh empty one.
func (s *DirStore) Load(imageID string) (*File, error) {
	data, err := os.ReadFile(s.path(imageID))
	if err != nil {
		if os.IsNotExist(err) {
			return New(imageID), nil
		}
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("corrupt report for %s: %w", imageID, err)
	}
	return &f, nil
}

// Save writes the document, replacing any previous one for the same image.
func (s *DirStore) Save(f *File) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path(f.ImageID), data, 0o644)
}

// path maps an opaque image id to a file name, flattening separators so ids
// can't escape the store root.
func (s *DirStore) path(imageID string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(imageID)
	return filepath.Join(s.Root, safe+".report.json")
}
