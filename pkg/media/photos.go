// Package media holds the boundary collaborators around the journal core:
// photo file storage and reverse geocoding. The core only ever sees the
// opaque filename or location snapshot these produce.
package media

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PhotoStore persists photo bytes outside the journal and hands back opaque
// filenames for entries to reference.
type PhotoStore interface {
	// Save writes the photo and returns its generated filename.
	Save(data []byte) (string, error)

	// Load reads a previously saved photo.
	Load(filename string) ([]byte, error)

	// Delete removes a photo. Deleting an unknown filename is an error.
	Delete(filename string) error

	// Path returns the absolute location of a stored photo.
	Path(filename string) string
}

// DirStore keeps photos as individual files in one directory.
type DirStore struct {
	dir string
}

// NewDirStore creates the photo directory if needed and returns a store over it.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory %q: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// Save writes the photo under a fresh uuid-based filename. If the write
// fails no entry should reference the photo; the caller simply creates the
// entry without one.
func (s *DirStore) Save(data []byte) (string, error) {
	filename := uuid.New().String() + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0600); err != nil {
		return "", fmt.Errorf("failed to save photo: %w", err)
	}
	return filename, nil
}

// Load reads a stored photo back.
func (s *DirStore) Load(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to load photo %q: %w", filename, err)
	}
	return data, nil
}

// Delete removes a stored photo.
func (s *DirStore) Delete(filename string) error {
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		return fmt.Errorf("failed to delete photo %q: %w", filename, err)
	}
	return nil
}

// Path returns where a stored photo lives on disk.
func (s *DirStore) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}
