package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ThumbnailMarker is the filename suffix for derivative images
const ThumbnailMarker = "-thumbnail"

// Manager handles the images directory layout: deterministic
// {id}-{quality}.jpg paths for sources and {stem}-thumbnail{ext}
// siblings for derivatives.
type Manager struct {
	imagesDir string
}

// NewManager creates a storage manager, creating the images directory
// if it does not exist
func NewManager(imagesDir string) (*Manager, error) {
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &Manager{imagesDir: imagesDir}, nil
}

// ImagesDir returns the images directory path
func (m *Manager) ImagesDir() string {
	return m.imagesDir
}

// ImagePath returns the deterministic path for an (id, quality) pair
func (m *Manager) ImagePath(id, quality string) string {
	return filepath.Join(m.imagesDir, fmt.Sprintf("%s-%s.jpg", id, quality))
}

// ThumbnailPath returns the derivative path for a source image:
// the original stem plus the thumbnail marker and original extension
func ThumbnailPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	stem := strings.TrimSuffix(sourcePath, ext)
	return stem + ThumbnailMarker + ext
}

// IsThumbnail reports whether path names a derivative image
func IsThumbnail(path string) bool {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return strings.HasSuffix(stem, ThumbnailMarker)
}

// Exists checks whether the image for (id, quality) is already on disk
func (m *Manager) Exists(id, quality string) bool {
	_, err := os.Stat(m.ImagePath(id, quality))
	return err == nil
}

// SaveImage writes image bytes to the (id, quality) path. The data
// goes through a temp file and an atomic rename, so the destination
// either keeps its previous state or holds the complete new content.
func (m *Manager) SaveImage(r io.Reader, id, quality string) error {
	filename := m.ImagePath(id, quality)

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save image data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// ListSources returns the source .jpg files in the images directory,
// sorted by name, excluding thumbnails
func (m *Manager) ListSources() ([]string, error) {
	entries, err := os.ReadDir(m.imagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory: %w", err)
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".jpg" || IsThumbnail(name) {
			continue
		}
		sources = append(sources, filepath.Join(m.imagesDir, name))
	}

	sort.Strings(sources)
	return sources, nil
}
