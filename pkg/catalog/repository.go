package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"picfetch/pkg/unsplash"
)

// BatchPattern matches metadata batch files in the data directory
const BatchPattern = "data*.json"

// Repository reads and writes metadata batch files in a data directory.
// The catalog is always the concatenation of every batch file present,
// in filename order; no in-memory state survives between calls.
type Repository struct {
	dataDir string
}

// NewRepository creates a repository over dataDir
func NewRepository(dataDir string) *Repository {
	return &Repository{dataDir: dataDir}
}

// DataDir returns the data directory path
func (r *Repository) DataDir() string {
	return r.dataDir
}

// BatchFiles returns the batch file paths sorted by filename, which
// sorts by the embedded unix timestamp ascending
func (r *Repository) BatchFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dataDir, BatchPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to glob batch files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// List returns the full catalog: every batch file parsed as a JSON
// array and concatenated in filename order. Duplicate entries across
// batches are retained. A file that is not valid JSON fails the whole
// call; corrupt metadata is an unrecoverable environment problem.
func (r *Repository) List() ([]unsplash.Photo, error) {
	files, err := r.BatchFiles()
	if err != nil {
		return nil, err
	}

	var photos []unsplash.Photo
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read batch file %s: %w", file, err)
		}

		var batch []unsplash.Photo
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("failed to parse batch file %s: %w", file, err)
		}
		photos = append(photos, batch...)
	}

	return photos, nil
}

// SaveBatch persists photos (possibly empty) to a new timestamped
// batch file and returns its path. The data directory is created if
// needed.
func (r *Repository) SaveBatch(photos []unsplash.Photo) (string, error) {
	return r.saveBatchAt(photos, time.Now())
}

func (r *Repository) saveBatchAt(photos []unsplash.Photo, now time.Time) (string, error) {
	if err := os.MkdirAll(r.dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	if photos == nil {
		photos = []unsplash.Photo{}
	}

	data, err := json.MarshalIndent(photos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch: %w", err)
	}

	path := filepath.Join(r.dataDir, fmt.Sprintf("data_%d.json", now.Unix()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write batch file: %w", err)
	}

	return path, nil
}
