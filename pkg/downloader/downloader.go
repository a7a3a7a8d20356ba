package downloader

import (
	"context"
	"fmt"
	"io"
	"os"

	"picfetch/pkg/logger"
	"picfetch/pkg/ui"
	"picfetch/pkg/unsplash"
)

// PhotoSource downloads photo binaries
type PhotoSource interface {
	DownloadPhoto(ctx context.Context, url string) (io.ReadCloser, error)
}

// PhotoStorage stores photo binaries
type PhotoStorage interface {
	ImagePath(id, quality string) string
	SaveImage(r io.Reader, id, quality string) error
}

// Outcome classifies a single download attempt
type Outcome string

const (
	// OutcomeSaved means the file was written
	OutcomeSaved Outcome = "saved"

	// OutcomeSkipped means the item was passed over; the destination
	// was left untouched
	OutcomeSkipped Outcome = "skipped"
)

// Result reports what happened to one catalog item. Per-item failures
// are never surfaced as errors: callers iterate the whole catalog and
// a skipped item must not stop the run.
type Result struct {
	ID      string
	Quality string
	Path    string
	Outcome Outcome
	Reason  string
}

// Summary aggregates a DownloadAll run
type Summary struct {
	Saved   int
	Skipped int
	Results []Result
}

// Downloader fetches catalog items to local storage one at a time
type Downloader struct {
	source  PhotoSource
	storage PhotoStorage
	logger  logger.Logger
	out     io.Writer
}

// New creates a Downloader
func New(source PhotoSource, storage PhotoStorage, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		source:  source,
		storage: storage,
		logger:  log,
		out:     os.Stdout,
	}
}

// SetOutput redirects progress output (used in tests)
func (d *Downloader) SetOutput(w io.Writer) {
	d.out = w
}

// Download fetches one binary to the (id, quality) path. Best effort:
// a transport error or non-200 status yields a Skipped result and the
// destination file is not created or modified.
func (d *Downloader) Download(ctx context.Context, url, id, quality string) Result {
	result := Result{
		ID:      id,
		Quality: quality,
		Path:    d.storage.ImagePath(id, quality),
	}

	body, err := d.source.DownloadPhoto(ctx, url)
	if err != nil {
		d.logger.DebugWithFields("skipping image", map[string]interface{}{
			"id":    id,
			"url":   url,
			"error": err.Error(),
		})
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result
	}
	defer body.Close()

	if err := d.storage.SaveImage(body, id, quality); err != nil {
		d.logger.WarnWithFields("failed to store image", map[string]interface{}{
			"id":    id,
			"error": err.Error(),
		})
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result
	}

	result.Outcome = OutcomeSaved
	return result
}

// DownloadAll downloads every catalog item at the given quality tier,
// sequentially and in catalog order. A missing quality tier for any
// item is a hard error that aborts the run; per-item download failures
// are skipped. Cancellation is honored between items.
func (d *Downloader) DownloadAll(ctx context.Context, photos []unsplash.Photo, quality string) (*Summary, error) {
	summary := &Summary{}

	bar := ui.NewBar(d.out, "Downloading ", len(photos))
	bar.Start()
	defer bar.Finish()

	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			d.logger.Warn("operation interrupted by user")
			return summary, nil
		}

		url, ok := photo.URL(quality)
		if !ok {
			return summary, fmt.Errorf("photo %s has no %q quality tier", photo.ID, quality)
		}

		result := d.Download(ctx, url, photo.ID, quality)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case OutcomeSaved:
			summary.Saved++
		case OutcomeSkipped:
			summary.Skipped++
		}

		bar.Advance()
	}

	d.logger.InfoWithFields("download pass finished", map[string]interface{}{
		"saved":   summary.Saved,
		"skipped": summary.Skipped,
	})

	return summary, nil
}
