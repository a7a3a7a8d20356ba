package imageproc

import (
	"context"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"picfetch/pkg/logger"
	"picfetch/pkg/storage"
	"picfetch/pkg/ui"
)

// Options controls thumbnail generation
type Options struct {
	MaxWidth  int
	MaxHeight int

	// MaxPixels skips images above this pixel count when > 0. Zero
	// means no limit; arbitrarily large images are processed.
	MaxPixels int64
}

// DefaultOptions matches the stock 128x128 thumbnail with no pixel cap
func DefaultOptions() Options {
	return Options{MaxWidth: 128, MaxHeight: 128}
}

// Outcome classifies what happened to one source image
type Outcome string

const (
	// OutcomeCreated means the thumbnail file was written
	OutcomeCreated Outcome = "created"

	// OutcomeSkipped means the source was passed over without output;
	// undecodable files in the images directory are expected, not fatal
	OutcomeSkipped Outcome = "skipped"
)

// Result reports one processed source image
type Result struct {
	Source    string
	Thumbnail string
	Outcome   Outcome
	Reason    string
}

// Summary aggregates a directory pass
type Summary struct {
	Created int
	Skipped int
}

// MakeThumbnail resizes the image at path so that neither dimension
// exceeds the configured maximum, preserving aspect ratio, converts to
// 3-channel color and saves the result next to the source with the
// thumbnail marker in its name. The source file is never modified.
// Files whose bytes are not a decodable image yield a Skipped result
// and no error.
func MakeThumbnail(path string, opts Options) (Result, error) {
	result := Result{Source: path, Thumbnail: storage.ThumbnailPath(path)}

	if opts.MaxPixels > 0 {
		if reason, exceeded := exceedsPixelLimit(path, opts.MaxPixels); exceeded {
			result.Outcome = OutcomeSkipped
			result.Reason = reason
			return result, nil
		}
	}

	img, err := imaging.Open(path)
	if err != nil {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result, nil
	}

	thumb := imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)

	// Saving as JPEG drops alpha and palette information, so the
	// written file is always 3-channel.
	if err := imaging.Save(thumb, result.Thumbnail); err != nil {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result, err
	}

	result.Outcome = OutcomeCreated
	return result, nil
}

// TransformPipeline exercises the full transform sequence on the image
// at path: horizontal flip, 90 and 270 degree rotations, a fixed
// 400x400 resize, grayscale and color conversion. The intermediate
// results are validation-only and discarded; only the final thumbnail
// is written, with the same contract as MakeThumbnail.
func TransformPipeline(path string, opts Options) (Result, error) {
	result := Result{Source: path, Thumbnail: storage.ThumbnailPath(path)}

	img, err := imaging.Open(path)
	if err != nil {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result, nil
	}

	_ = imaging.FlipH(img)
	_ = imaging.Rotate90(img)
	_ = imaging.Rotate270(img)
	_ = imaging.Resize(img, 400, 400, imaging.Lanczos)
	gray := imaging.Grayscale(img)
	_ = imaging.Clone(gray)

	thumb := imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	if err := imaging.Save(thumb, result.Thumbnail); err != nil {
		result.Outcome = OutcomeSkipped
		result.Reason = err.Error()
		return result, err
	}

	result.Outcome = OutcomeCreated
	return result, nil
}

// exceedsPixelLimit decodes only the image header to compare
// dimensions against the limit. Undecodable headers are left for the
// full decode to classify.
func exceedsPixelLimit(path string, maxPixels int64) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "", false
	}

	pixels := int64(cfg.Width) * int64(cfg.Height)
	if pixels > maxPixels {
		return "image exceeds pixel limit", true
	}
	return "", false
}

// Processor runs thumbnail generation over a whole images directory
type Processor struct {
	manager *storage.Manager
	opts    Options
	logger  logger.Logger
	out     io.Writer

	// pipeline switches ProcessDirectory from plain thumbnailing to
	// the full transform pipeline
	pipeline bool
}

// NewProcessor creates a directory processor
func NewProcessor(manager *storage.Manager, opts Options, log logger.Logger) *Processor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Processor{
		manager: manager,
		opts:    opts,
		logger:  log,
		out:     os.Stdout,
	}
}

// SetOutput redirects progress output (used in tests)
func (p *Processor) SetOutput(w io.Writer) {
	p.out = w
}

// UsePipeline switches processing to the full transform pipeline
func (p *Processor) UsePipeline(enabled bool) {
	p.pipeline = enabled
}

// ProcessDirectory thumbnails every source image in the images
// directory, skipping existing thumbnails and undecodable files.
// Cancellation is honored between files.
func (p *Processor) ProcessDirectory(ctx context.Context) (*Summary, error) {
	sources, err := p.manager.ListSources()
	if err != nil {
		return nil, err
	}

	summary := &Summary{}

	bar := ui.NewBar(p.out, "Processing ", len(sources))
	bar.Start()
	defer bar.Finish()

	for _, source := range sources {
		if ctx.Err() != nil {
			p.logger.Warn("operation interrupted by user")
			return summary, nil
		}

		var result Result
		var procErr error
		if p.pipeline {
			result, procErr = TransformPipeline(source, p.opts)
		} else {
			result, procErr = MakeThumbnail(source, p.opts)
		}
		if procErr != nil {
			// Write failures are surfaced; a broken images directory
			// should stop the pass rather than skip everything.
			return summary, procErr
		}

		switch result.Outcome {
		case OutcomeCreated:
			summary.Created++
		case OutcomeSkipped:
			summary.Skipped++
			p.logger.DebugWithFields("skipped image", map[string]interface{}{
				"source": result.Source,
				"reason": result.Reason,
			})
		}

		bar.Advance()
	}

	p.logger.InfoWithFields("thumbnail pass finished", map[string]interface{}{
		"created": summary.Created,
		"skipped": summary.Skipped,
	})

	return summary, nil
}
