package imageproc

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"picfetch/pkg/logger"
	"picfetch/pkg/storage"
)

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("Failed to write test image %s: %v", path, err)
	}
}

func TestMakeThumbnailFitsWithinBounds(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "tall-regular.jpg")
	writeTestImage(t, source, 1000, 2000)

	before, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("Failed to read source: %v", err)
	}

	result, err := MakeThumbnail(source, Options{MaxWidth: 128, MaxHeight: 128})
	if err != nil {
		t.Fatalf("MakeThumbnail failed: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("Expected created outcome, got %s (%s)", result.Outcome, result.Reason)
	}

	thumb, err := imaging.Open(result.Thumbnail)
	if err != nil {
		t.Fatalf("Failed to open thumbnail: %v", err)
	}

	bounds := thumb.Bounds()
	if bounds.Dx() > 128 || bounds.Dy() > 128 {
		t.Errorf("Expected thumbnail within 128x128, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// 1000x2000 fit into 128x128 keeps the 1:2 aspect ratio
	if bounds.Dy() != 128 || bounds.Dx() != 64 {
		t.Errorf("Expected 64x128 thumbnail, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	after, err := os.ReadFile(source)
	if err != nil {
		t.Fatalf("Failed to re-read source: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Expected source file to be untouched")
	}
}

func TestMakeThumbnailNaming(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "abc-regular.jpg")
	writeTestImage(t, source, 50, 50)

	result, err := MakeThumbnail(source, DefaultOptions())
	if err != nil {
		t.Fatalf("MakeThumbnail failed: %v", err)
	}

	want := filepath.Join(dir, "abc-regular-thumbnail.jpg")
	if result.Thumbnail != want {
		t.Errorf("Expected thumbnail at %s, got %s", want, result.Thumbnail)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected thumbnail file on disk: %v", err)
	}
}

func TestMakeThumbnailUndecodable(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "broken-regular.jpg")
	if err := os.WriteFile(source, []byte("this is not an image"), 0644); err != nil {
		t.Fatalf("Failed to write broken file: %v", err)
	}

	result, err := MakeThumbnail(source, DefaultOptions())
	if err != nil {
		t.Fatalf("Expected undecodable file to be swallowed, got %v", err)
	}
	if result.Outcome != OutcomeSkipped {
		t.Errorf("Expected skipped outcome, got %s", result.Outcome)
	}
	if _, statErr := os.Stat(result.Thumbnail); !os.IsNotExist(statErr) {
		t.Error("Expected no thumbnail file for undecodable source")
	}
}

func TestMakeThumbnailPixelLimit(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "big-regular.jpg")
	writeTestImage(t, source, 100, 100)

	t.Run("over the limit", func(t *testing.T) {
		result, err := MakeThumbnail(source, Options{MaxWidth: 128, MaxHeight: 128, MaxPixels: 5000})
		if err != nil {
			t.Fatalf("MakeThumbnail failed: %v", err)
		}
		if result.Outcome != OutcomeSkipped {
			t.Errorf("Expected oversized image to be skipped, got %s", result.Outcome)
		}
	})

	t.Run("zero means no limit", func(t *testing.T) {
		result, err := MakeThumbnail(source, Options{MaxWidth: 128, MaxHeight: 128, MaxPixels: 0})
		if err != nil {
			t.Fatalf("MakeThumbnail failed: %v", err)
		}
		if result.Outcome != OutcomeCreated {
			t.Errorf("Expected image to be processed, got %s", result.Outcome)
		}
	})
}

func TestTransformPipeline(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wide-regular.jpg")
	writeTestImage(t, source, 800, 600)

	result, err := TransformPipeline(source, DefaultOptions())
	if err != nil {
		t.Fatalf("TransformPipeline failed: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("Expected created outcome, got %s (%s)", result.Outcome, result.Reason)
	}

	thumb, err := imaging.Open(result.Thumbnail)
	if err != nil {
		t.Fatalf("Failed to open thumbnail: %v", err)
	}

	bounds := thumb.Bounds()
	if bounds.Dx() != 128 || bounds.Dy() != 96 {
		t.Errorf("Expected 128x96 thumbnail, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// Only the thumbnail is written; intermediates are discarded
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected source and thumbnail only, got %d files", len(entries))
	}
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	manager, err := storage.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	writeTestImage(t, filepath.Join(dir, "aaa-regular.jpg"), 300, 200)
	writeTestImage(t, filepath.Join(dir, "bbb-regular.jpg"), 200, 300)
	if err := os.WriteFile(filepath.Join(dir, "ccc-regular.jpg"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write broken file: %v", err)
	}

	p := NewProcessor(manager, DefaultOptions(), logger.NewTestLogger())
	p.SetOutput(&bytes.Buffer{})

	summary, err := p.ProcessDirectory(context.Background())
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if summary.Created != 2 || summary.Skipped != 1 {
		t.Errorf("Expected 2 created / 1 skipped, got %d / %d", summary.Created, summary.Skipped)
	}

	for _, name := range []string{"aaa-regular-thumbnail.jpg", "bbb-regular-thumbnail.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected thumbnail %s on disk: %v", name, err)
		}
	}
}

func TestProcessDirectorySkipsExistingThumbnails(t *testing.T) {
	dir := t.TempDir()
	manager, err := storage.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	writeTestImage(t, filepath.Join(dir, "aaa-regular.jpg"), 300, 200)

	p := NewProcessor(manager, DefaultOptions(), logger.NewTestLogger())
	p.SetOutput(&bytes.Buffer{})

	// Two passes: the second must not treat the thumbnail as a source
	for i := 0; i < 2; i++ {
		if _, err := p.ProcessDirectory(context.Background()); err != nil {
			t.Fatalf("ProcessDirectory pass %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected source plus one thumbnail, got %v", names)
	}
}

func TestProcessDirectoryCancellation(t *testing.T) {
	dir := t.TempDir()
	manager, err := storage.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	writeTestImage(t, filepath.Join(dir, "aaa-regular.jpg"), 100, 100)

	p := NewProcessor(manager, DefaultOptions(), logger.NewTestLogger())
	p.SetOutput(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := p.ProcessDirectory(ctx)
	if err != nil {
		t.Fatalf("Expected cancellation to end the pass cleanly, got %v", err)
	}
	if summary.Created != 0 {
		t.Errorf("Expected no thumbnails after cancellation, got %d", summary.Created)
	}
}
