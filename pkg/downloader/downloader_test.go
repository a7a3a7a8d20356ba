package downloader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"picfetch/pkg/logger"
	"picfetch/pkg/storage"
	"picfetch/pkg/unsplash"
)

func newTestDownloader(t *testing.T, imagesDir string) (*Downloader, *storage.Manager) {
	t.Helper()

	manager, err := storage.NewManager(imagesDir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	client := unsplash.NewClient(30*time.Second, logger.NewTestLogger())
	d := New(client, manager, logger.NewTestLogger())
	d.SetOutput(&bytes.Buffer{})
	return d, manager
}

func TestDownloadAllBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/aaa.jpg":
			io.WriteString(w, "bytes for aaa")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	d, manager := newTestDownloader(t, t.TempDir())

	photos := []unsplash.Photo{
		{ID: "aaa", URLs: map[string]string{"regular": server.URL + "/aaa.jpg"}},
		{ID: "bbb", URLs: map[string]string{"regular": server.URL + "/bbb.jpg"}},
	}

	summary, err := d.DownloadAll(context.Background(), photos, "regular")
	if err != nil {
		t.Fatalf("DownloadAll failed: %v", err)
	}

	if summary.Saved != 1 || summary.Skipped != 1 {
		t.Errorf("Expected 1 saved / 1 skipped, got %d / %d", summary.Saved, summary.Skipped)
	}

	data, err := os.ReadFile(manager.ImagePath("aaa", "regular"))
	if err != nil {
		t.Fatalf("Expected aaa-regular.jpg on disk: %v", err)
	}
	if string(data) != "bytes for aaa" {
		t.Errorf("Expected downloaded bytes, got %q", data)
	}

	// The failed item must leave no file behind
	if manager.Exists("bbb", "regular") {
		t.Error("Expected no file for the skipped item")
	}

	if len(summary.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(summary.Results))
	}
	if summary.Results[0].Outcome != OutcomeSaved {
		t.Errorf("Expected first item saved, got %s", summary.Results[0].Outcome)
	}
	if summary.Results[1].Outcome != OutcomeSkipped || summary.Results[1].Reason == "" {
		t.Errorf("Expected second item skipped with a reason, got %+v", summary.Results[1])
	}
}

func TestDownloadAllMissingTierAborts(t *testing.T) {
	d, _ := newTestDownloader(t, t.TempDir())

	photos := []unsplash.Photo{
		{ID: "aaa", URLs: map[string]string{"small": "http://x/aaa"}},
	}

	_, err := d.DownloadAll(context.Background(), photos, "regular")
	if err == nil {
		t.Fatal("Expected missing quality tier to abort the run")
	}
	if !strings.Contains(err.Error(), "aaa") {
		t.Errorf("Expected error to name the photo, got %v", err)
	}
}

func TestDownloadAllCancellation(t *testing.T) {
	d, _ := newTestDownloader(t, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	photos := []unsplash.Photo{
		{ID: "aaa", URLs: map[string]string{"regular": "http://x/aaa"}},
	}

	summary, err := d.DownloadAll(ctx, photos, "regular")
	if err != nil {
		t.Fatalf("Expected cancellation to end the run cleanly, got %v", err)
	}
	if summary.Saved != 0 || summary.Skipped != 0 {
		t.Errorf("Expected no items processed after cancellation, got %+v", summary)
	}
}

func TestDownloadTransportError(t *testing.T) {
	d, manager := newTestDownloader(t, t.TempDir())

	// Closed server: connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/aaa.jpg"
	server.Close()

	result := d.Download(context.Background(), url, "aaa", "regular")
	if result.Outcome != OutcomeSkipped {
		t.Errorf("Expected transport error to yield skipped, got %s", result.Outcome)
	}
	if result.Reason == "" {
		t.Error("Expected skip reason to be recorded")
	}
	if manager.Exists("aaa", "regular") {
		t.Error("Expected no file after transport error")
	}
}

func TestDownloadEmptyCatalog(t *testing.T) {
	d, _ := newTestDownloader(t, t.TempDir())

	summary, err := d.DownloadAll(context.Background(), nil, "regular")
	if err != nil {
		t.Fatalf("DownloadAll failed on empty catalog: %v", err)
	}
	if summary.Saved != 0 || summary.Skipped != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}
