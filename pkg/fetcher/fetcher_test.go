package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"picfetch/pkg/apierrors"
	"picfetch/pkg/logger"
	"picfetch/pkg/unsplash"
)

// fakeLister serves scripted responses, one per page call
type fakeLister struct {
	responses []pageResponse
	calls     int
}

type pageResponse struct {
	photos []unsplash.Photo
	err    error
}

func (f *fakeLister) FetchRandomPhotos(ctx context.Context, count int) ([]unsplash.Photo, error) {
	if f.calls >= len(f.responses) {
		return nil, errors.New("unexpected extra page call")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp.photos, resp.err
}

// fakeWriter records what was persisted
type fakeWriter struct {
	saved    []unsplash.Photo
	saveErr  error
	invoked  bool
	savePath string
}

func (f *fakeWriter) SaveBatch(photos []unsplash.Photo) (string, error) {
	f.invoked = true
	f.saved = photos
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if f.savePath == "" {
		f.savePath = "data/json/data_1700000000.json"
	}
	return f.savePath, nil
}

func page(ids ...string) []unsplash.Photo {
	photos := make([]unsplash.Photo, 0, len(ids))
	for _, id := range ids {
		photos = append(photos, unsplash.Photo{
			ID:   id,
			URLs: map[string]string{"regular": fmt.Sprintf("http://x/%s", id)},
		})
	}
	return photos
}

func newTestFetcher(lister *fakeLister, writer *fakeWriter, pageSize, budget int) *Fetcher {
	f := New(lister, writer, pageSize, budget, logger.NewTestLogger())
	f.SetOutput(&bytes.Buffer{})
	return f
}

func TestRunCompleted(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{photos: page("a", "b")},
		{photos: page("c", "d")},
		{photos: page("e", "f")},
	}}
	writer := &fakeWriter{}

	f := newTestFetcher(lister, writer, 2, 6)
	session, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if session.Outcome != OutcomeCompleted {
		t.Errorf("Expected completed outcome, got %s", session.Outcome)
	}
	if session.Pages != 3 || session.Items != 6 {
		t.Errorf("Expected 3 pages / 6 items, got %d / %d", session.Pages, session.Items)
	}
	if len(writer.saved) != 6 {
		t.Errorf("Expected 6 photos persisted, got %d", len(writer.saved))
	}
	if session.BatchPath == "" {
		t.Error("Expected batch path to be set")
	}
}

func TestRunRateLimitedPersistsEarlierPages(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{photos: page("a", "b")},
		{photos: page("c", "d")},
		{err: apierrors.New(apierrors.ErrorTypeRateLimit, "rate limit exceeded", 403)},
	}}
	writer := &fakeWriter{}

	f := newTestFetcher(lister, writer, 2, 10)
	session, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if session.Outcome != OutcomeRateLimited {
		t.Errorf("Expected rate_limited outcome, got %s", session.Outcome)
	}
	if session.Pages != 2 || session.Items != 4 {
		t.Errorf("Expected 2 pages / 4 items before the quota hit, got %d / %d", session.Pages, session.Items)
	}
	if len(writer.saved) != 4 {
		t.Errorf("Expected 4 photos persisted, got %d", len(writer.saved))
	}
	if lister.calls != 3 {
		t.Errorf("Expected loop to stop after the 403, got %d calls", lister.calls)
	}
}

func TestRunFailureStillPersists(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{photos: page("a", "b")},
		{err: apierrors.New(apierrors.ErrorTypeServerError, "server error", 500)},
	}}
	writer := &fakeWriter{}

	f := newTestFetcher(lister, writer, 2, 10)
	session, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected fetch failure to be swallowed, got %v", err)
	}

	if session.Outcome != OutcomeFailed {
		t.Errorf("Expected failed outcome, got %s", session.Outcome)
	}
	if len(writer.saved) != 2 {
		t.Errorf("Expected partial batch persisted, got %d photos", len(writer.saved))
	}
}

func TestRunImmediateRateLimitPersistsEmptyBatch(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{err: apierrors.New(apierrors.ErrorTypeRateLimit, "rate limit exceeded", 403)},
	}}
	writer := &fakeWriter{}

	f := newTestFetcher(lister, writer, 2, 10)
	session, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !writer.invoked {
		t.Error("Expected SaveBatch to run even with nothing fetched")
	}
	if session.Items != 0 {
		t.Errorf("Expected 0 items, got %d", session.Items)
	}
}

func TestRunCanceled(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{photos: page("a", "b")},
		{photos: page("c", "d")},
	}}
	writer := &fakeWriter{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(lister, writer, 2, 10)
	session, err := f.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if session.Outcome != OutcomeCanceled {
		t.Errorf("Expected canceled outcome, got %s", session.Outcome)
	}
	if !writer.invoked {
		t.Error("Expected SaveBatch to run on cancellation")
	}
	if lister.calls != 0 {
		t.Errorf("Expected no page calls after cancellation, got %d", lister.calls)
	}
}

func TestRunPersistFailureIsReturned(t *testing.T) {
	lister := &fakeLister{responses: []pageResponse{
		{photos: page("a", "b")},
	}}
	writer := &fakeWriter{saveErr: errors.New("disk full")}

	f := newTestFetcher(lister, writer, 2, 2)
	_, err := f.Run(context.Background())
	if err == nil {
		t.Fatal("Expected persistence failure to be returned")
	}
	if !errors.Is(err, writer.saveErr) {
		t.Errorf("Expected wrapped save error, got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	f := New(&fakeLister{}, &fakeWriter{}, 0, 0, logger.NewTestLogger())

	if f.pageSize != unsplash.DefaultPageSize {
		t.Errorf("Expected default page size, got %d", f.pageSize)
	}
	if f.totalBudget != unsplash.DefaultTotalBudget {
		t.Errorf("Expected default budget, got %d", f.totalBudget)
	}
}
