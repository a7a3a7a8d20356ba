package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"

	"picfetch/pkg/apierrors"
	"picfetch/pkg/logger"
	"picfetch/pkg/ui"
	"picfetch/pkg/unsplash"
)

// PhotoLister fetches pages of photo records
type PhotoLister interface {
	FetchRandomPhotos(ctx context.Context, count int) ([]unsplash.Photo, error)
}

// BatchWriter persists an accumulated batch
type BatchWriter interface {
	SaveBatch(photos []unsplash.Photo) (string, error)
}

// Outcome describes how a fetch session's page loop ended
type Outcome string

const (
	// OutcomeCompleted means the full budget was fetched
	OutcomeCompleted Outcome = "completed"

	// OutcomeRateLimited means the API returned 403 and the loop
	// stopped; not an error
	OutcomeRateLimited Outcome = "rate_limited"

	// OutcomeFailed means an unexpected status or error stopped the loop
	OutcomeFailed Outcome = "failed"

	// OutcomeCanceled means the session was interrupted
	OutcomeCanceled Outcome = "canceled"
)

// Session summarizes one fetch run. Whatever the outcome, the
// accumulated items were persisted to BatchPath.
type Session struct {
	Pages     int
	Items     int
	Outcome   Outcome
	BatchPath string
}

// Fetcher pulls photo metadata pages from the API and persists the
// accumulated batch on every exit path.
type Fetcher struct {
	client      PhotoLister
	repo        BatchWriter
	pageSize    int
	totalBudget int
	logger      logger.Logger
	out         io.Writer
}

// New creates a Fetcher. pageSize and totalBudget fall back to the
// API defaults when non-positive.
func New(client PhotoLister, repo BatchWriter, pageSize, totalBudget int, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	if pageSize <= 0 {
		pageSize = unsplash.DefaultPageSize
	}
	if totalBudget <= 0 {
		totalBudget = unsplash.DefaultTotalBudget
	}
	return &Fetcher{
		client:      client,
		repo:        repo,
		pageSize:    pageSize,
		totalBudget: totalBudget,
		logger:      log,
		out:         os.Stdout,
	}
}

// SetOutput redirects progress output (used in tests)
func (f *Fetcher) SetOutput(w io.Writer) {
	f.out = w
}

// Run executes one fetch session. The page loop stops on the first
// 403 (quota), any other non-200 status, or cancellation; whatever has
// been accumulated by then, including nothing, is persisted before Run
// returns. Only a persistence failure is returned as an error.
func (f *Fetcher) Run(ctx context.Context) (session *Session, err error) {
	session = &Session{Outcome: OutcomeCompleted}
	var photos []unsplash.Photo

	// The batch file is written no matter how the loop exits.
	defer func() {
		path, saveErr := f.repo.SaveBatch(photos)
		if saveErr != nil {
			f.logger.WithError(saveErr).Error("failed to persist batch")
			if err == nil {
				err = fmt.Errorf("failed to persist batch: %w", saveErr)
			}
			return
		}
		session.BatchPath = path
		f.logger.InfoWithFields("batch persisted", map[string]interface{}{
			"path":    path,
			"items":   session.Items,
			"outcome": string(session.Outcome),
		})
	}()

	totalPages := f.totalBudget / f.pageSize
	bar := ui.NewBar(f.out, "Downloading ", totalPages)
	bar.Start()
	defer bar.Finish()

	for page := 0; page < totalPages; page++ {
		if ctx.Err() != nil {
			f.logger.Warn("operation interrupted by user")
			session.Outcome = OutcomeCanceled
			break
		}

		batch, fetchErr := f.client.FetchRandomPhotos(ctx, f.pageSize)
		if fetchErr != nil {
			if apierrors.IsRateLimit(fetchErr) {
				f.logger.Warn("API limit reached")
				session.Outcome = OutcomeRateLimited
				break
			}
			if ctx.Err() != nil {
				f.logger.Warn("operation interrupted by user")
				session.Outcome = OutcomeCanceled
				break
			}
			f.logger.WithError(fetchErr).Error("fetch failed, stopping")
			session.Outcome = OutcomeFailed
			break
		}

		photos = append(photos, batch...)
		session.Pages++
		session.Items = len(photos)
		bar.Advance()
	}

	return session, nil
}
