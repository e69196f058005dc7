package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// RefreshOpts contains configuration for watchlist refreshes.
type RefreshOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 4)
}

// RefreshItemResult is the outcome for one saved title.
type RefreshItemResult struct {
	Key   models.ItemKey
	Title string
	Error error
}

// RefreshResult summarizes a refresh run.
type RefreshResult struct {
	Total     int
	Refreshed int
	Failed    int
	Results   []RefreshItemResult
}

type refreshJob struct {
	entry models.WatchlistEntry
}

type refreshOutcome struct {
	entry   models.WatchlistEntry
	details *models.Details
	err     error
}

// Refresh re-fetches details for every watchlist entry with a bounded worker pool behind a shared
// request limiter. Individual failures are recorded and do not stop the run; cancelling ctx does.
//
// Snapshots are written back from this goroutine only, in completion order.
func (e *WatchlistEngine) Refresh(ctx context.Context, prog chan<- ProgressUpdate, opts RefreshOpts) (*RefreshResult, error) {
	if e.catalog == nil || e.store == nil {
		return nil, fmt.Errorf("%w: engine not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	opts.NumWorkers = min(opts.NumWorkers, 10)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 4
	}

	entries := e.store.Watchlist()
	result := &RefreshResult{Total: len(entries), Results: make([]RefreshItemResult, 0, len(entries))}
	e.sendProgress(prog, loadWatchlistUpdate(len(entries)))
	if len(entries) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan refreshJob)
	outcomes := make(chan refreshOutcome, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, entry := range entries {
			select {
			case jobs <- refreshJob{entry: entry}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range opts.NumWorkers {
		g.Go(func() error {
			for job := range jobs {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
				details, err := e.catalog.Details(gctx, job.entry.Kind(), job.entry.ID)
				outcomes <- refreshOutcome{entry: job.entry, details: details, err: err}
			}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		res := RefreshItemResult{Key: out.entry.Key(), Title: out.entry.DisplayTitle(), Error: out.err}

		var item models.MediaItem
		if out.err == nil {
			item = out.details.MediaItem
			item.ID, item.MediaType = out.entry.ID, out.entry.Kind()
			if !e.store.Refresh(item) {
				res.Error = fmt.Errorf("%w: title is no longer saved", shared.ErrNotFound)
			}
		}

		if res.Error != nil {
			result.Failed++
			e.logger.Warn("refresh failed", "item", res.Key, "error", res.Error)
			e.sendProgress(prog, refreshFailedUpdate(completed, len(entries), out.entry.MediaItem, res.Error))
		} else {
			result.Refreshed++
			e.sendProgress(prog, refreshedUpdate(completed, len(entries), item))
		}
		result.Results = append(result.Results, res)
	}

	if err := <-waitErr; err != nil {
		return result, fmt.Errorf("refresh interrupted: %w", err)
	}
	return result, nil
}
