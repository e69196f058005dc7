package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/desertthunder/flix/internal/formatter"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// newestFirst returns the saved titles ordered by when they were added.
func (r *Runner) newestFirst() []models.WatchlistEntry {
	entries := r.store.Watchlist()
	slices.SortStableFunc(entries, func(a, b models.WatchlistEntry) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
	return entries
}

// savedEntry finds a saved title without touching the network.
func (r *Runner) savedEntry(kind models.MediaKind, id int) (models.WatchlistEntry, bool) {
	key := models.ItemKey{ID: id, Kind: kind}
	for _, e := range r.store.Watchlist() {
		if e.Key() == key {
			return e, true
		}
	}
	return models.WatchlistEntry{}, false
}

// fetchSummary looks a title up so the stored snapshot carries its title, poster and rating.
func (r *Runner) fetchSummary(ctx context.Context, kind models.MediaKind, id int) (models.MediaItem, error) {
	details, err := r.catalog.Details(ctx, kind, id)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("failed to fetch %s %d: %w", kind, id, err)
	}
	item := details.MediaItem
	item.MediaType = kind
	return item, nil
}

// WatchlistShow prints saved titles, newest first.
func (r *Runner) WatchlistShow(ctx context.Context, cmd *cli.Command) error {
	entries := r.newestFirst()

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	if len(entries) == 0 {
		r.writePlain("Your list is empty.\n")
		r.writePlain("Run 'flix catalog trending' to find something to watch.\n")
		return nil
	}

	now := time.Now()
	r.writePlain("My List (%d titles):\n\n", len(entries))
	for i, e := range entries {
		r.writePlain("%d. %s (%s)\n", i+1, e.DisplayTitle(), shared.Year(e.DisplayDate()))
		r.writePlain("   %s %d • ★ %s • added %s\n", e.Kind().Label(), e.ID, shared.FormatRating(e.VoteAverage), shared.TimeAgo(e.AddedAt, now))
	}
	return nil
}

// WatchlistAdd saves a title.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	kind, id, err := parseTitle(cmd)
	if err != nil {
		return err
	}

	if e, ok := r.savedEntry(kind, id); ok {
		r.writePlain("%s is already in My List\n", e.DisplayTitle())
		return nil
	}

	item, err := r.fetchSummary(ctx, kind, id)
	if err != nil {
		return err
	}

	if !r.store.Add(item) {
		return fmt.Errorf("%w: could not save %s", shared.ErrStorageUnavailable, item.DisplayTitle())
	}
	r.writePlain("✓ Added %s to My List\n", item.DisplayTitle())
	return nil
}

// WatchlistRemove removes a saved title.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	kind, id, err := parseTitle(cmd)
	if err != nil {
		return err
	}

	e, ok := r.savedEntry(kind, id)
	if !ok {
		return fmt.Errorf("%w: %s %d is not in My List", shared.ErrNotFound, kind, id)
	}

	if !r.store.Remove(e.MediaItem) {
		return fmt.Errorf("%w: could not remove %s", shared.ErrStorageUnavailable, e.DisplayTitle())
	}
	r.writePlain("✓ Removed %s from My List\n", e.DisplayTitle())
	return nil
}

// WatchlistToggle saves a title, or removes it when it is already saved.
func (r *Runner) WatchlistToggle(ctx context.Context, cmd *cli.Command) error {
	kind, id, err := parseTitle(cmd)
	if err != nil {
		return err
	}

	item := models.MediaItem{ID: id, MediaType: kind}
	if e, ok := r.savedEntry(kind, id); ok {
		item = e.MediaItem
	} else if item, err = r.fetchSummary(ctx, kind, id); err != nil {
		return err
	}

	if r.store.Toggle(item) {
		r.writePlain("✓ Added %s to My List\n", item.DisplayTitle())
	} else {
		r.writePlain("✓ Removed %s from My List\n", item.DisplayTitle())
	}
	return nil
}

// WatchlistClear removes every saved title.
func (r *Runner) WatchlistClear(ctx context.Context, cmd *cli.Command) error {
	count := r.store.Count()
	if count == 0 {
		r.writePlain("Your list is already empty.\n")
		return nil
	}
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: this removes %d titles, pass --yes to confirm", shared.ErrMissingArgument, count)
	}

	r.store.ClearWatchlist()
	r.logger.Info("watchlist cleared", "count", count)
	r.writePlain("✓ Removed %d titles from My List\n", count)
	return nil
}

// WatchlistExport writes saved titles, newest first, in the requested format.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	entries := r.newestFirst()
	if len(entries) == 0 {
		return fmt.Errorf("%w: My List is empty", shared.ErrInvalidInput)
	}

	path, err := formatter.WriteExport(entries, cmd.String("format"), cmd.String("output"), r.imageBase())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.logger.Info("watchlist exported", "path", path, "count", len(entries))
	r.writePlain("✓ Exported %d titles to %s\n", len(entries), path)
	return nil
}

// WatchlistRefresh re-fetches every saved title so stored posters, ratings and titles stay current.
func (r *Runner) WatchlistRefresh(ctx context.Context, cmd *cli.Command) error {
	if r.store.Count() == 0 {
		r.writePlain("Your list is empty, nothing to refresh.\n")
		return nil
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadWatchlist:
				r.writePlain("📥 %s\n\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Refresh(ctx, progressCh, tasks.RefreshOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Refresh Complete!")
	r.writePlain("Refreshed: %d/%d\n", result.Refreshed, result.Total)

	if result.Failed > 0 {
		r.writePlain("\nFailed to refresh %d titles:\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.Title, res.Error)
			}
		}
	}
	return nil
}
