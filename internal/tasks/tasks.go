// package tasks implements long-running watchlist operations against the catalog.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
)

// WatchlistStore is the subset of the storage adapter the engine needs.
type WatchlistStore interface {
	Watchlist() []models.WatchlistEntry
	Refresh(item models.MediaItem) bool
}

// Engine defines batch operations over the saved watchlist.
type Engine interface {
	// Refresh re-fetches every saved title and replaces its stored snapshot, keeping AddedAt.
	Refresh(ctx context.Context, progress chan<- ProgressUpdate, opts RefreshOpts) (*RefreshResult, error)
}

// WatchlistEngine implements [Engine].
type WatchlistEngine struct {
	catalog services.Catalog
	store   WatchlistStore
	logger  *log.Logger
}

// NewWatchlistEngine creates a new WatchlistEngine with the provided catalog and store.
func NewWatchlistEngine(catalog services.Catalog, store WatchlistStore, logger *log.Logger) *WatchlistEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &WatchlistEngine{catalog: catalog, store: store, logger: logger.WithPrefix("tasks")}
}

// SetLogger replaces the logger used to report failed refreshes.
func (e *WatchlistEngine) SetLogger(logger *log.Logger) {
	e.logger = logger.WithPrefix("tasks")
}

// sendProgress sends a progress update through the channel without blocking.
func (e *WatchlistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
