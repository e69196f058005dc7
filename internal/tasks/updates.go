package tasks

import (
	"fmt"

	"github.com/desertthunder/flix/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadWatchlist Phase = iota
	FetchDetails
	SaveSnapshot
)

func (p Phase) String() string {
	switch p {
	case LoadWatchlist:
		return "load_watchlist"
	case FetchDetails:
		return "fetch_details"
	case SaveSnapshot:
		return "save_snapshot"
	default:
		return ""
	}
}

func loadWatchlistUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadWatchlist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Refreshing %d saved titles...", total),
	}
}

func refreshedUpdate(step, total int, item models.MediaItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveSnapshot,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, item.DisplayTitle()),
		Data:    item,
	}
}

func refreshFailedUpdate(step, total int, item models.MediaItem, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, item.DisplayTitle(), err),
	}
}
