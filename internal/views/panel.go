package views

import (
	"errors"
	"strings"
	"time"

	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// Toast messages.
const (
	ToastAdded   = "Added to your list"
	ToastRemoved = "Removed from your list"
	ToastCleared = "Watchlist cleared"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 3 * time.Second

// ToastMessage describes a watchlist change.
func ToastMessage(ev events.WatchlistChanged) string {
	switch {
	case ev.Cleared:
		return ToastCleared
	case ev.Added:
		return ToastAdded
	}
	return ToastRemoved
}

// Toast is a short-lived notification. Tag lets the owner ignore expiry ticks of replaced toasts.
type Toast struct {
	Message string
	Tag     int
}

func (t Toast) Render(p *Palette) string {
	if t.Message == "" {
		return ""
	}
	return p.toast.Render(t.Message)
}

// ErrorPanel renders a page or modal failure. A missing credential gets the setup instructions,
// anything else a generic retry prompt.
func ErrorPanel(p *Palette, err error, width int) string {
	if errors.Is(err, shared.ErrMissingCredentials) {
		return SetupPanel(p, width)
	}
	body := strings.Join([]string{
		p.Error("Something went wrong"),
		"",
		"We couldn't load this page. Check your connection and try again.",
		p.Muted(err.Error()),
		"",
		p.Help("r retry"),
	}, "\n")
	return p.panel.Width(panelWidth(width)).Render(body)
}

// SetupPanel explains how to configure a TMDB credential.
func SetupPanel(p *Palette, width int) string {
	body := strings.Join([]string{
		p.Warn("TMDB API key required"),
		"",
		"flix needs a free TMDB credential to browse the catalog.",
		"",
		"  1. Create an account at " + shared.TMDBWebURL,
		"  2. Request an API key under Settings › API",
		"  3. Run `flix setup config` and set api_key under [credentials.tmdb]",
		"     or export TMDB_API_KEY (a .env file works too)",
		"",
		p.Help("restart flix once the key is in place · q quit"),
	}, "\n")
	return p.panel.Width(panelWidth(width)).Render(body)
}

// EmptyWatchlistPanel is shown on My List when nothing is saved.
func EmptyWatchlistPanel(p *Palette, width int) string {
	body := strings.Join([]string{
		p.Title("Your list is empty"),
		"Add movies and shows with w and they will show up here.",
		"",
		p.Help("b browse titles"),
	}, "\n")
	return p.panel.Width(panelWidth(width)).Render(body)
}

// ConfirmPanel asks a yes/no question.
func ConfirmPanel(p *Palette, question string, width int) string {
	return p.panel.Width(panelWidth(width)).Render(p.Warn(question) + "\n\n" + p.Help("y yes · n no"))
}

func panelWidth(width int) int {
	return max(30, min(width-4, 80))
}

// WatchlistGrid lays saved titles out in rows of cards, noting when each was added.
func WatchlistGrid(p *Palette, entries []models.WatchlistEntry, selected, width int, now time.Time) string {
	cards := make([]Card, len(entries))
	for i, e := range entries {
		cards[i] = Card{Item: e.MediaItem, Saved: true, Note: "Added " + shared.TimeAgo(e.AddedAt, now)}
	}

	per := PerPage(width)
	lines := make([]string, 0, len(cards)/per+1)
	for r, chunk := range shared.Chunk(cards, per) {
		row := Row{Cards: chunk, Selected: selected - r*per}
		lines = append(lines, row.Render(p, width, true))
	}
	return strings.Join(lines, "\n")
}
