package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// DefaultSearchLimit caps the suggestions under the search box.
const DefaultSearchLimit = 8

// FilterResults drops people and keeps at most limit titles. limit <= 0 uses [DefaultSearchLimit].
func FilterResults(items []models.MediaItem, limit int) []models.MediaItem {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out := make([]models.MediaItem, 0, min(limit, len(items)))
	for _, item := range items {
		if item.MediaType == models.KindPerson {
			continue
		}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}

// SearchPanel is the search overlay: the input, then either recent searches or live results.
type SearchPanel struct {
	Input    string // rendered text input
	Query    string
	Results  []models.MediaItem
	History  []string
	Selected int
	Loading  bool
	Err      error
}

// ShowingHistory reports whether the panel lists recent searches instead of results.
func (s SearchPanel) ShowingHistory() bool {
	return strings.TrimSpace(s.Query) == ""
}

// Options is the number of selectable lines.
func (s SearchPanel) Options() int {
	if s.ShowingHistory() {
		return len(s.History)
	}
	return len(s.Results)
}

func (s SearchPanel) Render(p *Palette, width int) string {
	inner := max(30, min(width-8, 80))
	lines := []string{s.Input, ""}

	option := func(i int, text string) string {
		if i == s.Selected {
			return p.Accent("› " + text)
		}
		return "  " + text
	}

	switch {
	case s.ShowingHistory() && len(s.History) == 0:
		lines = append(lines, p.Muted("Search for movies and TV shows"))
	case s.ShowingHistory():
		lines = append(lines, p.Muted("Recent searches"))
		for i, q := range s.History {
			lines = append(lines, option(i, q))
		}
	case s.Err != nil:
		lines = append(lines, p.Error("Search failed."), p.Muted(s.Err.Error()))
	case s.Loading && len(s.Results) == 0:
		lines = append(lines, p.Muted("Searching..."))
	case len(s.Results) == 0:
		lines = append(lines, p.Muted(fmt.Sprintf("No results for %q", s.Query)))
	default:
		for i, item := range s.Results {
			text := fmt.Sprintf("%s (%s) · %s · ★ %s", shared.Truncate(item.DisplayTitle(), inner-30),
				shared.Year(item.DisplayDate()), item.Kind().Label(), shared.FormatRating(item.VoteAverage))
			lines = append(lines, option(i, text))
		}
	}
	lines = append(lines, "", p.Help("↑/↓ choose · enter open · esc close"))
	return p.panel.Width(inner).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
