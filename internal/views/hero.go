package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

const (
	MaxHeroSlides       = 5
	DefaultHeroInterval = 5 * time.Second
)

// Hero is the rotating banner on the home page.
//
// Rotation is driven from outside: the owner schedules a tick carrying [Hero.Tag] and calls
// [Hero.Advance] when it fires. Manual navigation, pausing and resuming bump the tag so any tick
// already in flight is ignored, which also restarts the interval.
type Hero struct {
	slides []models.MediaItem
	index  int
	paused bool
	tag    int
}

// NewHero features the first n items; n outside 1..[MaxHeroSlides] uses the maximum.
func NewHero(items []models.MediaItem, n int) *Hero {
	if n <= 0 || n > MaxHeroSlides {
		n = MaxHeroSlides
	}
	return &Hero{slides: append([]models.MediaItem(nil), items[:min(n, len(items))]...)}
}

func (h *Hero) Len() int     { return len(h.slides) }
func (h *Hero) Index() int   { return h.index }
func (h *Hero) Tag() int     { return h.tag }
func (h *Hero) Paused() bool { return h.paused }

// Current is the slide on screen.
func (h *Hero) Current() (models.MediaItem, bool) {
	if len(h.slides) == 0 {
		return models.MediaItem{}, false
	}
	return h.slides[h.index], true
}

// Advance moves to the next slide for a timer tick. Ticks with an old tag, ticks while paused and
// heroes with fewer than two slides are ignored.
func (h *Hero) Advance(tag int) bool {
	if tag != h.tag || h.paused || len(h.slides) < 2 {
		return false
	}
	h.index = (h.index + 1) % len(h.slides)
	return true
}

// Reset invalidates any tick in flight so the interval starts over.
func (h *Hero) Reset() {
	h.tag++
}

// GoTo shows slide i and resets the timer. Out of range indexes are ignored.
func (h *Hero) GoTo(i int) bool {
	if i < 0 || i >= len(h.slides) {
		return false
	}
	h.index = i
	h.Reset()
	return true
}

func (h *Hero) Next() bool {
	if len(h.slides) == 0 {
		return false
	}
	return h.GoTo((h.index + 1) % len(h.slides))
}

func (h *Hero) Prev() bool {
	if len(h.slides) == 0 {
		return false
	}
	return h.GoTo((h.index - 1 + len(h.slides)) % len(h.slides))
}

// Pause stops rotation. It reports whether the state changed.
func (h *Hero) Pause() bool {
	if h.paused {
		return false
	}
	h.paused = true
	h.tag++
	return true
}

// Resume restarts rotation. It reports whether the state changed, in which case a new tick is due.
func (h *Hero) Resume() bool {
	if !h.paused {
		return false
	}
	h.paused = false
	h.tag++
	return true
}

// Render draws the current slide. saved marks it as in the watchlist; focused highlights the banner.
func (h *Hero) Render(p *Palette, width int, saved, focused bool) string {
	item, ok := h.Current()
	if !ok {
		return ""
	}

	inner := max(20, width-6)
	meta := []string{item.Kind().Label(), shared.Year(item.DisplayDate())}
	if rating := shared.FormatRating(item.VoteAverage); rating != shared.NotAvailable {
		meta = append(meta, "★ "+rating)
	}

	action := "enter details · w add to My List"
	if saved {
		action = "enter details · w ✓ In My List"
	}

	dots := make([]string, len(h.slides))
	for i := range h.slides {
		dots[i] = "○"
		if i == h.index {
			dots[i] = p.Accent("●")
		}
	}
	status := strings.Join(dots, " ")
	if h.paused {
		status += p.Muted("  ❚❚ paused")
	}

	body := strings.Join([]string{
		p.Title(strings.ToUpper(item.DisplayTitle())),
		p.Muted(strings.Join(meta, " · ")),
		"",
		lipgloss.NewStyle().Width(inner).Render(shared.Truncate(item.Overview, 240)),
		"",
		p.Help(action),
		status,
	}, "\n")

	style := p.card
	if focused {
		style = p.selected
	}
	return style.Width(max(22, width-2)).Padding(1, 2).Render(body)
}
