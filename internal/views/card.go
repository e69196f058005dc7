package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// CardWidth is the rendered width of a card including its border.
const CardWidth = 24

// DefaultSkeletons is the number of placeholder cards in a loading row.
const DefaultSkeletons = 10

const cardInner = CardWidth - 4

// Card is a poster-style summary of one title.
type Card struct {
	Item  models.MediaItem
	Saved bool
	Note  string // optional last line, replaces the list marker
}

func NewCard(item models.MediaItem, saved bool) Card {
	return Card{Item: item, Saved: saved}
}

func (c Card) lines(p *Palette) []string {
	meta := shared.Year(c.Item.DisplayDate())
	if rating := shared.FormatRating(c.Item.VoteAverage); rating != shared.NotAvailable {
		meta += " ★ " + rating
	}

	marker := p.Muted("+ My List")
	if c.Saved {
		marker = p.OK("✓ In My List")
	}
	if c.Note != "" {
		marker = p.Muted(shared.Truncate(c.Note, cardInner-len("...")))
	}

	return []string{
		lipgloss.NewStyle().Bold(true).Render(shared.Truncate(c.Item.DisplayTitle(), cardInner-len("..."))),
		p.Muted(c.Item.Kind().Label() + " · " + meta),
		marker,
	}
}

// Render draws the card, highlighted when selected.
func (c Card) Render(p *Palette, selected bool) string {
	style := p.card
	if selected {
		style = p.selected
	}
	return style.Width(CardWidth - 2).Render(strings.Join(c.lines(p), "\n"))
}

// Skeleton draws a placeholder card the same size as a real one.
func Skeleton(p *Palette) string {
	bar := strings.Repeat("░", cardInner)
	short := strings.Repeat("░", cardInner/2)
	return p.skeleton.Width(CardWidth - 2).Render(strings.Join([]string{bar, short, short}, "\n"))
}

// Row is a horizontally scrolling strip of cards.
//
// A row holds its loaded cards followed by skeleton slots, so a partially loaded row keeps its shape.
type Row struct {
	Title     string
	Cards     []Card
	Skeletons int
	Offset    int
	Selected  int
}

// NewRow builds a row from items, marking the ones saved reports as in the watchlist.
func NewRow(title string, items []models.MediaItem, saved func(models.MediaItem) bool) Row {
	cards := make([]Card, len(items))
	for i, item := range items {
		cards[i] = NewCard(item, saved != nil && saved(item))
	}
	return Row{Title: title, Cards: cards}
}

// LoadingRow is a row of n skeletons. n <= 0 uses [DefaultSkeletons].
func LoadingRow(title string, n int) Row {
	if n <= 0 {
		n = DefaultSkeletons
	}
	return Row{Title: title, Skeletons: n}
}

// Slots is the number of cards plus skeletons.
func (r Row) Slots() int {
	return len(r.Cards) + r.Skeletons
}

// PerPage is how many cards fit in width.
func PerPage(width int) int {
	return max(1, width/CardWidth)
}

// Visible is the number of slots drawn at width from the current offset.
func (r Row) Visible(width int) int {
	return max(0, min(PerPage(width), r.Slots()-r.Offset))
}

// SelectedItem returns the highlighted title, if the selection is on a loaded card.
func (r Row) SelectedItem() (models.MediaItem, bool) {
	if r.Selected < 0 || r.Selected >= len(r.Cards) {
		return models.MediaItem{}, false
	}
	return r.Cards[r.Selected].Item, true
}

// Select moves the highlight to i, clamped to the loaded cards, and scrolls so it is visible.
func (r *Row) Select(i, width int) {
	if len(r.Cards) == 0 {
		r.Selected, r.Offset = 0, 0
		return
	}
	r.Selected = shared.Clamp(i, 0, len(r.Cards)-1)
	per := PerPage(width)
	switch {
	case r.Selected < r.Offset:
		r.Offset = r.Selected
	case r.Selected >= r.Offset+per:
		r.Offset = r.Selected - per + 1
	}
}

// Scroll shifts the window by delta pages and keeps the selection inside it.
func (r *Row) Scroll(delta, width int) {
	per := PerPage(width)
	r.Offset = shared.Clamp(r.Offset+delta*per, 0, max(0, r.Slots()-per))
	if r.Selected < r.Offset || r.Selected >= r.Offset+per {
		r.Select(r.Offset, width)
	}
}

// Render draws the title and the visible window. focused highlights the selected card.
func (r Row) Render(p *Palette, width int, focused bool) string {
	title := r.Title
	if focused && title != "" {
		title = p.Accent("▸ " + title)
	}

	n := r.Visible(width)
	cells := make([]string, 0, n)
	for i := r.Offset; i < r.Offset+n; i++ {
		if i < len(r.Cards) {
			cells = append(cells, r.Cards[i].Render(p, focused && i == r.Selected))
			continue
		}
		cells = append(cells, Skeleton(p))
	}

	var more string
	if r.Offset+n < r.Slots() {
		more = p.Muted(fmt.Sprintf(" %d more ›", r.Slots()-r.Offset-n))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if title == "" {
		return strip
	}
	return lipgloss.NewStyle().Bold(true).Render(title) + more + "\n" + strip
}
