package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// ModalCast is the number of cast members listed in the detail modal.
const ModalCast = 6

// Modal shows full details for one title.
//
// Seq identifies the load that produced Details; the owner drops responses for any other Seq.
type Modal struct {
	Item      models.MediaItem
	Details   *models.Details
	Saved     bool
	Loading   bool
	Err       error
	Seq       int
	PosterURL string
}

// Render draws the modal in a bordered panel.
func (m Modal) Render(p *Palette, width int) string {
	inner := max(30, min(width-8, 100))
	var body string
	switch {
	case m.Loading:
		body = p.Title(m.Item.DisplayTitle()) + "\n" + p.Muted("Loading details...")
	case m.Err != nil:
		body = p.Title(m.Item.DisplayTitle()) + "\n" + p.Error("Could not load details.") + "\n\n" +
			p.Muted(m.Err.Error()) + "\n\n" + p.Help("r retry · esc close")
	case m.Details == nil:
		body = p.Title(m.Item.DisplayTitle())
	default:
		body = m.renderDetails(p, inner)
	}
	return p.panel.Width(inner + 4).Render(body)
}

func (m Modal) renderDetails(p *Palette, width int) string {
	d := m.Details
	var b strings.Builder

	b.WriteString(p.Title(d.DisplayTitle()))
	if d.Tagline != "" {
		b.WriteString("\n" + p.Subtitle(d.Tagline))
	}

	meta := []string{d.Kind().Label(), shared.Year(d.DisplayDate())}
	if runtime := d.RuntimeMinutes(); runtime > 0 {
		meta = append(meta, shared.FormatRuntime(runtime))
	}
	if d.NumberOfSeasons > 0 {
		meta = append(meta, fmt.Sprintf("%d seasons", d.NumberOfSeasons))
	}
	meta = append(meta, "★ "+shared.FormatRating(d.VoteAverage))
	if d.VoteCount > 0 {
		meta = append(meta, shared.FormatNumber(int64(d.VoteCount))+" votes")
	}
	b.WriteString("\n" + p.Muted(strings.Join(meta, " · ")) + "\n")

	if genres := d.GenreNames(); len(genres) > 0 {
		b.WriteString("\n" + p.Accent(strings.Join(genres, " · ")) + "\n")
	}

	overview := d.Overview
	if overview == "" {
		overview = "No overview available."
	}
	b.WriteString("\n" + lipgloss.NewStyle().Width(width).Render(overview) + "\n")

	if cast := d.TopCast(ModalCast); len(cast) > 0 {
		names := make([]string, len(cast))
		for i, c := range cast {
			names[i] = c.Name
			if c.Character != "" {
				names[i] += p.Muted(" as " + c.Character)
			}
		}
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Cast") + "\n  " + strings.Join(names, "\n  ") + "\n")
	}
	if d.Credits != nil {
		if directors := d.Credits.Directors(); len(directors) > 0 {
			b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Director") + "  " + strings.Join(directors, ", ") + "\n")
		}
	}
	if m.PosterURL != "" {
		b.WriteString("\n" + p.Muted("Poster  "+m.PosterURL) + "\n")
	}

	status := p.Muted("+ Not in your list")
	if m.Saved {
		status = p.OK("✓ In your list")
	}
	b.WriteString("\n" + status + "\n" + p.Help("w toggle My List · o open on TMDB · esc close"))
	return b.String()
}
