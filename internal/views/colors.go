package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Themes selectable through the "theme" preference.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	Theme    string
	accent   lipgloss.Color
	title    lipgloss.Style
	subtitle lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	muted    lipgloss.Style
	active   lipgloss.Style
	badge    lipgloss.Style
	card     lipgloss.Style
	selected lipgloss.Style
	skeleton lipgloss.Style
	panel    lipgloss.Style
	toast    lipgloss.Style
}

var _ Painter = (*Palette)(nil)

// NewPalette builds the stylesheet for theme. Unknown themes fall back to dark.
func NewPalette(theme string) *Palette {
	switch theme {
	case ThemeLight:
		return newPalette(ThemeLight, "#B20710", "#1A7F37", "#CF222E", "#9A6700", "#57606A", "#D0D7DE")
	default:
		return newPalette(ThemeDark, "#E50914", "#04B575", "#FF5F56", "#FFA500", "#8A8A8A", "#3A3A3A")
	}
}

func newPalette(theme, accent, s, e, w, h, dim string) *Palette {
	a := lipgloss.Color(accent)
	return &Palette{
		Theme:    theme,
		accent:   a,
		title:    NewBold(accent).MarginBottom(1),
		subtitle: NewEm(h),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		muted:    NewStyle(h),
		active:   NewBold(accent).Underline(true),
		badge:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(a).Padding(0, 1),
		card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(dim)).Padding(0, 1),
		selected: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(a).Padding(0, 1),
		skeleton: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(dim)).Foreground(lipgloss.Color(dim)).Padding(0, 1),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(a).Padding(1, 2),
		toast:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(s)).Padding(0, 1),
	}
}

func (p *Palette) On(text string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(text)
}

func (p *Palette) As(text string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(text)
}

// Accent renders text in the theme's accent color.
func (p *Palette) Accent(text string) string { return p.As(text, p.accent) }

func (p *Palette) Title(text string) string    { return p.title.Render(text) }
func (p *Palette) Subtitle(text string) string { return p.subtitle.Render(text) }
func (p *Palette) OK(text string) string       { return p.ok.Render(text) }
func (p *Palette) Error(text string) string    { return p.err.Render(text) }
func (p *Palette) Warn(text string) string     { return p.warn.Render(text) }
func (p *Palette) Help(text string) string     { return p.help.Render(text) }
func (p *Palette) Muted(text string) string    { return p.muted.Render(text) }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
