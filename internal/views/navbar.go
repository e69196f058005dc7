package views

import (
	"fmt"
	"strings"

	"github.com/desertthunder/flix/internal/router"
)

// BadgeText is the watchlist count label: empty at zero, "99+" above 99.
func BadgeText(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 99:
		return "99+"
	}
	return fmt.Sprintf("%d", n)
}

// Navbar is the top bar with route tabs and the watchlist badge.
type Navbar struct {
	Routes    []router.Route
	Active    string
	Count     int
	Collapsed bool
}

func (n Navbar) Render(p *Palette, width int) string {
	brand := p.Accent("FLIX")
	badge := ""
	if text := BadgeText(n.Count); text != "" {
		badge = " " + p.badge.Render(text)
	}

	if n.Collapsed {
		for _, r := range n.Routes {
			if r.Path == n.Active {
				return brand + "  " + p.active.Render(r.Label) + badge
			}
		}
		return brand + badge
	}

	tabs := make([]string, 0, len(n.Routes))
	for i, r := range n.Routes {
		label := fmt.Sprintf("%d %s", i+1, r.Label)
		if r.Path == n.Active {
			label = p.active.Render(label)
		} else {
			label = p.Muted(label)
		}
		if r.Path == router.WatchlistPath {
			label += badge
		}
		tabs = append(tabs, label)
	}
	bar := brand + "   " + strings.Join(tabs, "   ")
	return bar + "   " + p.Help("/ search")
}
