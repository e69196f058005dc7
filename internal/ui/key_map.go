package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	pageLeft  key.Binding
	pageRight key.Binding
	enter     key.Binding
	back      key.Binding
	search    key.Binding
	nextTab   key.Binding
	tabs      []key.Binding
	heroPrev  key.Binding
	heroNext  key.Binding
	toggle    key.Binding
	open      key.Binding
	retry     key.Binding
	clear     key.Binding
	refresh   key.Binding
	browse    key.Binding
	theme     key.Binding
	autoplay  key.Binding
	yes       key.Binding
	no        key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		pageLeft:  key.NewBinding(key.WithKeys("pgup", "<"), key.WithHelp("pgup/<", "scroll row left")),
		pageRight: key.NewBinding(key.WithKeys("pgdown", ">"), key.WithHelp("pgdn/>", "scroll row right")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		nextTab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		heroPrev:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev slide")),
		heroNext:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next slide")),
		toggle:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "my list")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open on tmdb")),
		retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear list")),
		refresh:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh list")),
		browse:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse")),
		theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		autoplay:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoplay")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		tabs: []key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "home")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "movies")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "series")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "my list")),
		},
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.search, k.nextTab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.pageLeft, k.pageRight, k.enter},
		{k.search, k.nextTab, k.heroPrev, k.heroNext},
		{k.toggle, k.open, k.retry, k.back},
		{k.clear, k.refresh, k.theme, k.autoplay, k.quit},
	}
}
