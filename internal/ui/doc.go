// Package ui implements an interactive terminal catalog browser using bubbletea's Elm architecture.
//
// The screen is a navbar over one content area that the [router.Router] fills with a page:
//  1. Home: a rotating hero of trending titles above movie and TV rows
//  2. Movies and Series: rows of titles by list
//  3. My List: the saved watchlist with clear and refresh actions
//
// Search and the detail modal are overlays on top of the current page.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every timer (hero rotation, search debounce, navbar collapse, toast expiry) carries a tag owned by one
// component and is ignored once that tag has moved on. Watchlist changes arrive from the [events.Bus].
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
