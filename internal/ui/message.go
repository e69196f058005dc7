package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/pages"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/tasks"
	"github.com/desertthunder/flix/internal/views"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgDetailsLoaded
	MsgSearchDebounce
	MsgSearchResults
	MsgHeroTick
	MsgToastExpired
	MsgNavbarCollapse
	MsgBrowserOpened
	MsgProgressUpdate
	MsgRefreshComplete
)

type detailsResult struct {
	seq     int
	details *models.Details
	err     error
}

type searchResult struct {
	tag   int
	query string
	items []models.MediaItem
	err   error
}

type heroTick struct {
	hero *views.Hero
	tag  int
}

type refreshResult struct {
	result *tasks.RefreshResult
	err    error
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(res router.Result[pages.Content]) Msg {
	return Msg{kind: MsgPageLoaded, data: res}
}

// detailsLoadedMsg is the constructor for [MsgDetailsLoaded]
func detailsLoadedMsg(seq int, details *models.Details, err error) Msg {
	return Msg{kind: MsgDetailsLoaded, data: detailsResult{seq, details, err}}
}

// searchDebounceMsg is the constructor for [MsgSearchDebounce]
func searchDebounceMsg(tag int) Msg {
	return Msg{kind: MsgSearchDebounce, data: tag}
}

// searchResultsMsg is the constructor for [MsgSearchResults]
func searchResultsMsg(tag int, query string, items []models.MediaItem, err error) Msg {
	return Msg{kind: MsgSearchResults, data: searchResult{tag, query, items, err}}
}

// heroTickMsg is the constructor for [MsgHeroTick]
func heroTickMsg(hero *views.Hero, tag int) Msg {
	return Msg{kind: MsgHeroTick, data: heroTick{hero, tag}}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(tag int) Msg {
	return Msg{kind: MsgToastExpired, data: tag}
}

// navbarCollapseMsg is the constructor for [MsgNavbarCollapse]
func navbarCollapseMsg(tag int) Msg {
	return Msg{kind: MsgNavbarCollapse, data: tag}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// refreshCompleteMsg is the constructor for [MsgRefreshComplete]
func refreshCompleteMsg(result *tasks.RefreshResult, err error) Msg {
	return Msg{kind: MsgRefreshComplete, data: refreshResult{result, err}}
}
