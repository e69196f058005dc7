package ui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/pages"
	"github.com/desertthunder/flix/internal/repositories"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	th "github.com/desertthunder/flix/internal/testing"
	"github.com/desertthunder/flix/internal/views"
)

type harness struct {
	m       *Model
	store   *storage.Adapter
	catalog *th.MockCatalog
	router  *router.Router[pages.Content]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(&bytes.Buffer{})
	bus := events.NewBus()
	store := storage.New(repositories.NewMemoryStore(), storage.Options{Bus: bus, Logger: logger})

	search := append([]models.MediaItem{{ID: 99, MediaType: models.KindPerson, Name: "Some Actor"}}, th.Items(700, 3, models.KindMovie)...)
	catalog := th.NewMockCatalog(map[string]*models.Page{
		"trending":     th.PageOf(th.Items(1, 6, models.KindMovie)),
		"now_playing":  th.PageOf(th.Items(100, 4, models.KindMovie)),
		"popular/tv":   th.PageOf(th.Items(400, 4, models.KindTV)),
		"top_rated/tv": th.PageOf(th.Items(500, 4, models.KindTV)),
		"search":       th.PageOf(search),
	})

	r := router.New[pages.Content](logger)
	pages.New(catalog, store, 0, logger).Register(r)

	m := NewModel(context.Background(), Options{
		Router:  r,
		Store:   store,
		Catalog: catalog,
		Bus:     bus,
		Config: shared.UIConfig{
			HeroInterval:   shared.Duration{Duration: 20 * time.Millisecond},
			SearchDebounce: shared.Duration{Duration: 10 * time.Millisecond},
		},
		Logger: logger,
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	t.Cleanup(m.Close)
	return &harness{m: m, store: store, catalog: catalog, router: r}
}

// drain runs cmd and returns the app messages it produces, skipping commands that block past a short
// deadline (toast expiry, cursor blink).
func drain(cmd tea.Cmd) []Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case tea.BatchMsg:
			var out []Msg
			for _, c := range msg {
				out = append(out, drain(c)...)
			}
			return out
		case Msg:
			return []Msg{msg}
		}
	case <-time.After(250 * time.Millisecond):
	}
	return nil
}

func find(t *testing.T, msgs []Msg, kind MsgKind) Msg {
	t.Helper()
	for _, msg := range msgs {
		if msg.kind == kind {
			return msg
		}
	}
	t.Fatalf("no message of kind %d in %d messages", kind, len(msgs))
	return Msg{}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmds []tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "pgup":
			msg = tea.KeyMsg{Type: tea.KeyPgUp}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// load renders the initial route and applies the result.
func (h *harness) load(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	_, next := h.m.Update(find(t, drain(cmd), MsgPageLoaded))
	return next
}

func TestNavigation(t *testing.T) {
	t.Run("Initial Route", func(t *testing.T) {
		h := newHarness(t)
		h.m.route = "#/series"
		h.load(t, h.m.Init())

		if h.router.Current() != router.SeriesPath || h.router.Loading() {
			t.Fatalf("current = %s loading = %v", h.router.Current(), h.router.Loading())
		}
		if len(h.m.rows) != 2 || h.m.hero != nil {
			t.Errorf("series page: rows=%d hero=%v", len(h.m.rows), h.m.hero != nil)
		}
		if !strings.Contains(h.m.View(), "Popular TV Shows") {
			t.Error("view should render the series rows")
		}
	})

	t.Run("Home Hero", func(t *testing.T) {
		h := newHarness(t)
		h.load(t, h.m.Init())

		if h.m.hero == nil || h.m.hero.Len() != views.MaxHeroSlides {
			t.Fatalf("hero = %+v", h.m.hero)
		}
		if h.m.focus != 1 {
			t.Errorf("initial focus should be the first row, got %d", h.m.focus)
		}
		if h.m.hero.Paused() {
			t.Error("hero should rotate until it is focused or hovered")
		}
	})

	t.Run("Stale Page Discarded", func(t *testing.T) {
		h := newHarness(t)
		movies := h.m.navigate("#/movies")
		series := h.m.navigate("#/series")

		h.m.Update(find(t, drain(movies), MsgPageLoaded))
		if !h.router.Loading() || h.m.content.Path != "" {
			t.Fatalf("stale movies page was applied: %+v", h.m.content.Path)
		}

		h.load(t, series)
		if h.m.content.Path != router.SeriesPath {
			t.Errorf("content = %s", h.m.content.Path)
		}
	})

	t.Run("Tabs", func(t *testing.T) {
		h := newHarness(t)
		h.load(t, h.m.Init())

		h.load(t, press(h.m, "4"))
		if h.router.Current() != router.WatchlistPath {
			t.Errorf("4 should open My List, got %s", h.router.Current())
		}
		h.load(t, press(h.m, "tab"))
		if h.router.Current() != router.HomePath {
			t.Errorf("tab should wrap to home, got %s", h.router.Current())
		}
	})

	t.Run("Row Paging", func(t *testing.T) {
		h := newHarness(t)
		h.catalog.Pages["now_playing"] = th.PageOf(th.Items(100, 12, models.KindMovie))
		h.load(t, h.m.Init())
		row := h.m.focusedRow()
		if row == nil || row.Slots() != 12 {
			t.Fatalf("focused row = %+v", row)
		}

		steps := []struct {
			key              string
			offset, selected int
		}{
			{"pgdown", 5, 5},
			{"pgdown", 7, 7},
			{"pgup", 2, 2},
			{"<", 0, 2},
		}
		for _, step := range steps {
			press(h.m, step.key)
			if row.Offset != step.offset || row.Selected != step.selected {
				t.Errorf("after %s: offset=%d selected=%d, want %d/%d", step.key, row.Offset, row.Selected, step.offset, step.selected)
			}
		}
	})

	t.Run("Missing Credentials Panel", func(t *testing.T) {
		h := newHarness(t)
		h.catalog.Err = fmt.Errorf("%w: no api key", shared.ErrMissingCredentials)
		h.load(t, h.m.Init())

		if view := h.m.View(); !strings.Contains(view, "TMDB API key required") {
			t.Errorf("expected setup panel, got:\n%s", view)
		}

		h.catalog.Err = nil
		h.load(t, press(h.m, "r"))
		if h.m.err != nil || len(h.m.rows) == 0 {
			t.Error("retry should re-render the page")
		}
	})
}

func TestWatchlistEvents(t *testing.T) {
	h := newHarness(t)
	h.load(t, h.m.Init())

	press(h.m, "w")
	if h.m.badge != 1 || h.store.Count() != 1 {
		t.Fatalf("badge = %d count = %d", h.m.badge, h.store.Count())
	}
	if h.m.toast.Message != views.ToastAdded {
		t.Errorf("toast = %q", h.m.toast.Message)
	}
	if !h.m.rows[0].Cards[0].Saved {
		t.Error("card should be marked saved")
	}
	if !strings.Contains(h.m.View(), "4 My List  1") {
		t.Error("badge should render in the navbar")
	}

	press(h.m, "w")
	if h.m.badge != 0 || h.m.toast.Message != views.ToastRemoved || h.m.rows[0].Cards[0].Saved {
		t.Errorf("after second toggle: badge=%d toast=%q", h.m.badge, h.m.toast.Message)
	}

	h.m.Close()
	h.store.Add(th.Items(1, 1, models.KindMovie)[0])
	if h.m.badge != 0 {
		t.Error("closed model should not receive events")
	}
}

func TestHeroTimer(t *testing.T) {
	h := newHarness(t)
	h.load(t, h.m.Init())
	hero := h.m.hero

	t.Run("Tick Advances", func(t *testing.T) {
		_, cmd := h.m.Update(heroTickMsg(hero, hero.Tag()))
		if hero.Index() != 1 || cmd == nil {
			t.Errorf("index = %d, next tick scheduled = %v", hero.Index(), cmd != nil)
		}
	})

	t.Run("Manual Navigation Invalidates Tick", func(t *testing.T) {
		stale := hero.Tag()
		press(h.m, "]")
		at := hero.Index()

		_, cmd := h.m.Update(heroTickMsg(hero, stale))
		if hero.Index() != at || cmd != nil {
			t.Error("tick armed before ] should be ignored")
		}
	})

	t.Run("Replaced Hero Ignored", func(t *testing.T) {
		other := views.NewHero(th.Items(1, 3, models.KindMovie), 0)
		at := hero.Index()
		h.m.Update(heroTickMsg(other, other.Tag()))
		if hero.Index() != at || other.Index() != 0 {
			t.Error("ticks from a torn down hero must not rotate anything")
		}
	})

	t.Run("Focus Pauses", func(t *testing.T) {
		press(h.m, "up")
		if !hero.Paused() {
			t.Fatal("focusing the hero should pause it")
		}
		_, cmd := h.m.Update(heroTickMsg(hero, hero.Tag()))
		if cmd != nil {
			t.Error("paused hero should not reschedule")
		}
		press(h.m, "down")
		if hero.Paused() {
			t.Error("leaving the hero should resume it")
		}
	})

	t.Run("Hover Pauses", func(t *testing.T) {
		h.m.Update(tea.MouseMsg{X: 10, Y: headerHeight + 1, Action: tea.MouseActionMotion})
		if !hero.Paused() {
			t.Fatal("pointer over the hero should pause it")
		}
		_, cmd := h.m.Update(tea.MouseMsg{X: 10, Y: 59, Action: tea.MouseActionMotion})
		if hero.Paused() || cmd == nil {
			t.Error("pointer leaving should resume and rearm the timer")
		}
	})

	t.Run("Autoplay Off", func(t *testing.T) {
		h.store.SetPreference("autoplay", false)
		at := hero.Index()
		h.m.Update(heroTickMsg(hero, hero.Tag()))
		if hero.Index() != at {
			t.Error("autoplay off should stop rotation")
		}
	})
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.load(t, h.m.Init())

	press(h.m, "/")
	if !h.m.searching {
		t.Fatal("/ should open search")
	}
	press(h.m, "m", "o")
	if h.m.search.Query != "mo" || !h.m.search.Loading {
		t.Fatalf("query = %q loading = %v", h.m.search.Query, h.m.search.Loading)
	}

	if _, cmd := h.m.Update(searchDebounceMsg(h.m.searchTag - 1)); cmd != nil {
		t.Error("superseded debounce tick should be ignored")
	}
	if calls := h.catalog.Calls(); strings.Contains(strings.Join(calls, ","), "search") {
		t.Error("no request before the debounce fires")
	}

	_, cmd := h.m.Update(searchDebounceMsg(h.m.searchTag))
	h.m.Update(find(t, drain(cmd), MsgSearchResults))
	if len(h.m.search.Results) != 3 {
		t.Fatalf("results = %d, want people filtered out", len(h.m.search.Results))
	}

	cmd = press(h.m, "down", "enter")
	if h.m.searching || h.m.modal == nil || h.m.modal.Item.ID != 701 {
		t.Fatalf("enter should open the selected result: modal=%+v", h.m.modal)
	}
	if history := h.store.SearchHistory(); len(history) != 1 || history[0] != "mo" {
		t.Errorf("history = %v", history)
	}
	drain(cmd)

	press(h.m, "esc", "/")
	if !h.m.search.ShowingHistory() || len(h.m.search.History) != 1 {
		t.Error("empty query should list recent searches")
	}
}

func TestModal(t *testing.T) {
	h := newHarness(t)
	h.load(t, h.m.Init())
	h.catalog.Records["details/movie/100"] = &models.Details{MediaItem: th.Items(100, 1, models.KindMovie)[0], Runtime: 95}

	first := press(h.m, "enter")
	firstSeq := h.m.modal.Seq
	press(h.m, "esc", "right")
	second := press(h.m, "enter")

	h.m.Update(find(t, drain(first), MsgDetailsLoaded))
	if h.m.modal.Details != nil || !h.m.modal.Loading {
		t.Fatalf("details for modal %d leaked into modal %d", firstSeq, h.m.modal.Seq)
	}

	h.m.Update(find(t, drain(second), MsgDetailsLoaded))
	if h.m.modal.Err == nil {
		t.Fatal("unknown title should surface an error")
	}
	if !strings.Contains(h.m.View(), "retry") {
		t.Error("modal error should offer a retry")
	}

	press(h.m, "w")
	if !h.m.modal.Saved || h.m.badge != 1 {
		t.Error("w inside the modal should toggle My List")
	}
}

func TestWatchlistPage(t *testing.T) {
	h := newHarness(t)
	for _, item := range th.Items(1, 3, models.KindMovie) {
		h.store.Add(item)
	}
	h.m.route = "#/watchlist"
	h.load(t, h.m.Init())

	if len(h.m.content.Watchlist) != 3 || !strings.Contains(h.m.View(), "3 titles") {
		t.Fatalf("watchlist = %d", len(h.m.content.Watchlist))
	}

	press(h.m, "c")
	if !h.m.confirmClear {
		t.Fatal("c should ask for confirmation")
	}
	press(h.m, "n")
	if h.m.confirmClear || h.store.Count() != 3 {
		t.Fatal("n should cancel")
	}

	press(h.m, "c")
	cmd := press(h.m, "y")
	if h.store.Count() != 0 || h.m.toast.Message != views.ToastCleared || h.m.badge != 0 {
		t.Errorf("count=%d toast=%q badge=%d", h.store.Count(), h.m.toast.Message, h.m.badge)
	}
	h.m.Update(find(t, drain(cmd), MsgPageLoaded))
	if !strings.Contains(h.m.View(), "Your list is empty") {
		t.Error("cleared list should render the empty state")
	}
}

func TestTimersIgnoreStaleTags(t *testing.T) {
	h := newHarness(t)
	h.m.showToast("one")
	stale := h.m.toast.Tag
	h.m.showToast("two")

	h.m.Update(toastExpiredMsg(stale))
	if h.m.toast.Message != "two" {
		t.Error("expiry of a replaced toast must not hide the new one")
	}
	h.m.Update(toastExpiredMsg(h.m.toast.Tag))
	if h.m.toast.Message != "" {
		t.Error("toast should expire")
	}

	h.m.setScroll(2)
	old := h.m.collapseTag
	h.m.setScroll(3)
	h.m.Update(navbarCollapseMsg(old))
	if h.m.collapsed {
		t.Error("superseded collapse tick should be ignored")
	}
	h.m.Update(navbarCollapseMsg(h.m.collapseTag))
	if !h.m.collapsed {
		t.Error("navbar should collapse once scrolled")
	}
}
