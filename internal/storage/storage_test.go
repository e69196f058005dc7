package storage

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/repositories"
)

var (
	inception   = models.MediaItem{ID: 27205, MediaType: models.KindMovie, Title: "Inception", ReleaseDate: "2010-07-16"}
	breakingBad = models.MediaItem{ID: 1396, MediaType: models.KindTV, Name: "Breaking Bad", FirstAirDate: "2008-01-20"}
	sameIDMovie = models.MediaItem{ID: 1396, MediaType: models.KindMovie, Title: "Not Breaking Bad"}
)

func newTestAdapter(t *testing.T) (*Adapter, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	a := New(repositories.NewMemoryStore(), Options{Bus: bus, Logger: log.New(&bytes.Buffer{})})

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return a, bus
}

// failingStore returns an error from every call.
type failingStore struct{}

func (failingStore) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk on fire") }
func (failingStore) Set(string, []byte) error         { return errors.New("disk on fire") }
func (failingStore) Delete(string) error              { return errors.New("disk on fire") }
func (failingStore) Keys() ([]string, error)          { return nil, errors.New("disk on fire") }
func (failingStore) Close() error                     { return nil }

func TestWatchlist(t *testing.T) {
	t.Run("Add Prepends", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(inception)
		a.Add(breakingBad)

		list := a.Watchlist()
		if len(list) != 2 || list[0].ID != breakingBad.ID {
			t.Fatalf("expected newest first, got %+v", list)
		}
		if !list[0].AddedAt.After(list[1].AddedAt) {
			t.Error("AddedAt should increase with each add")
		}
		if a.Add(inception) {
			t.Error("adding a saved item should report false")
		}
		if a.Count() != 2 {
			t.Errorf("Count() = %d, want 2", a.Count())
		}
	})

	t.Run("Identity Includes Kind", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(breakingBad)
		if a.Contains(sameIDMovie) {
			t.Error("movie with the series' id should not be considered saved")
		}
		a.Add(sameIDMovie)
		if a.Count() != 2 {
			t.Errorf("Count() = %d, want 2", a.Count())
		}
	})

	t.Run("Add Then Remove Restores", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(inception)
		before := a.Watchlist()

		a.Add(breakingBad)
		a.Remove(breakingBad)

		after := a.Watchlist()
		if len(before) != len(after) || before[0].Key() != after[0].Key() || !before[0].AddedAt.Equal(after[0].AddedAt) {
			t.Errorf("watchlist changed: before=%+v after=%+v", before, after)
		}
		if a.Remove(breakingBad) {
			t.Error("removing a missing item should report false")
		}
	})

	t.Run("Toggle", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		if !a.Toggle(inception) {
			t.Error("toggling an absent item should return true")
		}
		if !a.Contains(inception) {
			t.Error("item should be present after toggle-add")
		}
		if a.Toggle(inception) {
			t.Error("toggling a present item should return false")
		}
		if a.Contains(inception) {
			t.Error("item should be absent after toggle-remove")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(inception)
		a.Add(breakingBad)
		a.ClearWatchlist()
		if a.Count() != 0 {
			t.Errorf("Count() = %d after clear", a.Count())
		}
	})

	t.Run("Refresh Keeps AddedAt", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(inception)
		added := a.Watchlist()[0].AddedAt

		updated := inception
		updated.VoteAverage = 8.8
		updated.MediaType = ""
		if !a.Refresh(updated) {
			t.Fatal("Refresh() = false for saved item")
		}

		got := a.Watchlist()[0]
		if got.VoteAverage != 8.8 || !got.AddedAt.Equal(added) || got.MediaType != models.KindMovie {
			t.Errorf("Refresh() stored %+v", got)
		}
		if a.Refresh(breakingBad) {
			t.Error("Refresh() of unsaved item should report false")
		}
	})
}

func TestWatchlistEvents(t *testing.T) {
	a, bus := newTestAdapter(t)
	var got []events.WatchlistChanged
	events.Subscribe(bus, func(e events.WatchlistChanged) { got = append(got, e) })

	a.Toggle(inception)
	a.Toggle(breakingBad)
	a.Toggle(inception)
	a.Add(breakingBad)
	a.ClearWatchlist()

	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(got), got)
	}
	if !got[0].Added || got[0].Count != 1 || got[0].Item.ID != inception.ID {
		t.Errorf("first event = %+v", got[0])
	}
	if got[2].Added || got[2].Count != 1 {
		t.Errorf("remove event = %+v", got[2])
	}
	if !got[3].Cleared {
		t.Errorf("clear event = %+v", got[3])
	}
}

func TestSearchHistory(t *testing.T) {
	t.Run("Dedupe And Order", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		for _, q := range []string{"dune", "Alien", "  DUNE  ", "", "   "} {
			a.RecordSearch(q)
		}

		if got := a.SearchHistory(); !slices.Equal(got, []string{"DUNE", "Alien"}) {
			t.Errorf("SearchHistory() = %v", got)
		}
	})

	t.Run("Cap", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		for i := range 25 {
			a.RecordSearch(fmt.Sprintf("query %d", i))
			a.RecordSearch(fmt.Sprintf("QUERY %d", i/2))
		}

		history := a.SearchHistory()
		if len(history) > a.HistoryLimit() {
			t.Errorf("history has %d entries, cap is %d", len(history), a.HistoryLimit())
		}
		seen := map[string]bool{}
		for _, q := range history {
			if seen[strings.ToLower(q)] {
				t.Errorf("duplicate entry %q", q)
			}
			seen[strings.ToLower(q)] = true
		}
	})

	t.Run("Custom Limit", func(t *testing.T) {
		a := New(repositories.NewMemoryStore(), Options{HistoryLimit: 2, Logger: log.New(&bytes.Buffer{})})
		a.RecordSearch("a")
		a.RecordSearch("b")
		a.RecordSearch("c")
		if got := a.SearchHistory(); !slices.Equal(got, []string{"c", "b"}) {
			t.Errorf("SearchHistory() = %v", got)
		}
	})

	t.Run("Lowered Limit Applies On Read", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		wide := New(store, Options{HistoryLimit: 10, Logger: log.New(&bytes.Buffer{})})
		for i := range 10 {
			wide.RecordSearch(fmt.Sprintf("query %d", i))
		}

		narrow := New(store, Options{HistoryLimit: 3, Logger: log.New(&bytes.Buffer{})})
		want := []string{"query 9", "query 8", "query 7"}
		if got := narrow.SearchHistory(); !slices.Equal(got, want) {
			t.Errorf("SearchHistory() = %v, want %v", got, want)
		}
	})

	t.Run("Stored Duplicates Collapse On Read", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		store.Set(KeySearchHistory, []byte(`["Dune","dune","Alien","DUNE"]`))
		a := New(store, Options{Logger: log.New(&bytes.Buffer{})})

		if got := a.SearchHistory(); !slices.Equal(got, []string{"Dune", "Alien"}) {
			t.Errorf("SearchHistory() = %v", got)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.RecordSearch("a")
		a.ClearSearchHistory()
		if len(a.SearchHistory()) != 0 {
			t.Error("history should be empty after clear")
		}
	})
}

func TestPreferences(t *testing.T) {
	a, bus := newTestAdapter(t)
	var changes int
	events.Subscribe(bus, func(events.PreferencesChanged) { changes++ })

	if a.Preference("theme") != "dark" || a.Preference("language") != "en" {
		t.Errorf("defaults not applied: %v", a.Preferences())
	}

	a.SetPreference("theme", "light")
	a.SavePreferences(models.Preferences{"autoplay": false})

	prefs := a.Preferences()
	if prefs.String("theme", "") != "light" || prefs.Bool("autoplay", true) || prefs.String("quality", "") != "auto" {
		t.Errorf("Preferences() = %v", prefs)
	}
	if changes != 2 {
		t.Errorf("expected 2 change events, got %d", changes)
	}
}

func TestSilentFailures(t *testing.T) {
	var buf bytes.Buffer
	a := New(failingStore{}, Options{Logger: log.New(&buf)})

	if a.Add(inception) {
		t.Error("Add() should report false when the store fails")
	}
	if got := a.Watchlist(); got == nil || len(got) != 0 {
		t.Errorf("Watchlist() = %v, want empty", got)
	}
	if a.Toggle(inception) {
		t.Error("Toggle() should report absent when the store fails")
	}
	a.RecordSearch("dune")
	if len(a.SearchHistory()) != 0 {
		t.Error("history should be empty")
	}
	if a.Preferences().String("theme", "") != "dark" {
		t.Error("defaults should survive a failing store")
	}
	if a.Available() {
		t.Error("Available() should be false")
	}
	if !strings.Contains(buf.String(), "disk on fire") {
		t.Error("failures should be logged")
	}
}

func TestCorruptValue(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.Set(KeyWatchlist, []byte("{not json"))
	a := New(store, Options{Logger: log.New(&bytes.Buffer{})})

	if a.Count() != 0 {
		t.Errorf("corrupt watchlist should read as empty, got %d", a.Count())
	}
	if !a.Add(inception) || a.Count() != 1 {
		t.Error("Add() should overwrite a corrupt value")
	}
}

func TestSetLogger(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.Set(KeyWatchlist, []byte("{not json"))
	first, second := &bytes.Buffer{}, &bytes.Buffer{}
	a := New(store, Options{Logger: log.New(first)})

	a.SetLogger(log.New(second))
	a.Count()

	if first.Len() != 0 {
		t.Errorf("original logger should be unused, got %q", first.String())
	}
	if !strings.Contains(second.String(), "discarding unreadable value") {
		t.Errorf("replacement logger missing error, got %q", second.String())
	}
}
