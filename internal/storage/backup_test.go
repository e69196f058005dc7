package storage

import (
	"errors"
	"testing"

	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

func TestExportImport(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			src, _ := newTestAdapter(t)
			src.Add(inception)
			src.Add(breakingBad)
			src.SetPreference("theme", "light")
			src.RecordSearch("dune")

			data, err := EncodeSnapshot(src.Export(), format)
			if err != nil {
				t.Fatalf("EncodeSnapshot() error = %v", err)
			}

			snapshot, err := DecodeSnapshot(data, format)
			if err != nil {
				t.Fatalf("DecodeSnapshot() error = %v", err)
			}

			dst, bus := newTestAdapter(t)
			var count = -1
			events.Subscribe(bus, func(e events.WatchlistChanged) { count = e.Count })
			dst.Import(snapshot)

			list := dst.Watchlist()
			if len(list) != 2 || list[0].Key() != breakingBad.Key() || list[1].DisplayTitle() != "Inception" {
				t.Errorf("imported watchlist = %+v", list)
			}
			if dst.Preferences().String("theme", "") != "light" {
				t.Error("preferences not imported")
			}
			if h := dst.SearchHistory(); len(h) != 1 || h[0] != "dune" {
				t.Errorf("history = %v", h)
			}
			if count != 2 {
				t.Errorf("badge subscribers saw count %d, want 2", count)
			}
		})
	}

	t.Run("Dedupes Imported Watchlist", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		entry := models.WatchlistEntry{MediaItem: inception}
		a.Import(Snapshot{Watchlist: []models.WatchlistEntry{entry, entry}})
		if a.Count() != 1 {
			t.Errorf("Count() = %d, want 1", a.Count())
		}
	})

	t.Run("Partial Snapshot Leaves Other Keys", func(t *testing.T) {
		a, _ := newTestAdapter(t)
		a.Add(inception)
		a.Import(Snapshot{SearchHistory: []string{"alien"}})
		if a.Count() != 1 {
			t.Error("watchlist should be untouched")
		}
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		if _, err := EncodeSnapshot(Snapshot{}, "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("EncodeSnapshot() error = %v", err)
		}
		if _, err := DecodeSnapshot([]byte("{"), "json"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("DecodeSnapshot() error = %v", err)
		}
	})
}

func TestMaintenance(t *testing.T) {
	a, _ := newTestAdapter(t)
	if !a.Available() {
		t.Fatal("memory store should be available")
	}
	if a.Size() != 0 {
		t.Errorf("Size() = %v on empty store", a.Size())
	}

	a.Add(inception)
	a.RecordSearch("dune")
	if a.Size() <= 0 {
		t.Error("Size() should grow after writes")
	}

	a.ClearAll()
	if a.Count() != 0 || len(a.SearchHistory()) != 0 || a.Size() != 0 {
		t.Error("ClearAll() left data behind")
	}
}
