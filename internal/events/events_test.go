package events

import (
	"slices"
	"testing"

	"github.com/desertthunder/flix/internal/models"
)

func TestBus(t *testing.T) {
	t.Run("Registration Order", func(t *testing.T) {
		bus := NewBus()
		var order []string

		Subscribe(bus, func(WatchlistChanged) { order = append(order, "badge") })
		Subscribe(bus, func(WatchlistChanged) { order = append(order, "toast") })
		Subscribe(bus, func(WatchlistChanged) { order = append(order, "page") })

		bus.Publish(WatchlistChanged{Added: true, Count: 1})

		if !slices.Equal(order, []string{"badge", "toast", "page"}) {
			t.Errorf("handlers ran in %v", order)
		}
	})

	t.Run("Typed Delivery", func(t *testing.T) {
		bus := NewBus()
		var watchlist, prefs int

		Subscribe(bus, func(e WatchlistChanged) { watchlist += e.Count })
		Subscribe(bus, func(PreferencesChanged) { prefs++ })

		bus.Publish(WatchlistChanged{Item: models.MediaItem{ID: 1}, Count: 3})
		bus.Publish(PreferencesChanged{Preferences: models.DefaultPreferences()})
		bus.Publish("unrelated")

		if watchlist != 3 || prefs != 1 {
			t.Errorf("watchlist=%d prefs=%d", watchlist, prefs)
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		bus := NewBus()
		calls := 0
		cancel := Subscribe(bus, func(WatchlistChanged) { calls++ })
		keep := 0
		Subscribe(bus, func(WatchlistChanged) { keep++ })

		bus.Publish(WatchlistChanged{})
		cancel()
		cancel()
		bus.Publish(WatchlistChanged{})

		if calls != 1 || keep != 2 {
			t.Errorf("calls=%d keep=%d", calls, keep)
		}
		if bus.Len() != 1 {
			t.Errorf("Len() = %d, want 1", bus.Len())
		}
	})

	t.Run("Cancel From Handler", func(t *testing.T) {
		bus := NewBus()
		calls := 0
		var cancel func()
		cancel = Subscribe(bus, func(WatchlistChanged) {
			calls++
			cancel()
		})

		bus.Publish(WatchlistChanged{})
		bus.Publish(WatchlistChanged{})

		if calls != 1 {
			t.Errorf("one-shot handler ran %d times", calls)
		}
	})

	t.Run("Nil Bus", func(t *testing.T) {
		var bus *Bus
		bus.Publish(WatchlistChanged{})
	})
}
