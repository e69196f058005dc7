// package events is a typed publish/subscribe bus for cross-component notifications.
//
// Handlers run synchronously on the publishing goroutine in the order they subscribed.
package events

import (
	"sync"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// WatchlistChanged is published after every watchlist mutation has been persisted.
type WatchlistChanged struct {
	Item    models.MediaItem // zero when Cleared
	Added   bool
	Cleared bool
	Count   int // watchlist size after the change
}

// PreferencesChanged is published after preferences are saved.
type PreferencesChanged struct {
	Preferences models.Preferences
}

type subscription struct {
	id     string
	handle func(any)
}

// Bus fans events out to subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of type E and returns a function that removes it.
func Subscribe[E any](b *Bus, fn func(E)) (cancel func()) {
	id := shared.GenerateID()
	handle := func(ev any) {
		if e, ok := ev.(E); ok {
			fn(e)
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, handle: handle})
	b.mu.Unlock()

	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers ev to every subscriber of its type.
//
// The subscriber list is snapshotted first, so handlers may subscribe or cancel without deadlocking.
// A nil Bus drops the event.
func (b *Bus) Publish(ev any) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handle(ev)
	}
}

// Len reports the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
