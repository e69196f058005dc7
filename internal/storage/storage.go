// package storage manages the watchlist, preferences and search history on top of a [models.KeyValueStore].
//
// Every operation is synchronous and never returns an error: read and write failures are logged and
// the caller gets an empty or default value.
package storage

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/goccy/go-json"
)

// Namespaced keys in the backing store.
const (
	KeyWatchlist     = "flix_watchlist"
	KeyPreferences   = "flix_preferences"
	KeySearchHistory = "flix_search_history"
)

// DefaultHistoryLimit caps the search history when no limit is configured.
const DefaultHistoryLimit = 10

const probeKey = "flix_storage_probe"

// Adapter is the typed facade over the key-value store.
type Adapter struct {
	mu           sync.Mutex
	store        models.KeyValueStore
	bus          *events.Bus
	logger       *log.Logger
	historyLimit int
	now          func() time.Time
}

// Options configures an [Adapter]. Zero values pick defaults.
type Options struct {
	Bus          *events.Bus
	Logger       *log.Logger
	HistoryLimit int
}

// New creates an [Adapter]. Watchlist mutations are announced on opts.Bus when set.
func New(store models.KeyValueStore, opts Options) *Adapter {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	return &Adapter{
		store:        store,
		bus:          opts.Bus,
		logger:       opts.Logger.WithPrefix("storage"),
		historyLimit: opts.HistoryLimit,
		now:          time.Now,
	}
}

// SetLogger replaces the logger used to report storage failures.
func (a *Adapter) SetLogger(logger *log.Logger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logger = logger.WithPrefix("storage")
}

// read decodes the value at key into v, reporting whether a usable value was found.
func (a *Adapter) read(key string, v any) bool {
	data, found, err := a.store.Get(key)
	if err != nil {
		a.logger.Error("failed to read key", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.logger.Error("discarding unreadable value", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) write(key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("failed to encode value", "key", key, "error", err)
		return false
	}
	if err := a.store.Set(key, data); err != nil {
		a.logger.Error("failed to write key", "key", key, "error", err)
		return false
	}
	return true
}

func (a *Adapter) remove(key string) {
	if err := a.store.Delete(key); err != nil {
		a.logger.Error("failed to delete key", "key", key, "error", err)
	}
}

// Watchlist returns saved entries, most recently added first.
func (a *Adapter) Watchlist() []models.WatchlistEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.watchlist()
}

func (a *Adapter) watchlist() []models.WatchlistEntry {
	var entries []models.WatchlistEntry
	if !a.read(KeyWatchlist, &entries) {
		return []models.WatchlistEntry{}
	}
	return entries
}

func indexOf(entries []models.WatchlistEntry, key models.ItemKey) int {
	for i, e := range entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

// Contains reports whether the (id, kind) pair of item is saved.
func (a *Adapter) Contains(item models.MediaItem) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return indexOf(a.watchlist(), item.Key()) >= 0
}

// Count returns the number of saved entries.
func (a *Adapter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.watchlist())
}

// Add saves item at the front of the watchlist. It reports false when the item was already saved.
func (a *Adapter) Add(item models.MediaItem) bool {
	a.mu.Lock()
	entries := a.watchlist()
	if indexOf(entries, item.Key()) >= 0 {
		a.mu.Unlock()
		return false
	}

	item.MediaType = item.Kind()
	entry := models.WatchlistEntry{MediaItem: item, AddedAt: a.now().UTC()}
	entries = append([]models.WatchlistEntry{entry}, entries...)
	ok := a.write(KeyWatchlist, entries)
	a.mu.Unlock()

	if ok {
		a.bus.Publish(events.WatchlistChanged{Item: item, Added: true, Count: len(entries)})
	}
	return ok
}

// Remove deletes item from the watchlist. It reports false when the item was not saved.
func (a *Adapter) Remove(item models.MediaItem) bool {
	a.mu.Lock()
	entries := a.watchlist()
	i := indexOf(entries, item.Key())
	if i < 0 {
		a.mu.Unlock()
		return false
	}

	entries = append(entries[:i], entries[i+1:]...)
	ok := a.write(KeyWatchlist, entries)
	a.mu.Unlock()

	if ok {
		a.bus.Publish(events.WatchlistChanged{Item: item, Count: len(entries)})
	}
	return ok
}

// Toggle adds item when absent and removes it when present, returning the resulting membership.
func (a *Adapter) Toggle(item models.MediaItem) bool {
	if a.Contains(item) {
		a.Remove(item)
	} else {
		a.Add(item)
	}
	return a.Contains(item)
}

// ClearWatchlist removes every entry.
func (a *Adapter) ClearWatchlist() {
	a.mu.Lock()
	ok := a.write(KeyWatchlist, []models.WatchlistEntry{})
	a.mu.Unlock()

	if ok {
		a.bus.Publish(events.WatchlistChanged{Cleared: true})
	}
}

// Refresh replaces the stored snapshot of a saved item, keeping its position and AddedAt.
// It reports false when the item is not saved.
func (a *Adapter) Refresh(item models.MediaItem) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := a.watchlist()
	i := indexOf(entries, item.Key())
	if i < 0 {
		return false
	}
	item.MediaType = entries[i].Kind()
	entries[i].MediaItem = item
	return a.write(KeyWatchlist, entries)
}

// Preferences returns stored preferences merged over [models.DefaultPreferences].
func (a *Adapter) Preferences() models.Preferences {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.preferences()
}

func (a *Adapter) preferences() models.Preferences {
	var stored models.Preferences
	a.read(KeyPreferences, &stored)
	return models.DefaultPreferences().Merge(stored)
}

// SavePreferences merges prefs over the current preferences and persists the result.
func (a *Adapter) SavePreferences(prefs models.Preferences) {
	a.mu.Lock()
	merged := a.preferences().Merge(prefs)
	ok := a.write(KeyPreferences, merged)
	a.mu.Unlock()

	if ok {
		a.bus.Publish(events.PreferencesChanged{Preferences: merged})
	}
}

// Preference returns a single preference value, or nil when unset and without a default.
func (a *Adapter) Preference(key string) any {
	return a.Preferences()[key]
}

// SetPreference persists a single preference.
func (a *Adapter) SetPreference(key string, value any) {
	a.SavePreferences(models.Preferences{key: value})
}

// SearchHistory returns past queries, most recent first.
func (a *Adapter) SearchHistory() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searchHistory()
}

func (a *Adapter) searchHistory() []string {
	var history []string
	if !a.read(KeySearchHistory, &history) {
		return []string{}
	}
	return a.capHistory(history)
}

// RecordSearch moves query to the front of the history, dropping case-insensitive duplicates
// and evicting the oldest entries beyond the limit. Blank queries are ignored.
func (a *Adapter) RecordSearch(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	history := append([]string{query}, a.searchHistory()...)
	a.write(KeySearchHistory, a.capHistory(history))
}

func (a *Adapter) capHistory(history []string) []string {
	history = shared.Unique(history, strings.ToLower)
	return history[:min(len(history), a.historyLimit)]
}

// ClearSearchHistory removes every recorded query.
func (a *Adapter) ClearSearchHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.remove(KeySearchHistory)
}

// HistoryLimit is the maximum number of queries kept.
func (a *Adapter) HistoryLimit() int {
	return a.historyLimit
}
