package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Snapshot is a portable copy of everything the adapter persists.
type Snapshot struct {
	ExportedAt    time.Time               `json:"exportedAt" yaml:"exportedAt"`
	Watchlist     []models.WatchlistEntry `json:"watchlist" yaml:"watchlist"`
	Preferences   models.Preferences      `json:"preferences" yaml:"preferences"`
	SearchHistory []string                `json:"searchHistory" yaml:"searchHistory"`
}

// Export captures the current watchlist, preferences and search history.
func (a *Adapter) Export() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ExportedAt:    a.now().UTC(),
		Watchlist:     a.watchlist(),
		Preferences:   a.preferences(),
		SearchHistory: a.searchHistory(),
	}
}

// Import replaces stored data with the non-nil parts of s.
//
// Watchlist entries are deduplicated by (id, kind) and history is capped like [Adapter.RecordSearch].
func (a *Adapter) Import(s Snapshot) {
	a.mu.Lock()
	count := -1
	if s.Watchlist != nil {
		entries := shared.Unique(s.Watchlist, func(e models.WatchlistEntry) models.ItemKey { return e.Key() })
		if a.write(KeyWatchlist, entries) {
			count = len(entries)
		}
	}
	if s.Preferences != nil {
		a.write(KeyPreferences, models.DefaultPreferences().Merge(s.Preferences))
	}
	if s.SearchHistory != nil {
		history := make([]string, 0, len(s.SearchHistory))
		for _, q := range s.SearchHistory {
			if q = strings.TrimSpace(q); q != "" {
				history = append(history, q)
			}
		}
		a.write(KeySearchHistory, a.capHistory(history))
	}
	a.mu.Unlock()

	if count >= 0 {
		a.bus.Publish(events.WatchlistChanged{Cleared: count == 0, Count: count})
	}
}

// ClearAll removes all three keys.
func (a *Adapter) ClearAll() {
	a.mu.Lock()
	for _, key := range []string{KeyWatchlist, KeyPreferences, KeySearchHistory} {
		a.remove(key)
	}
	a.mu.Unlock()

	a.bus.Publish(events.WatchlistChanged{Cleared: true})
}

// Size returns the approximate stored size of all keys in kilobytes.
func (a *Adapter) Size() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := 0
	for _, key := range []string{KeyWatchlist, KeyPreferences, KeySearchHistory} {
		data, found, err := a.store.Get(key)
		if err != nil || !found {
			continue
		}
		total += len(key) + len(data)
	}
	return float64(total) / 1024
}

// Available probes the store with a write, read and delete.
func (a *Adapter) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Set(probeKey, []byte(probeKey)); err != nil {
		a.logger.Warn("storage probe failed", "error", err)
		return false
	}
	_, found, err := a.store.Get(probeKey)
	if err := a.store.Delete(probeKey); err != nil {
		a.logger.Warn("storage probe cleanup failed", "error", err)
	}
	return err == nil && found
}

// Backup formats accepted by [EncodeSnapshot] and [DecodeSnapshot].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EncodeSnapshot serializes s as indented JSON or YAML.
func EncodeSnapshot(s Snapshot, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML, "yml":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("%w: unsupported backup format %q", shared.ErrInvalidArgument, format)
}

// DecodeSnapshot parses a backup written by [EncodeSnapshot].
func DecodeSnapshot(data []byte, format string) (Snapshot, error) {
	var s Snapshot
	var err error
	switch strings.ToLower(format) {
	case FormatJSON, "":
		err = json.Unmarshal(data, &s)
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &s)
	default:
		return s, fmt.Errorf("%w: unsupported backup format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return s, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return s, nil
}
