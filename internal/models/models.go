// package models defines the catalog data model shared by the client, storage and UI layers
package models

import (
	"fmt"
	"time"
)

// MediaKind tags a catalog entry as a movie, series or person.
type MediaKind string

const (
	KindMovie  MediaKind = "movie"
	KindTV     MediaKind = "tv"
	KindPerson MediaKind = "person"
)

// ParseMediaKind accepts "movie", "tv" and the "series" alias.
func ParseMediaKind(s string) (MediaKind, error) {
	switch s {
	case "movie", "movies":
		return KindMovie, nil
	case "tv", "series":
		return KindTV, nil
	case "person":
		return KindPerson, nil
	}
	return "", fmt.Errorf("unknown media kind %q", s)
}

// Label is the singular human name of the kind.
func (k MediaKind) Label() string {
	switch k {
	case KindMovie:
		return "Movie"
	case KindTV:
		return "TV Series"
	case KindPerson:
		return "Person"
	}
	return string(k)
}

// MediaItem is the summary record returned by list, search and discover endpoints.
//
// Movies carry Title and ReleaseDate; series carry Name and FirstAirDate.
type MediaItem struct {
	ID           int       `json:"id" yaml:"id"`
	MediaType    MediaKind `json:"media_type,omitempty" yaml:"media_type,omitempty"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Overview     string    `json:"overview,omitempty" yaml:"overview,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty" yaml:"poster_path,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty" yaml:"backdrop_path,omitempty"`
	VoteAverage  float64   `json:"vote_average,omitempty" yaml:"vote_average,omitempty"`
	VoteCount    int       `json:"vote_count,omitempty" yaml:"vote_count,omitempty"`
	ReleaseDate  string    `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	FirstAirDate string    `json:"first_air_date,omitempty" yaml:"first_air_date,omitempty"`
	GenreIDs     []int     `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty"`
}

// DisplayTitle prefers the movie title and falls back to the series name.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	if m.Name != "" {
		return m.Name
	}
	return "Untitled"
}

// DisplayDate prefers the release date and falls back to the first air date.
func (m MediaItem) DisplayDate() string {
	if m.ReleaseDate != "" {
		return m.ReleaseDate
	}
	return m.FirstAirDate
}

// Kind returns the item's media kind, inferring it from which title field is set when untagged.
func (m MediaItem) Kind() MediaKind {
	if m.MediaType != "" {
		return m.MediaType
	}
	if m.Title == "" && m.Name != "" {
		return KindTV
	}
	return KindMovie
}

// Key identifies an item across kinds since movie and series ids overlap.
func (m MediaItem) Key() ItemKey {
	return ItemKey{ID: m.ID, Kind: m.Kind()}
}

// ItemKey is the (id, media kind) identity of a catalog entry.
type ItemKey struct {
	ID   int
	Kind MediaKind
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s/%d", k.Kind, k.ID)
}

// WatchlistEntry is a saved item stamped with when it was added.
type WatchlistEntry struct {
	MediaItem `yaml:",inline"`
	AddedAt   time.Time `json:"addedAt" yaml:"addedAt"`
}

// Genre is a TMDB genre id and its display name.
type Genre struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CastMember is one billed performer of a title.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
	Order       int    `json:"order"`
}

// CrewMember is one off-screen contributor of a title.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits holds the cast and crew of a title.
type Credits struct {
	ID   int          `json:"id,omitempty"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns crew members credited with the Director job.
func (c Credits) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Page is one page of paginated catalog results.
type Page struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Details is the full record of a single title, optionally with appended credits and similar titles.
type Details struct {
	MediaItem
	Tagline          string   `json:"tagline,omitempty"`
	Status           string   `json:"status,omitempty"`
	Runtime          int      `json:"runtime,omitempty"`
	EpisodeRunTime   []int    `json:"episode_run_time,omitempty"`
	NumberOfSeasons  int      `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int      `json:"number_of_episodes,omitempty"`
	Genres           []Genre  `json:"genres,omitempty"`
	Homepage         string   `json:"homepage,omitempty"`
	Credits          *Credits `json:"credits,omitempty"`
	Similar          *Page    `json:"similar,omitempty"`
}

// RuntimeMinutes returns the movie runtime or the first episode runtime for series.
func (d Details) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	if len(d.EpisodeRunTime) > 0 {
		return d.EpisodeRunTime[0]
	}
	return 0
}

// GenreNames flattens Genres into their names.
func (d Details) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// TopCast returns at most n cast members in billing order.
func (d Details) TopCast(n int) []CastMember {
	if d.Credits == nil {
		return nil
	}
	return d.Credits.Cast[:min(n, len(d.Credits.Cast))]
}

// Preferences is the free-form key/value map persisted for the user.
type Preferences map[string]any

// DefaultPreferences are merged under whatever the user has saved.
func DefaultPreferences() Preferences {
	return Preferences{
		"theme":    "dark",
		"autoplay": true,
		"quality":  "auto",
		"language": "en",
	}
}

// String returns the preference as a string, or fallback when missing or not a string.
func (p Preferences) String(key, fallback string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return fallback
}

// Bool returns the preference as a bool, or fallback when missing or not a bool.
func (p Preferences) Bool(key string, fallback bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return fallback
}

// Merge returns a copy of p overlaid with other.
func (p Preferences) Merge(other Preferences) Preferences {
	out := make(Preferences, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// KeyValueStore persists opaque values by string key.
//
// Get reports found=false with a nil error for a missing key.
type KeyValueStore interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}
