package models

import (
	"testing"
)

func TestMediaItem(t *testing.T) {
	t.Run("DisplayTitle", func(t *testing.T) {
		tests := []struct {
			name string
			item MediaItem
			want string
		}{
			{"movie", MediaItem{Title: "Inception"}, "Inception"},
			{"series", MediaItem{Name: "Breaking Bad"}, "Breaking Bad"},
			{"both", MediaItem{Title: "Dune", Name: "ignored"}, "Dune"},
			{"neither", MediaItem{}, "Untitled"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.item.DisplayTitle(); got != tt.want {
					t.Errorf("DisplayTitle() = %q, want %q", got, tt.want)
				}
			})
		}
	})

	t.Run("DisplayDate", func(t *testing.T) {
		if got := (MediaItem{FirstAirDate: "2008-01-20"}).DisplayDate(); got != "2008-01-20" {
			t.Errorf("DisplayDate() = %q", got)
		}
		if got := (MediaItem{ReleaseDate: "2010-07-16", FirstAirDate: "x"}).DisplayDate(); got != "2010-07-16" {
			t.Errorf("DisplayDate() = %q", got)
		}
	})

	t.Run("Key", func(t *testing.T) {
		movie := MediaItem{ID: 1396, Title: "A Movie"}
		series := MediaItem{ID: 1396, Name: "Breaking Bad"}
		if movie.Key() == series.Key() {
			t.Error("movie and series with the same id must have distinct keys")
		}
		if series.Key().String() != "tv/1396" {
			t.Errorf("Key().String() = %q", series.Key().String())
		}
		tagged := MediaItem{ID: 5, Name: "x", MediaType: KindMovie}
		if tagged.Kind() != KindMovie {
			t.Error("explicit media type should win over inference")
		}
	})
}

func TestParseMediaKind(t *testing.T) {
	for in, want := range map[string]MediaKind{"movie": KindMovie, "series": KindTV, "tv": KindTV} {
		got, err := ParseMediaKind(in)
		if err != nil || got != want {
			t.Errorf("ParseMediaKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMediaKind("album"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDetails(t *testing.T) {
	d := Details{
		EpisodeRunTime: []int{47, 50},
		Genres:         []Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}},
		Credits: &Credits{
			Cast: []CastMember{{Name: "A"}, {Name: "B"}, {Name: "C"}},
			Crew: []CrewMember{{Name: "V", Job: "Director"}, {Name: "W", Job: "Writer"}},
		},
	}

	if d.RuntimeMinutes() != 47 {
		t.Errorf("RuntimeMinutes() = %d, want 47", d.RuntimeMinutes())
	}
	if names := d.GenreNames(); len(names) != 2 || names[1] != "Crime" {
		t.Errorf("GenreNames() = %v", names)
	}
	if cast := d.TopCast(2); len(cast) != 2 {
		t.Errorf("TopCast(2) returned %d", len(cast))
	}
	if cast := d.TopCast(6); len(cast) != 3 {
		t.Errorf("TopCast(6) returned %d", len(cast))
	}
	if dirs := d.Credits.Directors(); len(dirs) != 1 || dirs[0] != "V" {
		t.Errorf("Directors() = %v", dirs)
	}
	if (Details{}).TopCast(6) != nil {
		t.Error("TopCast without credits should be nil")
	}
}

func TestPreferences(t *testing.T) {
	saved := Preferences{"theme": "light", "volume": float64(3)}
	merged := DefaultPreferences().Merge(saved)

	if merged.String("theme", "") != "light" {
		t.Errorf("saved value should win, got %v", merged["theme"])
	}
	if merged.String("language", "") != "en" {
		t.Errorf("default language missing, got %v", merged["language"])
	}
	if !merged.Bool("autoplay", false) {
		t.Error("default autoplay should be true")
	}
	if merged.String("volume", "fallback") != "fallback" {
		t.Error("non-string value should return fallback")
	}
	if _, ok := DefaultPreferences()["volume"]; ok {
		t.Error("Merge must not mutate the receiver")
	}
}
