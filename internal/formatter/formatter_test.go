package formatter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	th "github.com/desertthunder/flix/internal/testing"
	"github.com/goccy/go-json"
)

func testEntries() []models.WatchlistEntry {
	added := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	return []models.WatchlistEntry{
		{
			MediaItem: models.MediaItem{
				ID: 27205, MediaType: models.KindMovie, Title: "Inception", ReleaseDate: "2010-07-16",
				VoteAverage: 8.364, PosterPath: "/inception.jpg", Overview: "Cobb steals secrets, through dreams.",
			},
			AddedAt: added,
		},
		{
			MediaItem: models.MediaItem{ID: 1396, MediaType: models.KindTV, Name: "Breaking Bad", FirstAirDate: "2008-01-20"},
			AddedAt:   added.Add(-time.Hour),
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testEntries())
		if err != nil {
			t.Fatalf("ExportToCSV() error = %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		want := []string{"27205", "movie", "Inception", "2010", "8.4", "2024-03-09T18:30:00Z", "Cobb steals secrets, through dreams."}
		for i, v := range want {
			if records[1][i] != v {
				t.Errorf("column %d = %q, want %q", i, records[1][i], v)
			}
		}
		if records[2][4] != shared.NotAvailable {
			t.Errorf("unrated entry should show N/A, got %q", records[2][4])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testEntries(), "https://image.tmdb.org/t/p")
		if err != nil {
			t.Fatalf("ExportToMarkdown() error = %v", err)
		}

		md := string(data)
		for _, want := range []string{
			"# My List",
			"**Titles**: 2",
			"## 1. Inception (2010)",
			"![Poster](https://image.tmdb.org/t/p/w185/inception.jpg)",
			"- **Type**: TV Series",
			"https://www.themoviedb.org/tv/1396",
			"March 9, 2024",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("markdown missing %q", want)
			}
		}
		if strings.Count(md, "![Poster]") != 1 {
			t.Error("entries without a poster should not get an image")
		}
	})

	t.Run("ExportToMarkdown Without Images", func(t *testing.T) {
		data, _ := ExportToMarkdown(testEntries(), "")
		if strings.Contains(string(data), "![Poster]") {
			t.Error("empty image base should omit posters")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testEntries())
		if err != nil {
			t.Fatalf("ExportToText() error = %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "My List: 2 titles" {
			t.Errorf("header = %q", lines[0])
		}
		if lines[len(lines)-1] != "2. Breaking Bad (2008) [tv] N/A" {
			t.Errorf("last line = %q", lines[len(lines)-1])
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testEntries())
		if err != nil {
			t.Fatalf("ExportToJSON() error = %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded[0]["addedAt"] == nil || decoded[1]["name"] != "Breaking Bad" {
			t.Errorf("decoded = %v", decoded)
		}
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		if _, err := Export(testEntries(), "pdf", ""); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("Export() error = %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writes Each Format", func(t *testing.T) {
		dir := t.TempDir()
		for _, format := range Formats {
			path := filepath.Join(dir, "out", "list"+Extension(format))
			got, err := WriteExport(testEntries(), format, path, "")
			if err != nil {
				t.Fatalf("WriteExport(%s) error = %v", format, err)
			}
			th.AssertFileExists(t, got)
			if !strings.Contains(th.MustReadFile(t, got), "Inception") {
				t.Errorf("%s export missing title", format)
			}
		}
	})

	t.Run("Default Path", func(t *testing.T) {
		wd := th.MustGetwd(t)
		defer th.MustChdir(t, wd)
		th.MustChdir(t, t.TempDir())

		got, err := WriteExport(testEntries(), "markdown", "", "")
		if err != nil {
			t.Fatalf("WriteExport() error = %v", err)
		}
		if got != "flix_watchlist.md" {
			t.Errorf("path = %q", got)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteExport(testEntries(), "csv", filepath.Join(file, "nested", "x.csv"), ""); err == nil {
			t.Error("expected error writing beneath a regular file")
		}
	})
}
