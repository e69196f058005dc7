// package formatter provides functions to export watchlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/goccy/go-json"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

// Formats lists the accepted values of the --format flag.
var Formats = []string{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ExportToCSV converts watchlist entries to CSV with columns: ID, Kind, Title, Year, Rating, Added, Overview
func ExportToCSV(entries []models.WatchlistEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Kind", "Title", "Year", "Rating", "Added", "Overview"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			strconv.Itoa(e.ID),
			string(e.Kind()),
			e.DisplayTitle(),
			shared.Year(e.DisplayDate()),
			shared.FormatRating(e.VoteAverage),
			e.AddedAt.UTC().Format(time.RFC3339),
			e.Overview,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts watchlist entries to a Markdown document.
//
// Posters are linked from imageBaseURL at small size; an empty base omits them.
func ExportToMarkdown(entries []models.WatchlistEntry, imageBaseURL string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My List\n\n")
	fmt.Fprintf(&buf, "**Titles**: %d\n\n", len(entries))

	for i, e := range entries {
		fmt.Fprintf(&buf, "## %d. %s (%s)\n\n", i+1, e.DisplayTitle(), shared.Year(e.DisplayDate()))

		if imageBaseURL != "" {
			if poster := services.ImageURL(imageBaseURL, e.PosterPath, services.SizeSmall, services.AssetPoster); poster != "" {
				fmt.Fprintf(&buf, "![Poster](%s)\n\n", poster)
			}
		}

		fmt.Fprintf(&buf, "- **Type**: %s\n", e.Kind().Label())
		fmt.Fprintf(&buf, "- **Rating**: %s\n", shared.FormatRating(e.VoteAverage))
		fmt.Fprintf(&buf, "- **Added**: %s\n", e.AddedAt.UTC().Format("January 2, 2006"))
		fmt.Fprintf(&buf, "- **TMDB**: %s\n", shared.TitleURL(string(e.Kind()), e.ID))
		if e.Overview != "" {
			fmt.Fprintf(&buf, "\n%s\n", e.Overview)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts watchlist entries to plain text format
func ExportToText(entries []models.WatchlistEntry) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "My List: %d titles\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s (%s) [%s] %s\n",
			i+1, e.DisplayTitle(), shared.Year(e.DisplayDate()), e.Kind(), shared.FormatRating(e.VoteAverage))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders entries as indented JSON
func ExportToJSON(entries []models.WatchlistEntry) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders entries in the named format.
func Export(entries []models.WatchlistEntry, format, imageBaseURL string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return ExportToCSV(entries)
	case FormatMarkdown, "md":
		return ExportToMarkdown(entries, imageBaseURL)
	case FormatText, "txt":
		return ExportToText(entries)
	case FormatJSON:
		return ExportToJSON(entries)
	}
	return nil, fmt.Errorf("%w: unsupported export format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatMarkdown, "md":
		return ".md"
	case FormatText, "txt":
		return ".txt"
	case FormatCSV:
		return ".csv"
	}
	return ".json"
}

// WriteExport writes entries to path in the named format, creating parent directories.
//
// Defaults to flix_watchlist{ext} in the working directory when path is empty.
func WriteExport(entries []models.WatchlistEntry, format, path, imageBaseURL string) (string, error) {
	if path == "" {
		path = "flix_watchlist" + Extension(format)
	}

	data, err := Export(entries, format, imageBaseURL)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
