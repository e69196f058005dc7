package shared

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// NotAvailable is shown in place of a missing date, rating or runtime.
const NotAvailable = "N/A"

const dateLayout = "2006-01-02"

// Year extracts the four-digit year from a YYYY-MM-DD release date.
func Year(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return NotAvailable
	}
	if t, err := time.Parse(dateLayout, date); err == nil {
		return strconv.Itoa(t.Year())
	}
	if len(date) >= 4 {
		if _, err := strconv.Atoi(date[:4]); err == nil {
			return date[:4]
		}
	}
	return NotAvailable
}

// FormatDate renders a YYYY-MM-DD date as "January 2, 2006".
func FormatDate(date string) string {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return NotAvailable
	}
	return t.Format("January 2, 2006")
}

// FormatRating renders a vote average with one decimal place.
func FormatRating(rating float64) string {
	if rating == 0 {
		return NotAvailable
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// FormatRuntime renders minutes as "2h 5m" or "45m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// Truncate shortens text to at most max runes, trimming trailing space and appending "...".
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// Capitalize upper-cases the first rune of text.
func Capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

var (
	slugSpace   = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^\w-]+`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// Slugify lower-cases text and reduces it to word characters joined by single dashes.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	return slugDashes.ReplaceAllString(s, "-")
}

// FormatNumber inserts thousands separators, e.g. 1234567 -> "1,234,567".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// recentMagnitudes stops at days; anything older is shown as a date.
var recentMagnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: 30 * humanize.Day, Format: "%d days %s", DivBy: humanize.Day},
}

// TimeAgo describes how long before now t happened, e.g. "3 hours ago".
//
// Anything older than 30 days is rendered as a date.
func TimeAgo(t, now time.Time) string {
	switch d := now.Sub(t); {
	case d < time.Minute:
		return "just now"
	case d >= 30*humanize.Day:
		return t.Format("Jan 2, 2006")
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", recentMagnitudes)
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}

// Unique returns items with duplicate keys removed, keeping the first occurrence.
func Unique[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		chunks = append(chunks, items[i:min(i+size, len(items))])
	}
	return chunks
}
