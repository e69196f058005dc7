package services

import (
	"strings"
)

// Asset is a TMDB image category; each has its own size ladder.
type Asset string

const (
	AssetPoster   Asset = "poster"
	AssetBackdrop Asset = "backdrop"
	AssetProfile  Asset = "profile"
)

// Named sizes. Anything else is passed to the image CDN unchanged (e.g. "w92").
const (
	SizeSmall    = "small"
	SizeMedium   = "medium"
	SizeLarge    = "large"
	SizeOriginal = "original"
)

var imageSizes = map[Asset]map[string]string{
	AssetPoster:   {SizeSmall: "w185", SizeMedium: "w342", SizeLarge: "w500", SizeOriginal: "original"},
	AssetBackdrop: {SizeSmall: "w300", SizeMedium: "w780", SizeLarge: "w1280", SizeOriginal: "original"},
	AssetProfile:  {SizeSmall: "w45", SizeMedium: "w185", SizeLarge: "h632", SizeOriginal: "original"},
}

// ImageURL builds a CDN URL for path at the named size. It returns "" when path is empty.
func ImageURL(base, path, size string, asset Asset) string {
	if path == "" {
		return ""
	}
	if base == "" {
		base = tmdbImageBaseURL
	}
	if s, ok := imageSizes[asset][size]; ok {
		size = s
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// SizeForQuality maps the quality preference to a named size. "auto" and unknown values pick medium.
func SizeForQuality(quality string) string {
	switch strings.ToLower(quality) {
	case "low":
		return SizeSmall
	case "high":
		return SizeLarge
	case SizeOriginal:
		return SizeOriginal
	}
	return SizeMedium
}

// ImageURL builds a CDN URL against the configured image base.
func (s *TMDBService) ImageURL(path, size string, asset Asset) string {
	return ImageURL(s.config.ImageBaseURL, path, size, asset)
}
