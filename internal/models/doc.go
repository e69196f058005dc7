// Package models defines catalog entities and the persistence interface for the flix catalog browser.
//
// The package contains two categories of types:
//
// 1. Catalog records: decoded TMDB responses
//   - [MediaItem] : list/search summary of a movie, series or person
//   - [Details] : full title record with optional [Credits] and similar titles
//   - [Page] : one page of paginated results
//   - [Genre], [CastMember], [CrewMember]
//
// 2. Local state: what the user keeps between sessions
//   - [WatchlistEntry] : a saved [MediaItem] with its addedAt stamp
//   - [Preferences] : free-form settings merged over [DefaultPreferences]
//
// [KeyValueStore] is the storage contract implemented by the sqlite, badger and memory backends in package repositories.
package models
