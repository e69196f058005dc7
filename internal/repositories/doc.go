// Package repositories implements the key-value backends that persist the watchlist, preferences and search history.
//
// Key Implementations:
//   - [SQLiteStore] : kv_entries table created by the embedded migrations in package shared
//   - [BadgerStore] : embedded BadgerDB, on disk or in memory
//   - [MemoryStore] : process-local map for tests and throwaway sessions
//
// Values are opaque bytes; the storage adapter owns encoding. Get reports a missing key as found=false
// with a nil error so callers can fall back to defaults without inspecting error types.
package repositories
