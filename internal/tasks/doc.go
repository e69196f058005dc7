// Package tasks runs batch operations over the saved watchlist with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines:
//
//  1. [Engine.Refresh] : re-fetch every saved title
//     - Reads the watchlist from the storage adapter
//     - Fetches details with a bounded worker pool sharing one request-rate limiter
//     - Replaces each stored snapshot while keeping its AddedAt and position
//     - Returns per-title results; single failures do not abort the run
//
// # Progress Reporting
//
// Operations report through an optional channel of [ProgressUpdate].
// Sends use select with default so a slow consumer never blocks the engine.
package tasks
