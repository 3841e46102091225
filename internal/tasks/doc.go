// Package tasks runs playlist imports with real-time progress reporting.
//
// # Core Operations
//
// [ImportEngine] exposes the pipeline in stages:
//
//  1. [ImportEngine.Import] : Extract a playlist from raw input
//     - Delegates to an [Importer] (free text or a scraped Spotify page)
//     - Applies a caller-supplied name by copy
//
//  2. [ImportEngine.Match] : Search the catalog for every track
//     - One song-filtered search per track, strictly in order
//     - Failed searches leave the track unmatched instead of failing the batch
//     - Cancellation returns ctx.Err() and discards partial results
//
//  3. [ImportEngine.Save] : Persist the matched tracks as a local playlist
//     - Caches each catalog track through the [TrackCacher]
//     - Creates the playlist and appends tracks in match order
//
// [ImportEngine.Run] chains Import and Match and tallies an [ImportResult].
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Observation
//
// The optional [Observer] receives import outcomes and per-search timings; the metrics package implements it.
package tasks
