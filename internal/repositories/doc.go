// Package repositories implements SQLite persistence for the local playlist library.
//
// Key Implementations:
//   - [PlaylistRepository] : Saved playlists and their ordered track membership
//   - [TrackRepository] : Catalog tracks seen while matching, keyed by catalog ID
//   - [TrackCacheAdapter] : Adapts [TrackRepository] to the import engine's track cache
//
// Sequence numbers provide stable, human-readable ordering (e.g., playlist #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
