// Package models defines the data types that flow through a playlist import.
//
// The package contains two categories of types:
//
// 1. Import values: immutable records produced by the extractors and the match pipeline
//   - [ParsedTrack] : One track as read from free text or a scraped page
//   - [ParsedPlaylist] : An extracted playlist with its [Source]
//   - [CatalogTrack] : A catalog search hit
//   - [MatchResult] : A parsed track paired with its catalog candidate, if any
//
// 2. Persistent entities: rows in the local library
//   - [SavedPlaylist] : A playlist created from matched tracks
//
// Persistent entities implement the [Model] interface providing identity, timestamps and validation.
package models
