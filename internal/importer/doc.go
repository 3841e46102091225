// Package importer turns raw user input into a [models.ParsedPlaylist].
//
// # Input classification
//
// [Importer.Import] is the single entry point. Input is trimmed and classified, first match wins:
//  1. a Spotify playlist or album URL goes to [SpotifyParser]
//  2. any other http:// or https:// URL fails with [shared.ErrUnsupportedURLFormat]
//  3. everything else is parsed as free text by [ParseText]
//
// # Free text
//
// Each non-blank, non-comment line is parsed by [ParseLine], which tries the
// "Artist - Title", "Title by Artist" and "Artist: Title" forms in that order and
// falls back to treating the whole line as a title.
//
// # Scraped pages
//
// [SpotifyParser] fetches the public embed page for the playlist and reads tracks in two tiers.
// Tier A walks the page's __NEXT_DATA__ JSON depth-first for the first non-empty track array.
// Tier B scans the raw markup for name/artists fragments when Tier A finds nothing.
// Only a bad URL or a failed fetch is reported as an error; a page with no
// recognizable tracks yields an empty playlist.
//
// Nothing in this package keeps state between calls.
package importer
