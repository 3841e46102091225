package models

import (
	"fmt"
	"time"
)

// DefaultPlaylistName is used whenever an extractor cannot determine a playlist name.
const DefaultPlaylistName = "Imported Playlist"

// Source identifies where a [ParsedPlaylist] came from.
type Source int

const (
	SourceUnknown Source = iota
	SourceSpotify
	SourceText
)

// String returns the storage name for the source.
func (s Source) String() string {
	switch s {
	case SourceSpotify:
		return "spotify"
	case SourceText:
		return "text"
	default:
		return "unknown"
	}
}

// Label returns a human-readable source name.
func (s Source) Label() string {
	switch s {
	case SourceSpotify:
		return "Spotify"
	case SourceText:
		return "Text"
	default:
		return "Unknown"
	}
}

// ParseSource maps a storage name back to a [Source].
func ParseSource(s string) Source {
	switch s {
	case "spotify":
		return SourceSpotify
	case "text":
		return SourceText
	default:
		return SourceUnknown
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Unrecognized names decode as [SourceUnknown].
func (s *Source) UnmarshalText(b []byte) error {
	*s = ParseSource(string(b))
	return nil
}

// ParsedTrack is a single track extracted from user input.
//
// Zero values mean absent: an empty Album, a zero DurationMS or an empty OriginalID.
// Title is never blank on tracks emitted by the extractors.
type ParsedTrack struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	OriginalID string `json:"original_id,omitempty"`
}

// Query returns the catalog search query for the track: "artist title", or the title alone.
func (t ParsedTrack) Query() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " " + t.Title
}

// String renders the track as "Artist - Title", or the title alone.
func (t ParsedTrack) String() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// ParsedPlaylist is an ordered list of tracks extracted from one input.
type ParsedPlaylist struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Tracks      []ParsedTrack `json:"tracks"`
	ImageURL    string        `json:"image_url,omitempty"`
	Source      Source        `json:"source"`
}

// WithName returns a copy of p named name. The receiver is left unchanged.
func (p ParsedPlaylist) WithName(name string) ParsedPlaylist {
	p.Tracks = append([]ParsedTrack(nil), p.Tracks...)
	p.Name = name
	return p
}

// CatalogTrack is a song returned by a catalog search.
type CatalogTrack struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration,omitempty"` // seconds
}

// MatchResult pairs a parsed track with its catalog candidate. A nil Candidate means unmatched.
type MatchResult struct {
	Original  ParsedTrack   `json:"original"`
	Candidate *CatalogTrack `json:"candidate"`
}

// Matched reports whether a candidate was found.
func (m MatchResult) Matched() bool {
	return m.Candidate != nil
}

// Model defines the base interface for persistent entities.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// SavedPlaylist is a playlist stored in the local library.
type SavedPlaylist struct {
	id         string
	sequence   int
	name       string
	source     Source
	trackCount int
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSavedPlaylist creates an unsaved playlist with the current timestamps.
func NewSavedPlaylist(name string, source Source) *SavedPlaylist {
	now := time.Now().UTC()
	return &SavedPlaylist{name: name, source: source, createdAt: now, updatedAt: now}
}

// RestoreSavedPlaylist rebuilds a playlist from stored values.
func RestoreSavedPlaylist(id string, sequence int, name string, source Source, trackCount int, createdAt, updatedAt time.Time) *SavedPlaylist {
	return &SavedPlaylist{
		id: id, sequence: sequence, name: name, source: source,
		trackCount: trackCount, createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (p *SavedPlaylist) ID() string               { return p.id }
func (p *SavedPlaylist) Sequence() int            { return p.sequence }
func (p *SavedPlaylist) Name() string             { return p.name }
func (p *SavedPlaylist) Source() Source           { return p.source }
func (p *SavedPlaylist) TrackCount() int          { return p.trackCount }
func (p *SavedPlaylist) CreatedAt() time.Time     { return p.createdAt }
func (p *SavedPlaylist) UpdatedAt() time.Time     { return p.updatedAt }
func (p *SavedPlaylist) SetID(id string)          { p.id = id }
func (p *SavedPlaylist) SetSequence(seq int)      { p.sequence = seq }
func (p *SavedPlaylist) SetTrackCount(n int)      { p.trackCount = n }
func (p *SavedPlaylist) SetUpdatedAt(t time.Time) { p.updatedAt = t }

// Validate checks required fields.
func (p *SavedPlaylist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist id is required")
	}
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.trackCount < 0 {
		return fmt.Errorf("track count must not be negative")
	}
	return nil
}
