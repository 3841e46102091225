package importer

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

// PlaylistParser extracts a playlist from a recognized source URL.
type PlaylistParser interface {
	ParsePlaylist(ctx context.Context, url string) (*models.ParsedPlaylist, error)
}

// Importer classifies raw input and routes it to the matching extractor.
type Importer struct {
	spotify PlaylistParser
	logger  *log.Logger
}

// New creates an Importer that reads Spotify URLs with spotify.
func New(spotify PlaylistParser, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{spotify: spotify, logger: logger}
}

// SetLogger replaces the importer logger and hands l to the Spotify parser when it accepts one.
// Call it before Import runs.
func (i *Importer) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	i.logger = l
	if s, ok := i.spotify.(interface{ SetLogger(*log.Logger) }); ok {
		s.SetLogger(shared.WithLogger(l, "component", "scraper"))
	}
}

// Import parses input as a Spotify URL, an unsupported URL, or free text, in that order.
//
// Unsupported URLs fail with [shared.ErrUnsupportedURLFormat] rather than being read as a track title.
// Free text never fails.
func (i *Importer) Import(ctx context.Context, input string) (*models.ParsedPlaylist, error) {
	input = strings.TrimSpace(input)

	switch {
	case IsSpotifyURL(input):
		i.logger.Info("importing from Spotify", "url", input)
		return i.spotify.ParsePlaylist(ctx, input)
	case IsURL(input):
		i.logger.Warn("unsupported URL", "url", input)
		return nil, shared.ErrUnsupportedURLFormat
	default:
		playlist := ParseText(input)
		i.logger.Debug("parsed text input", "tracks", len(playlist.Tracks))
		return &playlist, nil
	}
}

// Classify reports which source Import would use for input without running it.
// Unsupported URLs classify as [models.SourceUnknown].
func Classify(input string) models.Source {
	input = strings.TrimSpace(input)
	switch {
	case IsSpotifyURL(input):
		return models.SourceSpotify
	case IsURL(input):
		return models.SourceUnknown
	default:
		return models.SourceText
	}
}

// SupportedSources lists the inputs Import understands, for display.
func SupportedSources() []string {
	return []string{
		"Spotify playlist URLs (open.spotify.com/playlist/...)",
		"Spotify album URLs (open.spotify.com/album/...)",
		"Text input (one track per line: 'Artist - Title')",
	}
}
