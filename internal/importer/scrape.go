package importer

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
)

const (
	spotifyEmbedURL = "https://open.spotify.com/embed/%s/%s"

	// DefaultUserAgent is sent with page fetches; the embed page blocks script-like clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

var (
	spotifyURLPattern = regexp.MustCompile(`spotify\.com/(?:intl-[a-z-]+/)?(playlist|album)/([a-zA-Z0-9]+)`)
	spotifyURLShape   = regexp.MustCompile(`spotify\.com/(?:intl-[a-z-]+/)?(?:playlist|album)/`)

	nextDataPattern    = regexp.MustCompile(`(?s)<script[^>]*id="__NEXT_DATA__"[^>]*>(.+?)</script>`)
	fallbackPattern    = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"[^}]*"artists"\s*:\s*\[([^\]]+)\]`)
	artistNamePattern  = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
	titlePattern       = regexp.MustCompile(`<title>([^<]+)</title>`)
	titleByNoise       = regexp.MustCompile(`\s+-\s+(?:playlist|album) by .*$`)
	titlePlatformNoise = regexp.MustCompile(`\s*\|\s*Spotify\s*$`)
)

// SpotifyKind is the kind of Spotify collection a URL points at.
type SpotifyKind string

const (
	KindPlaylist SpotifyKind = "playlist"
	KindAlbum    SpotifyKind = "album"
)

// IsSpotifyURL reports whether input has the shape of a Spotify playlist or album URL.
// The identifier is not validated.
func IsSpotifyURL(input string) bool {
	return spotifyURLShape.MatchString(input)
}

// ExtractSpotifyID returns the collection kind and identifier from a Spotify URL.
func ExtractSpotifyID(url string) (SpotifyKind, string, bool) {
	m := spotifyURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return SpotifyKind(m[1]), m[2], true
}

// ExtractMethod names the tier that produced a scraped track list.
type ExtractMethod string

const (
	MethodStructured ExtractMethod = "structured"
	MethodPattern    ExtractMethod = "pattern"
	MethodNone       ExtractMethod = "none"
)

// SpotifyParser reads public Spotify playlists and albums from their embed pages.
type SpotifyParser struct {
	fetcher   services.Fetcher
	userAgent string
	logger    *log.Logger
}

// NewSpotifyParser creates a parser that downloads pages with fetcher.
// An empty userAgent uses [DefaultUserAgent]; a nil logger uses the default logger.
func NewSpotifyParser(fetcher services.Fetcher, userAgent string, logger *log.Logger) *SpotifyParser {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SpotifyParser{fetcher: fetcher, userAgent: userAgent, logger: logger}
}

// SetLogger replaces the parser logger.
func (p *SpotifyParser) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// ParsePlaylist fetches the embed page for url once and extracts its tracks.
//
// Errors are [shared.ErrInvalidURL] when no identifier can be read from url and
// [shared.ErrFetchFailed], wrapping the cause, when the page cannot be downloaded.
// A page without recognizable tracks is not an error.
func (p *SpotifyParser) ParsePlaylist(ctx context.Context, url string) (*models.ParsedPlaylist, error) {
	kind, id, ok := ExtractSpotifyID(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidURL, url)
	}

	embedURL := fmt.Sprintf(spotifyEmbedURL, kind, id)
	body, err := p.fetcher.Get(ctx, embedURL, map[string]string{
		"User-Agent": p.userAgent,
		"Accept":     acceptHeader,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFetchFailed, err)
	}

	playlist, method := ParseEmbedPage(body)
	p.logger.Debug("parsed embed page", "kind", kind, "id", id, "method", method, "tracks", len(playlist.Tracks))
	return &playlist, nil
}

// ParseEmbedPage extracts a playlist from embed page markup and reports which tier produced the tracks.
func ParseEmbedPage(page string) (models.ParsedPlaylist, ExtractMethod) {
	playlist := models.ParsedPlaylist{
		Name:   pageTitle(page),
		Tracks: []models.ParsedTrack{},
		Source: models.SourceSpotify,
	}

	if m := nextDataPattern.FindStringSubmatch(page); m != nil && gjson.Valid(m[1]) {
		if list, ok := findTrackList(gjson.Parse(m[1])); ok {
			if tracks := structuredTracks(list.items); len(tracks) > 0 {
				playlist.Tracks = tracks
				playlist.Description, playlist.ImageURL = entityDetails(list.owner)
				return playlist, MethodStructured
			}
		}
	}

	if tracks := patternTracks(page); len(tracks) > 0 {
		playlist.Tracks = tracks
		return playlist, MethodPattern
	}

	return playlist, MethodNone
}

// patternTracks scans raw markup for "name": "..." fragments followed by an inline artists array.
func patternTracks(page string) []models.ParsedTrack {
	var tracks []models.ParsedTrack
	for _, m := range fallbackPattern.FindAllStringSubmatch(page, -1) {
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}

		var artists []string
		for _, a := range artistNamePattern.FindAllStringSubmatch(m[2], -1) {
			artists = append(artists, a[1])
		}

		tracks = append(tracks, models.ParsedTrack{Title: title, Artist: strings.Join(artists, ", ")})
	}
	return tracks
}

// pageTitle returns the cleaned <title> text, or the default playlist name.
func pageTitle(page string) string {
	m := titlePattern.FindStringSubmatch(page)
	if m == nil {
		return models.DefaultPlaylistName
	}

	title := html.UnescapeString(m[1])
	title = titlePlatformNoise.ReplaceAllString(title, "")
	title = titleByNoise.ReplaceAllString(title, "")
	if title = strings.TrimSpace(title); title == "" {
		return models.DefaultPlaylistName
	}
	return title
}
