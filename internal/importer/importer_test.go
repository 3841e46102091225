package importer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

type recordingParser struct {
	urls []string
}

func (r *recordingParser) ParsePlaylist(_ context.Context, url string) (*models.ParsedPlaylist, error) {
	r.urls = append(r.urls, url)
	return &models.ParsedPlaylist{Name: "Scraped", Source: models.SourceSpotify}, nil
}

func TestImporter(t *testing.T) {
	ctx := context.Background()

	t.Run("Spotify URL routes to scraper", func(t *testing.T) {
		parser := &recordingParser{}
		imp := New(parser, quietLogger())

		playlist, err := imp.Import(ctx, "  https://open.spotify.com/playlist/abc123  ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Source != models.SourceSpotify {
			t.Errorf("expected spotify source, got %v", playlist.Source)
		}
		if len(parser.urls) != 1 || parser.urls[0] != "https://open.spotify.com/playlist/abc123" {
			t.Errorf("expected trimmed URL to reach parser, got %v", parser.urls)
		}
	})

	t.Run("Spotify URL extracts identifier end to end", func(t *testing.T) {
		fetcher := &fakeFetcher{body: embedPage("x", "")}
		imp := New(NewSpotifyParser(fetcher, "", quietLogger()), quietLogger())

		if _, err := imp.Import(ctx, "https://open.spotify.com/playlist/abc123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fetcher.urls[0] != "https://open.spotify.com/embed/playlist/abc123" {
			t.Errorf("expected abc123 in embed URL, got %s", fetcher.urls[0])
		}
	})

	t.Run("SetLogger reaches the Spotify parser", func(t *testing.T) {
		var before, after bytes.Buffer
		oldLogger := log.New(&before)
		oldLogger.SetLevel(log.DebugLevel)
		newLogger := log.New(&after)
		newLogger.SetLevel(log.DebugLevel)

		fetcher := &fakeFetcher{body: embedPage("x", "")}
		imp := New(NewSpotifyParser(fetcher, "", oldLogger), oldLogger)
		imp.SetLogger(newLogger)

		if _, err := imp.Import(ctx, "https://open.spotify.com/playlist/abc123"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := imp.Import(ctx, "https://example.com/x"); err == nil {
			t.Fatal("expected unsupported URL error")
		}

		if before.Len() != 0 {
			t.Errorf("old logger should stay silent, got:\n%s", before.String())
		}
		for _, want := range []string{"importing from Spotify", "parsed embed page", "component=scraper", "unsupported URL"} {
			if !strings.Contains(after.String(), want) {
				t.Errorf("new logger missing %q:\n%s", want, after.String())
			}
		}
	})

	t.Run("unsupported URL", func(t *testing.T) {
		parser := &recordingParser{}
		imp := New(parser, quietLogger())

		_, err := imp.Import(ctx, "https://example.com/x")
		if !errors.Is(err, shared.ErrUnsupportedURLFormat) {
			t.Fatalf("expected ErrUnsupportedURLFormat, got %v", err)
		}
		if err.Error() != "unsupported URL format. Supported: Spotify" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if len(parser.urls) != 0 {
			t.Error("scraper should not be called")
		}
	})

	t.Run("Spotify track URL is unsupported", func(t *testing.T) {
		imp := New(&recordingParser{}, quietLogger())
		if _, err := imp.Import(ctx, "https://open.spotify.com/track/abc"); !errors.Is(err, shared.ErrUnsupportedURLFormat) {
			t.Fatalf("expected ErrUnsupportedURLFormat, got %v", err)
		}
	})

	t.Run("text input", func(t *testing.T) {
		imp := New(&recordingParser{}, quietLogger())

		playlist, err := imp.Import(ctx, "Artist - Title")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Source != models.SourceText || len(playlist.Tracks) != 1 {
			t.Fatalf("expected one text track, got %+v", playlist)
		}
		if playlist.Tracks[0] != (models.ParsedTrack{Artist: "Artist", Title: "Title"}) {
			t.Errorf("unexpected track %+v", playlist.Tracks[0])
		}
	})
}

func TestClassify(t *testing.T) {
	tc := []struct {
		input string
		want  models.Source
	}{
		{"https://open.spotify.com/playlist/abc", models.SourceSpotify},
		{"https://open.spotify.com/intl-fr/album/abc", models.SourceSpotify},
		{"https://music.apple.com/us/playlist/x", models.SourceUnknown},
		{"Artist - Title", models.SourceText},
	}

	for _, tt := range tc {
		if got := Classify(tt.input); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSupportedSources(t *testing.T) {
	sources := SupportedSources()
	if len(sources) == 0 {
		t.Fatal("expected supported sources")
	}
}
