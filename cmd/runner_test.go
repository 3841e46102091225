package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/importer"
	"github.com/desertthunder/plimport/internal/metrics"
	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
	tu "github.com/desertthunder/plimport/internal/testing"
)

type mockCatalog struct {
	results map[string][]services.CatalogItem
	queries []string
}

func (m *mockCatalog) Name() string { return "mock" }

func (m *mockCatalog) Search(ctx context.Context, query string, filter services.SearchFilter) ([]services.CatalogItem, error) {
	m.queries = append(m.queries, query)
	return m.results[query], nil
}

func songItem(id, title, artist string) services.CatalogItem {
	return services.CatalogItem{
		Kind:  services.KindSong,
		Track: models.CatalogTrack{ID: id, Title: title, Artist: artist, Duration: 200},
	}
}

func newTestCatalog() *mockCatalog {
	return &mockCatalog{results: map[string][]services.CatalogItem{
		"Queen Bohemian Rhapsody": {songItem("yt-queen", "Bohemian Rhapsody", "Queen")},
		"John Lennon Imagine":     {songItem("yt-lennon", "Imagine", "John Lennon")},
	}}
}

type testEnv struct {
	runner  *Runner
	output  *bytes.Buffer
	catalog *mockCatalog
	config  *shared.Config
}

// newTestEnv builds a runner over text input, a mock catalog and a database in a temp dir.
func newTestEnv(t *testing.T, stdin string) *testEnv {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "plimport.db")

	logger := shared.NewLogger(io.Discard)
	output := &bytes.Buffer{}
	catalog := newTestCatalog()

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Importer: importer.New(nil, logger),
		Catalog:  catalog,
		Logger:   logger,
		Output:   output,
		Input:    strings.NewReader(stdin),
	})
	return &testEnv{runner: runner, output: output, catalog: catalog, config: config}
}

func (e *testEnv) run(args ...string) error {
	app := &cli.Command{
		Name:     "plimport",
		Commands: e.runner.register(),
		Writer:   io.Discard,
	}
	return app.Run(context.Background(), append([]string{"plimport"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := newTestCatalog()
			recorder := metrics.NewRecorder()
			imp := importer.New(nil, logger)

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Catalog:  catalog,
				Importer: imp,
				Recorder: recorder,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.importer != imp {
				t.Error("expected importer to be set")
			}
			if runner.recorder != recorder {
				t.Error("expected recorder to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with nil recorder creates one", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.recorder == nil {
				t.Error("expected default recorder to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("SetLogger redirects importer logs", func(t *testing.T) {
		var stderr, logFile bytes.Buffer
		runner, err := buildRunner(shared.DefaultConfig(), shared.NewLogger(&stderr))
		if err != nil {
			t.Fatalf("buildRunner failed: %v", err)
		}

		runner.SetLogger(shared.NewLogger(&logFile))
		if _, err := runner.importer.Import(context.Background(), "https://example.com/x"); !errors.Is(err, shared.ErrUnsupportedURLFormat) {
			t.Fatalf("expected ErrUnsupportedURLFormat, got %v", err)
		}

		if stderr.Len() != 0 {
			t.Errorf("expected nothing on the original logger, got:\n%s", stderr.String())
		}
		if !strings.Contains(logFile.String(), "unsupported URL") {
			t.Errorf("expected warning in the replacement logger, got:\n%s", logFile.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "parse", "import", "search", "playlists", "sources", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestParseCommand(t *testing.T) {
	t.Run("prints tracks as JSON", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("parse", "--json", "--name", "Mix", "Queen - Bohemian Rhapsody\nImagine by John Lennon"); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		var playlist models.ParsedPlaylist
		if err := json.Unmarshal(env.output.Bytes(), &playlist); err != nil {
			t.Fatalf("output should be JSON: %v\n%s", err, env.output.String())
		}

		if playlist.Name != "Mix" || playlist.Source != models.SourceText {
			t.Errorf("unexpected playlist name %q source %v", playlist.Name, playlist.Source)
		}
		want := []models.ParsedTrack{
			{Title: "Bohemian Rhapsody", Artist: "Queen"},
			{Title: "Imagine", Artist: "John Lennon"},
		}
		if len(playlist.Tracks) != 2 || playlist.Tracks[0] != want[0] || playlist.Tracks[1] != want[1] {
			t.Errorf("tracks = %+v, want %+v", playlist.Tracks, want)
		}
		if len(env.catalog.queries) != 0 {
			t.Errorf("parse should not search the catalog, got %v", env.catalog.queries)
		}
	})

	t.Run("prints plain listing", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("parse", "Queen - Bohemian Rhapsody"); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Imported Playlist", "Source: Text", "Tracks: 1", "1. Queen - Bohemian Rhapsody"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("reads stdin with --file -", func(t *testing.T) {
		env := newTestEnv(t, "# my list\nQueen - Bohemian Rhapsody\n")
		if err := env.run("parse", "--tracklist", "--file", "-"); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		want := "# Imported Playlist\nQueen - Bohemian Rhapsody\n"
		if got := env.output.String(); got != want {
			t.Errorf("tracklist = %q, want %q", got, want)
		}
	})

	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.txt")
		if err := os.WriteFile(path, []byte("John Lennon - Imagine\r\n"), 0644); err != nil {
			t.Fatal(err)
		}

		env := newTestEnv(t, "")
		if err := env.run("parse", "--file", path); err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if !strings.Contains(env.output.String(), "1. John Lennon - Imagine") {
			t.Errorf("unexpected output:\n%s", env.output.String())
		}
	})

	t.Run("input errors", func(t *testing.T) {
		tc := []struct {
			name  string
			stdin string
			args  []string
			want  error
		}{
			{"missing input", "", []string{"parse"}, shared.ErrMissingArgument},
			{"blank stdin", "  \n\t", []string{"parse", "--file", "-"}, shared.ErrMalformedInput},
			{"argument and file", "", []string{"parse", "--file", "x.txt", "Queen - Song"}, shared.ErrInvalidArgument},
			{"unsupported url", "", []string{"parse", "https://music.apple.com/us/playlist/x"}, shared.ErrUnsupportedURLFormat},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				env := newTestEnv(t, tt.stdin)
				if err := env.run(tt.args...); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}

func TestImportCommand(t *testing.T) {
	input := "Queen - Bohemian Rhapsody\nNobody - Unknown Song"

	t.Run("prints text report with progress", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("import", input); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		out := env.output.String()
		for _, want := range []string{
			"Searching YouTube Music for 2 tracks",
			"Matched 1 of 2 tracks",
			"✓ Queen - Bohemian Rhapsody → Queen - Bohemian Rhapsody",
			"✗ Nobody - Unknown Song",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}

		wantQueries := []string{"Queen Bohemian Rhapsody", "Nobody Unknown Song"}
		if strings.Join(env.catalog.queries, ",") != strings.Join(wantQueries, ",") {
			t.Errorf("queries = %v, want %v", env.catalog.queries, wantQueries)
		}
	})

	t.Run("prints a progress line for every track", func(t *testing.T) {
		env := newTestEnv(t, "")

		var lines []string
		for i := 1; i <= 120; i++ {
			lines = append(lines, fmt.Sprintf("Artist %d - Song %d", i, i))
		}
		if err := env.run("import", strings.Join(lines, "\n")); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		out := env.output.String()
		if got := strings.Count(out, "] ✗ Artist "); got != 120 {
			t.Errorf("expected 120 per-track lines, got %d", got)
		}
		if !strings.Contains(out, "[120/120] ✗ Artist 120 - Song 120") {
			t.Errorf("missing final track line:\n%s", out)
		}
	})

	t.Run("csv to stdout has no progress", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("import", "--format", "csv", input); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		out := env.output.String()
		if !strings.HasPrefix(out, "Position,Artist,Title") {
			t.Errorf("expected CSV output only, got:\n%s", out)
		}
	})

	t.Run("writes report file", func(t *testing.T) {
		env := newTestEnv(t, "")
		path := filepath.Join(t.TempDir(), "report.md")
		if err := env.run("import", "--quiet", "--format", "md", "--output", path, input); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		if !strings.Contains(tu.MustReadFile(t, path), "# Imported Playlist") {
			t.Error("expected markdown report")
		}
		if !strings.Contains(env.output.String(), "Report written to") {
			t.Errorf("unexpected output:\n%s", env.output.String())
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("import", "--format", "xml", input); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("save then list and show", func(t *testing.T) {
		env := newTestEnv(t, "")
		if err := env.run("import", "--quiet", "--save", "--name", "Road Trip", input); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(env.output.String(), "Saved playlist") {
			t.Fatalf("expected save confirmation:\n%s", env.output.String())
		}

		env.output.Reset()
		if err := env.run("playlists", "list", "--json"); err != nil {
			t.Fatalf("playlists list failed: %v", err)
		}

		var listed []playlistView
		if err := json.Unmarshal(env.output.Bytes(), &listed); err != nil {
			t.Fatalf("list output should be JSON: %v", err)
		}
		if len(listed) != 1 || listed[0].Name != "Road Trip" || listed[0].TrackCount != 1 {
			t.Fatalf("unexpected playlists %+v", listed)
		}
		if listed[0].Source != models.SourceText {
			t.Errorf("expected text source, got %v", listed[0].Source)
		}

		env.output.Reset()
		if err := env.run("playlists", "show", "--id", listed[0].ID); err != nil {
			t.Fatalf("playlists show failed: %v", err)
		}
		if out := env.output.String(); !strings.Contains(out, "Queen - Bohemian Rhapsody") || !strings.Contains(out, "yt-queen") {
			t.Errorf("unexpected show output:\n%s", out)
		}

		env.output.Reset()
		if err := env.run("playlists", "delete", "--id", listed[0].ID); err != nil {
			t.Fatalf("playlists delete failed: %v", err)
		}
		if err := env.run("playlists", "show", "--id", listed[0].ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound after delete, got %v", err)
		}
	})

	t.Run("save without matches fails", func(t *testing.T) {
		env := newTestEnv(t, "")
		err := env.run("import", "--quiet", "--save", "Nobody - Unknown Song")
		if !errors.Is(err, shared.ErrNoMatchedTracks) {
			t.Errorf("expected ErrNoMatchedTracks, got %v", err)
		}
	})

	t.Run("writes metrics textfile", func(t *testing.T) {
		env := newTestEnv(t, "")
		env.config.Metrics.Textfile = filepath.Join(t.TempDir(), "plimport.prom")

		if err := env.run("import", "--quiet", input); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		content := tu.MustReadFile(t, env.config.Metrics.Textfile)
		if !strings.Contains(content, `plimport_tracks_total{result="matched"} 1`) {
			t.Errorf("unexpected metrics:\n%s", content)
		}
	})
}

func TestSearchCommand(t *testing.T) {
	env := newTestEnv(t, "")
	if err := env.run("search", "Queen - Bohemian Rhapsody"); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(env.catalog.queries) != 1 || env.catalog.queries[0] != "Queen Bohemian Rhapsody" {
		t.Errorf("unexpected queries %v", env.catalog.queries)
	}
	if out := env.output.String(); !strings.Contains(out, "1. Queen - Bohemian Rhapsody [3:20]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSourcesCommand(t *testing.T) {
	env := newTestEnv(t, "")
	if err := env.run("sources"); err != nil {
		t.Fatalf("sources failed: %v", err)
	}

	out := env.output.String()
	for _, s := range importer.SupportedSources() {
		if !strings.Contains(out, s) {
			t.Errorf("output missing source %q", s)
		}
	}
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	env := newTestEnv(t, "")
	if err := env.run("setup", "--config", "config.toml"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "plimport.db"))
	if !strings.Contains(env.output.String(), "✓ Database: ./plimport.db") {
		t.Errorf("unexpected output:\n%s", env.output.String())
	}

	env.output.Reset()
	if err := env.run("setup", "--config", "config.toml"); err != nil {
		t.Fatalf("second setup failed: %v", err)
	}
	if !strings.Contains(env.output.String(), "(0 migrations applied)") {
		t.Errorf("expected no pending migrations on rerun:\n%s", env.output.String())
	}
}
