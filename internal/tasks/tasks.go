// package tasks implements the import pipeline: extract a playlist, match it against the catalog, save the matches.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/plimport/internal/importer"
	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
)

// Importer extracts a playlist from raw input.
type Importer interface {
	Import(ctx context.Context, input string) (*models.ParsedPlaylist, error)
}

// PlaylistStore persists playlists built from matched tracks.
type PlaylistStore interface {
	CreatePlaylist(name string, source models.Source) (string, error)
	AddTracks(playlistID string, trackIDs []string) error
}

// TrackCacher stores catalog tracks before they are added to a saved playlist.
type TrackCacher interface {
	CacheTrack(track models.CatalogTrack) error
}

// Observer receives timing and outcome events. Implementations must not block.
type Observer interface {
	ImportFinished(source models.Source, err error, elapsed time.Duration)
	TrackSearched(matched bool, err error, elapsed time.Duration)
	PlaylistSaved(trackCount int)
}

// ImportResult contains the extracted playlist and one match per track, in playlist order.
type ImportResult struct {
	Playlist        models.ParsedPlaylist
	Matches         []models.MatchResult
	MatchedCount    int
	UnmatchedCount  int
	MatchPercentage float64
}

// Summary renders the match counts as "Matched X of N tracks".
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("Matched %d of %d tracks", r.MatchedCount, len(r.Matches))
}

// MatchedTracks returns the candidates of matched tracks, in order.
func (r *ImportResult) MatchedTracks() []models.CatalogTrack {
	tracks := make([]models.CatalogTrack, 0, r.MatchedCount)
	for _, m := range r.Matches {
		if m.Candidate != nil {
			tracks = append(tracks, *m.Candidate)
		}
	}
	return tracks
}

// NewImportResult tallies matches for playlist.
func NewImportResult(playlist models.ParsedPlaylist, matches []models.MatchResult) *ImportResult {
	r := &ImportResult{Playlist: playlist, Matches: matches}
	for _, m := range matches {
		if m.Matched() {
			r.MatchedCount++
		}
	}
	r.UnmatchedCount = len(matches) - r.MatchedCount
	if len(matches) > 0 {
		r.MatchPercentage = float64(r.MatchedCount) / float64(len(matches)) * 100
	}
	return r
}

// RunOptions adjusts a single [ImportEngine.Run].
type RunOptions struct {
	// Name overrides the extracted playlist name when non-empty.
	Name string
}

// ImportEngine runs imports against a catalog and an optional local store.
type ImportEngine struct {
	importer Importer
	catalog  services.Catalog
	store    PlaylistStore
	cacher   TrackCacher
	observer Observer
	logger   *log.Logger
	// blocking makes sendProgress wait for the receiver instead of dropping updates.
	blocking bool
}

// EngineOption configures an [ImportEngine].
type EngineOption func(*ImportEngine)

// WithStore enables [ImportEngine.Save].
func WithStore(store PlaylistStore, cacher TrackCacher) EngineOption {
	return func(e *ImportEngine) {
		e.store = store
		e.cacher = cacher
	}
}

// WithObserver reports timings and outcomes to o.
func WithObserver(o Observer) EngineOption {
	return func(e *ImportEngine) { e.observer = o }
}

// WithBlockingProgress makes every progress send wait for the receiver.
// The receiver must drain the channel until the operation returns.
func WithBlockingProgress() EngineOption {
	return func(e *ImportEngine) { e.blocking = true }
}

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *ImportEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewImportEngine creates a new ImportEngine with the provided collaborators.
func NewImportEngine(imp Importer, catalog services.Catalog, opts ...EngineOption) *ImportEngine {
	e := &ImportEngine{
		importer: imp,
		catalog:  catalog,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// sendProgress sends a progress update through the channel.
// Without [WithBlockingProgress] a full channel drops the update so reporting never stalls the import.
func (e *ImportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	if e.blocking {
		progress <- update
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Import extracts a playlist from input without matching it.
func (e *ImportEngine) Import(ctx context.Context, input string, opts RunOptions, progress chan<- ProgressUpdate) (*models.ParsedPlaylist, error) {
	if e.importer == nil {
		return nil, fmt.Errorf("%w: importer not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchSourceUpdate(importer.Classify(input)))

	start := time.Now()
	playlist, err := e.importer.Import(ctx, input)
	if e.observer != nil {
		e.observer.ImportFinished(sourceOf(playlist, input), err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if opts.Name != "" {
		renamed := playlist.WithName(opts.Name)
		playlist = &renamed
	}

	if len(playlist.Tracks) == 0 {
		e.logger.Warn("no tracks found", "source", playlist.Source, "name", playlist.Name)
	}

	e.sendProgress(progress, foundPlaylistUpdate(*playlist))
	return playlist, nil
}

// Run imports input, applies the name override and matches every track.
func (e *ImportEngine) Run(ctx context.Context, input string, opts RunOptions, progress chan<- ProgressUpdate) (*ImportResult, error) {
	playlist, err := e.Import(ctx, input, opts, progress)
	if err != nil {
		return nil, err
	}

	matches, err := e.Match(ctx, *playlist, progress)
	if err != nil {
		return nil, err
	}

	result := NewImportResult(*playlist, matches)
	e.logger.Info("import finished", "name", playlist.Name, "matched", result.MatchedCount, "total", len(matches))
	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// Match searches the catalog for each track, one at a time and in order.
//
// A failed search leaves that track unmatched. Cancelling ctx stops the pipeline and
// returns ctx.Err() with no partial result.
func (e *ImportEngine) Match(ctx context.Context, playlist models.ParsedPlaylist, progress chan<- ProgressUpdate) ([]models.MatchResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	total := len(playlist.Tracks)
	matches := make([]models.MatchResult, 0, total)

	for i, track := range playlist.Tracks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.sendProgress(progress, searchTrackUpdate(i+1, total, track))

		candidate, err := e.search(ctx, track)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.logger.Warn("search failed", "query", track.Query(), "error", err)
		}

		match := models.MatchResult{Original: track, Candidate: candidate}
		matches = append(matches, match)
		e.sendProgress(progress, matchedTrackUpdate(i+1, total, match))
	}

	return matches, nil
}

func (e *ImportEngine) search(ctx context.Context, track models.ParsedTrack) (*models.CatalogTrack, error) {
	start := time.Now()
	items, err := e.catalog.Search(ctx, track.Query(), services.FilterSongs)

	var candidate *models.CatalogTrack
	if err == nil {
		candidate = services.FirstSong(items)
	}
	if e.observer != nil {
		e.observer.TrackSearched(candidate != nil, err, time.Since(start))
	}
	return candidate, err
}

// Save creates a playlist from the matched tracks of result and returns its ID.
//
// The playlist is named name, falling back to the extracted name and then the default name.
// Fails with [shared.ErrNoMatchedTracks] when nothing matched.
func (e *ImportEngine) Save(ctx context.Context, result *ImportResult, name string, progress chan<- ProgressUpdate) (string, error) {
	if e.store == nil {
		return "", fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}

	tracks := result.MatchedTracks()
	if len(tracks) == 0 {
		return "", shared.ErrNoMatchedTracks
	}

	if name == "" {
		name = result.Playlist.Name
	}
	if name == "" {
		name = models.DefaultPlaylistName
	}

	ids := make([]string, 0, len(tracks))
	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if e.cacher != nil {
			if err := e.cacher.CacheTrack(track); err != nil {
				return "", err
			}
		}
		ids = append(ids, track.ID)
		e.sendProgress(progress, cacheTrackUpdate(i+1, len(tracks), track))
	}

	e.sendProgress(progress, createPlaylistUpdate(name))
	id, err := e.store.CreatePlaylist(name, result.Playlist.Source)
	if err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}

	if err := e.store.AddTracks(id, ids); err != nil {
		return "", fmt.Errorf("failed to add tracks: %w", err)
	}

	e.logger.Info("saved playlist", "id", id, "name", name, "tracks", len(ids))
	e.sendProgress(progress, addTracksUpdate(len(ids), id))
	if e.observer != nil {
		e.observer.PlaylistSaved(len(ids))
	}
	return id, nil
}

// sourceOf labels an import attempt by the playlist it produced, or by classifying input when it failed.
func sourceOf(playlist *models.ParsedPlaylist, input string) models.Source {
	if playlist != nil {
		return playlist.Source
	}
	return importer.Classify(input)
}
