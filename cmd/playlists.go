package main

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/repositories"
	"github.com/desertthunder/plimport/internal/shared"
)

// playlistView is the JSON shape of a saved playlist.
type playlistView struct {
	ID         string                `json:"id"`
	Sequence   int                   `json:"sequence"`
	Name       string                `json:"name"`
	Source     models.Source         `json:"source"`
	TrackCount int                   `json:"track_count"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Tracks     []models.CatalogTrack `json:"tracks,omitempty"`
}

func newPlaylistView(p *models.SavedPlaylist) playlistView {
	return playlistView{
		ID:         p.ID(),
		Sequence:   p.Sequence(),
		Name:       p.Name(),
		Source:     p.Source(),
		TrackCount: p.TrackCount(),
		CreatedAt:  p.CreatedAt(),
		UpdatedAt:  p.UpdatedAt(),
	}
}

// PlaylistsList lists saved playlists in creation order.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := repositories.NewPlaylistRepository(db).List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]playlistView, len(playlists))
		for i, p := range playlists {
			views[i] = newPlaylistView(p)
		}
		return r.writeJSON(views, true)
	}

	if len(playlists) == 0 {
		r.writePlain("No saved playlists. Run 'plimport import --save' to create one.\n")
		return nil
	}

	r.writePlain("Saved playlists (%d):\n\n", len(playlists))
	for _, p := range playlists {
		r.writePlain("%3d. %s\n", p.Sequence(), p.Name())
		r.writePlain("     %d tracks • %s • created %s\n", p.TrackCount(), p.Source().Label(), humanize.Time(p.CreatedAt()))
		r.writePlain("     ID: %s\n", p.ID())
	}
	return nil
}

// PlaylistsShow prints a saved playlist and its tracks.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)
	playlist, err := repo.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	tracks, err := repo.Tracks(playlist.ID())
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		view := newPlaylistView(playlist)
		view.Tracks = tracks
		return r.writeJSON(view, true)
	}

	r.writePlainHeader(playlist.Name())
	r.writePlain("Source: %s\n", playlist.Source().Label())
	r.writePlain("Tracks: %d\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%3d. %s - %s [%s]  %s\n", i+1, t.Artist, t.Title, shared.FormatDuration(t.Duration), t.ID)
	}
	return nil
}

// PlaylistsDelete removes a saved playlist. Cached tracks are kept.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	id := cmd.String("id")
	if err := repositories.NewPlaylistRepository(db).Delete(id); err != nil {
		return err
	}

	r.logger.Info("deleted playlist", "id", id)
	r.writePlain("✓ Deleted playlist %s\n", id)
	return nil
}
