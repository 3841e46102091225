package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

// PlaylistRepository stores saved playlists and their ordered tracks.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.SavedPlaylist) error {
	playlist.SetID(shared.GenerateID())
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return withTx(r.db, func(tx *sql.Tx) error {
		var sequence int
		if err := nextSequenceTx(tx, "playlists", &sequence); err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		playlist.SetSequence(sequence)

		query := `
			INSERT INTO playlists (id, sequence, name, source, track_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query,
			playlist.ID(),
			sequence,
			playlist.Name(),
			playlist.Source().String(),
			playlist.TrackCount(),
			playlist.CreatedAt(),
			playlist.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist: %w", err)
		}
		return nil
	})
}

// CreatePlaylist creates an empty playlist named name and returns its ID.
func (r *PlaylistRepository) CreatePlaylist(name string, source models.Source) (string, error) {
	playlist := models.NewSavedPlaylist(name, source)
	if err := r.Create(playlist); err != nil {
		return "", err
	}
	return playlist.ID(), nil
}

// AddTracks appends trackIDs to the playlist in order. Every track must already be stored.
func (r *PlaylistRepository) AddTracks(playlistID string, trackIDs []string) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		var next int
		err := tx.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_tracks WHERE playlist_id = ?`, playlistID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to read playlist positions: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)`, playlistID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check playlist: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		}

		stmt, err := tx.Prepare(`INSERT INTO playlist_tracks (playlist_id, position, track_id) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, trackID := range trackIDs {
			if _, err := stmt.Exec(playlistID, next+i, trackID); err != nil {
				return fmt.Errorf("failed to add track %s: %w", trackID, err)
			}
		}

		_, err = tx.Exec(`
			UPDATE playlists
			SET track_count = (SELECT COUNT(*) FROM playlist_tracks WHERE playlist_id = ?), updated_at = ?
			WHERE id = ?
		`, playlistID, time.Now().UTC(), playlistID)
		if err != nil {
			return fmt.Errorf("failed to update track count: %w", err)
		}
		return nil
	})
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(id string) (*models.SavedPlaylist, error) {
	query := `
		SELECT id, sequence, name, source, track_count, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return playlist, err
}

// List retrieves all saved playlists ordered by sequence
func (r *PlaylistRepository) List() ([]*models.SavedPlaylist, error) {
	query := `
		SELECT id, sequence, name, source, track_count, created_at, updated_at
		FROM playlists
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.SavedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// Tracks returns the playlist's tracks in position order.
func (r *PlaylistRepository) Tracks(playlistID string) ([]models.CatalogTrack, error) {
	query := `
		SELECT t.id, t.title, t.artist, t.album, t.duration
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.CatalogTrack
	for rows.Next() {
		var track models.CatalogTrack
		if err := rows.Scan(&track.ID, &track.Title, &track.Artist, &track.Album, &track.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// Delete removes a playlist and its track membership. Cached tracks are kept.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlaylist(row rowScanner) (*models.SavedPlaylist, error) {
	var (
		id         string
		sequence   int
		name       string
		source     string
		trackCount int
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &sequence, &name, &source, &trackCount, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return models.RestoreSavedPlaylist(id, sequence, name, models.ParseSource(source), trackCount, createdAt, updatedAt), nil
}
