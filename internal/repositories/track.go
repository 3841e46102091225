package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

// TrackRepository stores catalog tracks keyed by their catalog ID.
//
// Each row also carries a normalized title/artist key so tracks seen in earlier imports can be looked up by name.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts track, or refreshes its metadata when the ID is already stored.
func (r *TrackRepository) Upsert(track models.CatalogTrack) error {
	if track.ID == "" {
		return fmt.Errorf("validation failed: track id is required")
	}
	if track.Title == "" {
		return fmt.Errorf("validation failed: track title is required")
	}

	query := `
		INSERT INTO tracks (id, title, artist, album, duration, track_key, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album = excluded.album,
			duration = excluded.duration,
			track_key = excluded.track_key,
			cached_at = excluded.cached_at
	`

	_, err := r.db.Exec(query,
		track.ID,
		track.Title,
		track.Artist,
		track.Album,
		track.Duration,
		shared.NormalizeTrackKey(track.Title, track.Artist),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert track: %w", err)
	}

	return nil
}

// Get retrieves a track by catalog ID
func (r *TrackRepository) Get(id string) (*models.CatalogTrack, error) {
	query := `SELECT id, title, artist, album, duration FROM tracks WHERE id = ?`

	var track models.CatalogTrack
	err := r.db.QueryRow(query, id).Scan(&track.ID, &track.Title, &track.Artist, &track.Album, &track.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	return &track, nil
}

// FindByKey returns stored tracks whose normalized title and artist match.
func (r *TrackRepository) FindByKey(title, artist string) ([]models.CatalogTrack, error) {
	query := `
		SELECT id, title, artist, album, duration
		FROM tracks
		WHERE track_key = ?
		ORDER BY cached_at DESC
	`

	rows, err := r.db.Query(query, shared.NormalizeTrackKey(title, artist))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
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

// Exists reports whether a track with id is stored.
func (r *TrackRepository) Exists(id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM tracks WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check track: %w", err)
	}
	return exists, nil
}

// IDs returns the catalog IDs of every stored track.
func (r *TrackRepository) IDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM tracks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query track ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// Count returns the number of stored tracks.
func (r *TrackRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}
