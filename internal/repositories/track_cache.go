package repositories

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/desertthunder/plimport/internal/models"
)

const (
	cacheBloomCapacity      = 4096
	cacheBloomFalsePositive = 0.01
)

// TrackCacheAdapter implements tasks.TrackCacher using TrackRepository.
//
// Tracks already stored are never rewritten. On first use the adapter loads every stored ID
// into a bloom filter; a miss means the track is new and goes straight to Upsert, while a hit
// is confirmed with [TrackRepository.Exists] before the write is skipped.
type TrackCacheAdapter struct {
	repo   *TrackRepository
	mu     sync.Mutex
	bloom  *bloom.BloomFilter
	seeded bool
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack stores a matched catalog track so it can be referenced by saved playlists.
func (a *TrackCacheAdapter) CacheTrack(track models.CatalogTrack) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.seed(); err != nil {
		return err
	}

	stored, err := a.stored(track.ID)
	if err != nil {
		return err
	}
	if stored {
		return nil
	}

	if err := a.repo.Upsert(track); err != nil {
		return fmt.Errorf("failed to cache track: %w", err)
	}

	a.bloom.AddString(track.ID)
	return nil
}

// seed fills the filter with the IDs already in the tracks table.
func (a *TrackCacheAdapter) seed() error {
	if a.seeded {
		return nil
	}

	ids, err := a.repo.IDs()
	if err != nil {
		return fmt.Errorf("failed to load cached tracks: %w", err)
	}

	a.bloom = bloom.NewWithEstimates(uint(max(2*len(ids), cacheBloomCapacity)), cacheBloomFalsePositive)
	for _, id := range ids {
		a.bloom.AddString(id)
	}
	a.seeded = true
	return nil
}

// stored reports whether id is already persisted. Only bloom hits reach the database.
func (a *TrackCacheAdapter) stored(id string) (bool, error) {
	if !a.bloom.TestString(id) {
		return false, nil
	}

	ok, err := a.repo.Exists(id)
	if err != nil {
		return false, fmt.Errorf("failed to check cached track: %w", err)
	}
	return ok, nil
}
