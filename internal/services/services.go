// package services defines the external collaborators of an import: the catalog searched for
// matches and the fetcher used to download scraped source pages.
package services

import (
	"context"

	"github.com/desertthunder/plimport/internal/models"
)

// SearchFilter restricts catalog search results to one kind of item.
type SearchFilter string

const (
	FilterSongs  SearchFilter = "songs"
	FilterVideos SearchFilter = "videos"
	FilterAlbums SearchFilter = "albums"
)

// ItemKind is the result type reported by the catalog for a search hit.
type ItemKind string

const (
	KindSong  ItemKind = "song"
	KindVideo ItemKind = "video"
	KindAlbum ItemKind = "album"
)

// CatalogItem is one search hit. Only song items carry a usable Track.
type CatalogItem struct {
	Kind  ItemKind
	Track models.CatalogTrack
}

// Catalog searches the target music catalog.
type Catalog interface {
	// Search returns catalog items for query, in relevance order.
	Search(ctx context.Context, query string, filter SearchFilter) ([]CatalogItem, error)

	// Name returns the name of the catalog (e.g., "YouTube Music")
	Name() string
}

// Fetcher downloads a page as text.
//
// Any transport failure, including a non-2xx status, is returned as an error.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (string, error)
}

// FirstSong returns the first item of kind song, or nil.
func FirstSong(items []CatalogItem) *models.CatalogTrack {
	for _, item := range items {
		if item.Kind == KindSong {
			track := item.Track
			return &track
		}
	}
	return nil
}
