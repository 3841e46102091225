package tasks

import (
	"fmt"

	"github.com/desertthunder/plimport/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	SearchTracks
	MatchedTrack
	CacheTracks
	CreatePlaylist
	AddTracks
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case SearchTracks:
		return "search_tracks"
	case MatchedTrack:
		return "matched_track"
	case CacheTracks:
		return "cache_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchSourceUpdate(source models.Source) ProgressUpdate {
	msg := "Parsing text input..."
	if source == models.SourceSpotify {
		msg = "Fetching playlist from Spotify..."
	}
	return ProgressUpdate{Phase: FetchSource, Step: 0, Total: 1, Message: msg}
}

// foundPlaylistUpdate carries the parsed playlist as Data.
func foundPlaylistUpdate(pl models.ParsedPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", pl.Name, len(pl.Tracks)),
		Data:    pl,
	}
}

// searchTrackUpdate carries the track being searched as Data.
func searchTrackUpdate(step, total int, tr models.ParsedTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, tr),
		Data:    tr,
	}
}

// matchedTrackUpdate carries the [models.MatchResult] as Data.
func matchedTrackUpdate(step, total int, m models.MatchResult) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✗ %s", step, total, m.Original)
	if m.Candidate != nil {
		msg = fmt.Sprintf("[%d/%d] ✓ %s → %s", step, total, m.Original, m.Candidate.Title)
	}
	return ProgressUpdate{Phase: MatchedTrack, Step: step, Total: total, Message: msg, Data: m}
}

func cacheTrackUpdate(step, total int, tr models.CatalogTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saving %s", step, total, tr.Title),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func addTracksUpdate(count int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    count,
		Total:   count,
		Message: fmt.Sprintf("Added %d tracks to playlist %s", count, id),
		Data:    id,
	}
}

func completeUpdate(r *ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    r.MatchedCount,
		Total:   len(r.Matches),
		Message: r.Summary(),
		Data:    r,
	}
}
