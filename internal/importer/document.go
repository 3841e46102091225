package importer

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/desertthunder/plimport/internal/models"
)

// trackList is the result of a structured-document search: the first non-empty track
// array and the object that holds it.
type trackList struct {
	owner gjson.Result
	items []gjson.Result
}

// findTrackList walks node depth-first in document order and returns the first non-empty
// array found under "tracks", "tracks.items" or "items". Sibling subtrees are never merged.
func findTrackList(node gjson.Result) (trackList, bool) {
	switch {
	case node.IsObject():
		tracks := node.Get("tracks")
		if tracks.IsArray() {
			if items := tracks.Array(); len(items) > 0 {
				return trackList{owner: node, items: items}, true
			}
		} else if tracks.IsObject() {
			if nested := tracks.Get("items"); nested.IsArray() {
				if items := nested.Array(); len(items) > 0 {
					return trackList{owner: node, items: items}, true
				}
			}
		}

		if direct := node.Get("items"); direct.IsArray() {
			if items := direct.Array(); len(items) > 0 {
				return trackList{owner: node, items: items}, true
			}
		}

		return findInChildren(node)
	case node.IsArray():
		return findInChildren(node)
	default:
		return trackList{}, false
	}
}

func findInChildren(node gjson.Result) (found trackList, ok bool) {
	node.ForEach(func(_, child gjson.Result) bool {
		found, ok = findTrackList(child)
		return !ok
	})
	return found, ok
}

// structuredTracks converts track array elements to tracks, skipping elements without a name.
//
// Playlist items wrap their track as {"track": {...}}; those are unwrapped first.
func structuredTracks(items []gjson.Result) []models.ParsedTrack {
	tracks := make([]models.ParsedTrack, 0, len(items))
	for _, el := range items {
		if !el.Get("name").Exists() && el.Get("track").IsObject() {
			el = el.Get("track")
		}

		title := strings.TrimSpace(stringField(el, "name"))
		if title == "" {
			continue
		}

		var artists []string
		for _, a := range el.Get("artists").Array() {
			if name := stringField(a, "name"); name != "" {
				artists = append(artists, name)
			}
		}

		track := models.ParsedTrack{
			Title:  title,
			Artist: strings.Join(artists, ", "),
			Album:  stringField(el, "album.name"),
		}
		if d := el.Get("duration_ms"); d.Type == gjson.Number {
			track.DurationMS = d.Int()
		}
		if uri := stringField(el, "uri"); uri != "" {
			track.OriginalID = uri
		} else {
			track.OriginalID = stringField(el, "id")
		}

		tracks = append(tracks, track)
	}
	return tracks
}

// entityDetails reads optional description and image URL from the object holding the track list.
func entityDetails(owner gjson.Result) (description, imageURL string) {
	description = stringField(owner, "description")
	if description == "" {
		description = stringField(owner, "subtitle")
	}

	for _, path := range []string{"images.0.url", "coverArt.sources.0.url", "visualIdentity.image.0.url"} {
		if imageURL = stringField(owner, path); imageURL != "" {
			break
		}
	}
	return strings.TrimSpace(description), imageURL
}

// stringField returns the value at path when it is a JSON string, and "" otherwise.
func stringField(node gjson.Result, path string) string {
	if v := node.Get(path); v.Type == gjson.String {
		return v.Str
	}
	return ""
}
