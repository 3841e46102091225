package importer

import (
	"regexp"
	"strings"

	"github.com/desertthunder/plimport/internal/models"
)

var (
	dashPattern  = regexp.MustCompile(`^\s*(.+?)\s*[-–—]\s*(.+?)\s*$`)
	byPattern    = regexp.MustCompile(`(?i)^\s*(.+?)\s+by\s+(.+?)\s*$`)
	colonPattern = regexp.MustCompile(`^\s*(.+?)\s*:\s*(.+?)\s*$`)
)

// ParseLine parses one line of free text into a track. It reports false for a blank line.
//
// Forms are tried in order and the first match wins:
//
//	Artist - Title   (also en and em dashes)
//	Title by Artist  (case-insensitive)
//	Artist: Title
//
// A line matching none of them becomes a title with no artist.
func ParseLine(line string) (models.ParsedTrack, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return models.ParsedTrack{}, false
	}

	if m := dashPattern.FindStringSubmatch(line); m != nil {
		return newTrack(m[2], m[1]), true
	}
	if m := byPattern.FindStringSubmatch(line); m != nil {
		return newTrack(m[1], m[2]), true
	}
	if m := colonPattern.FindStringSubmatch(line); m != nil {
		return newTrack(m[2], m[1]), true
	}

	return models.ParsedTrack{Title: line}, true
}

func newTrack(title, artist string) models.ParsedTrack {
	return models.ParsedTrack{Title: strings.TrimSpace(title), Artist: strings.TrimSpace(artist)}
}
