package importer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/desertthunder/plimport/internal/models"
)

// commentPrefix marks a line ParseText ignores.
const commentPrefix = "#"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseText builds a playlist from free text, one track per line. It never fails.
//
// Lines are NFC-normalized and trimmed; blank lines and lines starting with "#" are skipped.
func ParseText(input string) models.ParsedPlaylist {
	tracks := []models.ParsedTrack{}
	for line := range strings.SplitSeq(lineBreaks.Replace(input), "\n") {
		line = strings.TrimSpace(norm.NFC.String(line))
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if track, ok := ParseLine(line); ok {
			tracks = append(tracks, track)
		}
	}

	return models.ParsedPlaylist{
		Name:   models.DefaultPlaylistName,
		Tracks: tracks,
		Source: models.SourceText,
	}
}

// IsURL reports whether input starts with an http or https scheme.
func IsURL(input string) bool {
	input = strings.TrimSpace(input)
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}
