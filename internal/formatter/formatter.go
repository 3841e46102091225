// package formatter renders import results as reports (plain text, Markdown, CSV, JSON) and track lists.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
	"github.com/desertthunder/plimport/internal/tasks"
)

const (
	matchedMark   = "✓"
	unmatchedMark = "✗"
)

// Format is a report output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatMarkdown), string(FormatCSV), string(FormatJSON)}
}

// ParseFormat maps a name (or common alias) to a [Format].
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected one of %s)", shared.ErrInvalidArgument, name, strings.Join(Formats(), ", "))
	}
}

// Render converts result to the given format.
func Render(result *tasks.ImportResult, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return ExportToText(result)
	case FormatMarkdown:
		return ExportToMarkdown(result)
	case FormatCSV:
		return ExportToCSV(result)
	case FormatJSON:
		return ExportToJSON(result)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts an import result to CSV with one row per parsed track.
func ExportToCSV(result *tasks.ImportResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Artist", "Title", "Album", "Matched", "Catalog ID", "Catalog Title", "Catalog Artist", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, m := range result.Matches {
		record := []string{
			strconv.Itoa(i + 1),
			m.Original.Artist,
			m.Original.Title,
			m.Original.Album,
			strconv.FormatBool(m.Matched()),
			"", "", "", "",
		}
		if c := m.Candidate; c != nil {
			record[5], record[6], record[7] = c.ID, c.Title, c.Artist
			record[8] = shared.FormatDuration(c.Duration)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an import result to Markdown, linking the cover image when known.
func ExportToMarkdown(result *tasks.ImportResult) ([]byte, error) {
	var buf bytes.Buffer
	pl := result.Playlist

	fmt.Fprintf(&buf, "# %s\n\n", pl.Name)

	if pl.ImageURL != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", pl.ImageURL)
	}

	if pl.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", pl.Description)
	}

	fmt.Fprintf(&buf, "**Source**: %s\n", pl.Source.Label())
	fmt.Fprintf(&buf, "**Matched**: %d of %d (%.1f%%)\n\n", result.MatchedCount, len(result.Matches), result.MatchPercentage)

	buf.WriteString("## Tracks\n\n")
	buf.WriteString("| # | | Track | Match |\n")
	buf.WriteString("|---|---|---|---|\n")
	for i, m := range result.Matches {
		mark, match := unmatchedMark, ""
		if c := m.Candidate; c != nil {
			mark = matchedMark
			match = fmt.Sprintf("%s - %s [%s]", c.Artist, c.Title, shared.FormatDuration(c.Duration))
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, mark, escapeCell(m.Original.String()), escapeCell(match))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an import result to plain text with a ✓/✗ marker per track.
func ExportToText(result *tasks.ImportResult) ([]byte, error) {
	var buf bytes.Buffer
	pl := result.Playlist

	fmt.Fprintf(&buf, "Playlist: %s\n", pl.Name)
	if pl.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", pl.Description)
	}
	fmt.Fprintf(&buf, "Source: %s\n", pl.Source.Label())
	fmt.Fprintf(&buf, "%s\n\n", result.Summary())

	for i, m := range result.Matches {
		if c := m.Candidate; c != nil {
			fmt.Fprintf(&buf, "%d. %s %s → %s - %s\n", i+1, matchedMark, m.Original, c.Artist, c.Title)
		} else {
			fmt.Fprintf(&buf, "%d. %s %s\n", i+1, unmatchedMark, m.Original)
		}
	}

	return buf.Bytes(), nil
}

type jsonReport struct {
	Playlist        models.ParsedPlaylist `json:"playlist"`
	Matches         []models.MatchResult  `json:"matches"`
	MatchedCount    int                   `json:"matched_count"`
	UnmatchedCount  int                   `json:"unmatched_count"`
	MatchPercentage float64               `json:"match_percentage"`
}

// ExportToJSON converts an import result to indented JSON.
func ExportToJSON(result *tasks.ImportResult) ([]byte, error) {
	report := jsonReport{
		Playlist:        result.Playlist,
		Matches:         result.Matches,
		MatchedCount:    result.MatchedCount,
		UnmatchedCount:  result.UnmatchedCount,
		MatchPercentage: result.MatchPercentage,
	}
	if report.Matches == nil {
		report.Matches = []models.MatchResult{}
	}
	return shared.MarshalJSON(report, true)
}

// ExportTracklist renders tracks as "Artist - Title" lines, headed by a "#" comment with the playlist name.
//
// Tracks whose fields contain no separators parse back unchanged as free-text input.
func ExportTracklist(pl models.ParsedPlaylist) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", pl.Name)
	for _, t := range pl.Tracks {
		buf.WriteString(t.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteReport renders result in format and writes it to path, creating parent directories.
func WriteReport(result *tasks.ImportResult, format Format, path string) error {
	data, err := Render(result, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
