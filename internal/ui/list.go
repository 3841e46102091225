package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
)

var (
	_ list.Item = matchItem{}
)

// matchItem wraps [models.MatchResult] to implement [list.Item].
type matchItem struct {
	position int
	match    models.MatchResult
}

func (i matchItem) FilterValue() string { return i.match.Original.String() }
func (i matchItem) Title() string {
	return fmt.Sprintf("%d. %s %s", i.position, styles.mark(i.match.Matched()), i.match.Original)
}
func (i matchItem) Description() string {
	c := i.match.Candidate
	if c == nil {
		return "no match found"
	}
	desc := fmt.Sprintf("→ %s - %s [%s]", c.Artist, c.Title, shared.FormatDuration(c.Duration))
	if c.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, c.Album)
	}
	return desc
}

func matchItems(matches []models.MatchResult) []list.Item {
	items := make([]list.Item, len(matches))
	for i, m := range matches {
		items[i] = matchItem{position: i + 1, match: m}
	}
	return items
}
