package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/importer"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
)

// Search queries the catalog for songs, the same search the import pipeline runs per track.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if track, ok := importer.ParseLine(query); ok {
		query = track.Query()
	}

	r.logger.Info("searching catalog", "catalog", r.catalog.Name(), "query", query)

	items, err := r.catalog.Search(ctx, query, services.FilterSongs)
	if err != nil {
		return err
	}

	if limit := int(cmd.Int("limit")); limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		r.writePlain("No results for %q\n", query)
		return nil
	}

	r.writePlain("Results for %q:\n\n", query)
	for i, item := range items {
		t := item.Track
		r.writePlain("%d. %s - %s [%s]\n", i+1, t.Artist, t.Title, shared.FormatDuration(t.Duration))
		if t.Album != "" {
			r.writePlain("   Album: %s\n", t.Album)
		}
		r.writePlain("   ID: %s\n", t.ID)
	}
	return nil
}

// Sources prints the supported import inputs.
func (r *Runner) Sources(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("Supported sources:\n")
	for _, s := range importer.SupportedSources() {
		r.writePlain("  • %s\n", s)
	}
	return nil
}
