package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/formatter"
	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
	"github.com/desertthunder/plimport/internal/tasks"
)

// readInput returns the import input from the positional argument or --file ("-" reads stdin).
func (r *Runner) readInput(cmd *cli.Command) (string, error) {
	arg := cmd.StringArg("input")
	file := cmd.String("file")

	var input string
	switch {
	case arg != "" && file != "":
		return "", fmt.Errorf("%w: cannot specify both an input argument and --file", shared.ErrInvalidArgument)
	case file == "-":
		data, err := io.ReadAll(r.input)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		input = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		input = string(data)
	case arg != "":
		input = arg
	default:
		return "", fmt.Errorf("%w: provide a URL, track text or --file", shared.ErrMissingArgument)
	}

	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("%w: input is blank", shared.ErrMalformedInput)
	}
	return input, nil
}

// Parse extracts a playlist and prints its tracks without searching the catalog.
func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	input, err := r.readInput(cmd)
	if err != nil {
		return err
	}
	defer r.flushMetrics()

	playlist, err := r.engine(nil).Import(ctx, input, tasks.RunOptions{Name: cmd.String("name")}, nil)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	case cmd.Bool("tracklist"):
		_, err := r.output.Write(formatter.ExportTracklist(*playlist))
		return err
	}

	r.writePlaylist(*playlist)
	return nil
}

func (r *Runner) writePlaylist(pl models.ParsedPlaylist) {
	r.writePlainHeader(pl.Name)
	r.writePlain("Source: %s\n", pl.Source.Label())
	if pl.Description != "" {
		r.writePlain("Description: %s\n", pl.Description)
	}
	r.writePlain("Tracks: %d\n\n", len(pl.Tracks))

	for i, t := range pl.Tracks {
		r.writePlain("%3d. %s", i+1, t)
		if t.Album != "" {
			r.writePlain(" (%s)", t.Album)
		}
		if t.DurationMS > 0 {
			r.writePlain(" [%s]", shared.FormatDuration(int(t.DurationMS/1000)))
		}
		r.writePlain("\n")
	}
}
