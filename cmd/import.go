package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/formatter"
	"github.com/desertthunder/plimport/internal/tasks"
)

// Import extracts a playlist, matches every track on the catalog and prints a report.
//
// With --save the matched tracks are stored as a playlist in the local library.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	input, err := r.readInput(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	outputPath := cmd.String("output")
	save := cmd.Bool("save")

	var db *sql.DB
	if save {
		if db, err = r.openDatabase(); err != nil {
			return err
		}
		defer db.Close()
	}
	defer r.flushMetrics()

	engine := r.engine(db, tasks.WithBlockingProgress())
	showProgress := !cmd.Bool("quiet") && (outputPath != "" || format == formatter.FormatText)

	r.logger.Info("starting import", "source", input, "format", format, "save", save)
	result, err := r.withProgress(showProgress, func(progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		return engine.Run(ctx, input, tasks.RunOptions{Name: cmd.String("name")}, progress)
	})
	if err != nil {
		return err
	}

	if showProgress {
		r.writePlain("\n")
	}

	if outputPath != "" {
		if err := formatter.WriteReport(result, format, outputPath); err != nil {
			return err
		}
		r.writePlain("✓ Report written to %s\n", outputPath)
	} else {
		report, err := formatter.Render(result, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if !save {
		return nil
	}

	var id string
	if _, err := r.withProgress(showProgress, func(progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error) {
		id, err = engine.Save(ctx, result, "", progress)
		return result, err
	}); err != nil {
		return err
	}

	r.writePlainln("✓ Saved playlist %s (%d tracks)", id, result.MatchedCount)
	return nil
}

// withProgress runs fn with a progress channel whose updates are printed when show is set.
// The channel is drained until fn returns, so engines built with [tasks.WithBlockingProgress] never drop lines.
// It returns after every update has been written.
func (r *Runner) withProgress(show bool, fn func(chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)) (*tasks.ImportResult, error) {
	if !show {
		return fn(nil)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writeProgress(update)
		}
	}()

	result, err := fn(progressCh)
	close(progressCh)
	<-done
	return result, err
}

func (r *Runner) writeProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchSource:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.SearchTracks:
		if update.Step == 1 {
			r.writePlain("\n🔍 Searching YouTube Music for %d tracks\n", update.Total)
		}
	case tasks.MatchedTrack:
		r.writePlain("   %s\n", update.Message)
	case tasks.CreatePlaylist, tasks.AddTracks:
		r.writePlain("📝 %s\n", update.Message)
	}
}
