package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/shared"
	"github.com/desertthunder/plimport/internal/ui"
)

// TUI runs an import in the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	input, err := r.readInput(cmd)
	if err != nil {
		return err
	}

	logPath := cmd.String("log-file")
	if logPath == "" {
		if logPath, err = xdg.StateFile(filepath.Join(appName, "tui.log")); err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("saving disabled", "error", err)
	} else {
		defer db.Close()
	}
	defer r.flushMetrics()

	model := ui.NewModel(ctx, r.engine(db), ui.Options{
		Input:   input,
		Name:    cmd.String("name"),
		CanSave: db != nil,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		return err
	}
	if id := model.SavedID(); id != "" {
		r.writePlain("✓ Saved playlist %s\n", id)
	}
	return nil
}
