package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/metrics"
	"github.com/desertthunder/plimport/internal/repositories"
	"github.com/desertthunder/plimport/internal/services"
	"github.com/desertthunder/plimport/internal/shared"
	"github.com/desertthunder/plimport/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	importer tasks.Importer
	catalog  services.Catalog
	recorder *metrics.Recorder
	logger   *log.Logger
	output   io.Writer
	input    io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Importer tasks.Importer
	Catalog  services.Catalog
	Recorder *metrics.Recorder
	Logger   *log.Logger
	Output   io.Writer
	Input    io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NewRecorder()
	}

	return &Runner{
		config:   opts.Config,
		importer: opts.Importer,
		catalog:  opts.Catalog,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		output:   opts.Output,
		input:    opts.Input,
	}
}

// loggerSetter is implemented by collaborators whose logger can be swapped after construction.
type loggerSetter interface {
	SetLogger(*log.Logger)
}

// SetLogger replaces the logger used by the runner, the engines it builds,
// and the importer and catalog it was given.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if s, ok := r.importer.(loggerSetter); ok {
		s.SetLogger(l)
	}
	if s, ok := r.catalog.(loggerSetter); ok {
		s.SetLogger(shared.WithLogger(l, "component", "catalog"))
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, parseCommand, importCommand, searchCommand, playlistsCommand, sourcesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engine builds an [tasks.ImportEngine]. A nil db leaves saving disabled.
func (r *Runner) engine(db *sql.DB, extra ...tasks.EngineOption) *tasks.ImportEngine {
	opts := []tasks.EngineOption{
		tasks.WithObserver(r.recorder),
		tasks.WithLogger(r.logger),
	}
	opts = append(opts, extra...)
	if db != nil {
		cache := repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db))
		opts = append(opts, tasks.WithStore(repositories.NewPlaylistRepository(db), cache))
	}
	return tasks.NewImportEngine(r.importer, r.catalog, opts...)
}

// openDatabase opens the configured database and applies pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (r *Runner) flushMetrics() {
	if err := r.recorder.WriteTextfile(r.config.Metrics.Textfile); err != nil {
		r.logger.Warn("failed to write metrics", "path", r.config.Metrics.Textfile, "error", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
