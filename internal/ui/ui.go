package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/plimport/internal/models"
	"github.com/desertthunder/plimport/internal/shared"
	"github.com/desertthunder/plimport/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ImportView ViewState = iota
	MatchView
	ResultView
	ConfirmView
	SaveView
	ErrorView
)

// Engine runs and saves imports. Satisfied by [tasks.ImportEngine].
type Engine interface {
	Run(ctx context.Context, input string, opts tasks.RunOptions, progress chan<- tasks.ProgressUpdate) (*tasks.ImportResult, error)
	Save(ctx context.Context, result *tasks.ImportResult, name string, progress chan<- tasks.ProgressUpdate) (string, error)
}

// Options configures a [Model].
type Options struct {
	Input   string
	Name    string // playlist name override
	CanSave bool   // whether a playlist store is configured
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	engine   Engine
	opts     Options
	view     ViewState
	width    int
	height   int
	spinner  spinner.Model
	bar      progress.Model
	results  list.Model
	progress tasks.ProgressUpdate
	playlist *models.ParsedPlaylist
	matched  int
	wait     tea.Cmd
	result   *tasks.ImportResult
	savedID  string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine Engine, opts Options) *Model {
	return &Model{
		ctx:     ctx,
		engine:  engine,
		opts:    opts,
		view:    ImportView,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Result returns the finished import, or nil while it is still running.
func (m *Model) Result() *tasks.ImportResult { return m.result }

// SavedID returns the ID of the saved playlist, if any.
func (m *Model) SavedID() string { return m.savedID }

// Err returns the error that ended the import, if any.
func (m *Model) Err() error { return m.err }

// Init starts the spinner and the import.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startImport())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-8, 10)
		if m.result != nil {
			m.results.SetSize(m.listSize())
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != ImportView && m.view != SaveView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case ResultView:
			return m.handleResultKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		m.applyProgress(msg.data.(tasks.ProgressUpdate))
		return m, m.wait

	case MsgImportComplete:
		done := msg.data.(importComplete)
		m.wait = nil
		if done.err != nil {
			m.err = done.err
			m.view = ErrorView
			return m, nil
		}
		m.result = done.result
		m.results = list.New(matchItems(done.result.Matches), list.NewDefaultDelegate(), 0, 0)
		m.results.Title = done.result.Playlist.Name
		m.results.SetSize(m.listSize())
		m.view = ResultView
		return m, nil

	case MsgSaveComplete:
		done := msg.data.(saveComplete)
		m.wait = nil
		m.view = ResultView
		if done.err != nil {
			return m, m.results.NewStatusMessage(styles.err.Render(fmt.Sprintf("Save failed: %v", done.err)))
		}
		m.savedID = done.playlistID
		return m, m.results.NewStatusMessage(styles.ok.Render(fmt.Sprintf("Saved playlist %s", done.playlistID)))
	}
	return m, nil
}

func (m *Model) applyProgress(update tasks.ProgressUpdate) {
	m.progress = update
	switch update.Phase {
	case tasks.FetchSource:
		if pl, ok := update.Data.(models.ParsedPlaylist); ok {
			m.playlist = &pl
			m.view = MatchView
		}
	case tasks.SearchTracks:
		m.view = MatchView
	case tasks.MatchedTrack:
		if match, ok := update.Data.(models.MatchResult); ok && match.Matched() {
			m.matched++
		}
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ImportView:
		return m.renderImport()
	case MatchView:
		return m.renderMatch()
	case ResultView:
		return m.renderResult()
	case ConfirmView:
		return m.renderConfirm()
	case SaveView:
		return m.renderSave()
	case ErrorView:
		return m.renderError()
	default:
		return ""
	}
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.save):
		switch {
		case !m.opts.CanSave:
			return m, m.results.NewStatusMessage(styles.warn.Render("No playlist library configured"))
		case m.savedID != "":
			return m, m.results.NewStatusMessage(styles.warn.Render(fmt.Sprintf("Already saved as %s", m.savedID)))
		case m.result.MatchedCount == 0:
			return m, m.results.NewStatusMessage(styles.warn.Render(shared.ErrNoMatchedTracks.Error()))
		}
		m.view = ConfirmView
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.no):
		m.view = ResultView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SaveView
		return m, tea.Batch(m.spinner.Tick, m.startSave())
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != ResultView {
		return m, nil
	}
	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// listSize leaves room for the summary and help lines, assuming 80x24 until the first resize.
func (m *Model) listSize() (int, int) {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		w, h = 80, 24
	}
	return max(w-4, 20), max(h-8, 5)
}

func (m *Model) startImport() tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 50)
	var result *tasks.ImportResult
	var err error

	go func() {
		result, err = m.engine.Run(m.ctx, m.opts.Input, tasks.RunOptions{Name: m.opts.Name}, ch)
		close(ch)
	}()

	m.wait = waitForProgress(ch, func() tea.Msg { return importCompleteMsg(result, err) })
	return m.wait
}

func (m *Model) startSave() tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 50)
	res := m.result
	m.progress = tasks.ProgressUpdate{}
	var id string
	var err error

	go func() {
		id, err = m.engine.Save(m.ctx, res, m.opts.Name, ch)
		close(ch)
	}()

	m.wait = waitForProgress(ch, func() tea.Msg { return saveCompleteMsg(id, err) })
	return m.wait
}

// waitForProgress reads the next update from ch; once ch is closed it returns done().
func waitForProgress(ch <-chan tasks.ProgressUpdate, done func() tea.Msg) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return done()
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderImport() string {
	msg := m.progress.Message
	if msg == "" {
		msg = "Reading input..."
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), msg, helpView)
}

func (m *Model) renderMatch() string {
	name := models.DefaultPlaylistName
	if m.playlist != nil {
		name = m.playlist.Name
	}
	title := styles.title.Render(fmt.Sprintf("Matching '%s' on YouTube Music", name))

	var percent float64
	if m.progress.Total > 0 && m.progress.Phase != tasks.FetchSource {
		percent = float64(m.progress.Step) / float64(m.progress.Total)
	}

	status := fmt.Sprintf("%d matched so far", m.matched)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n\n%s", title, m.bar.ViewAs(percent), m.progress.Message, styles.help.Render(status), helpView)
}

func (m *Model) renderResult() string {
	summary := m.result.Summary()
	if m.result.MatchedCount == len(m.result.Matches) {
		summary = styles.ok.Render(summary)
	} else {
		summary = styles.warn.Render(summary)
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.quit}
	if m.opts.CanSave && m.savedID == "" {
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.save, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s\n\n%s", m.results.View(), summary, helpView)
}

func (m *Model) renderConfirm() string {
	name := m.opts.Name
	if name == "" {
		name = m.result.Playlist.Name
	}
	title := styles.title.Render(fmt.Sprintf("Save '%s' to your library?", name))
	info := fmt.Sprintf("\nTracks: %d matched of %d\n", m.result.MatchedCount, len(m.result.Matches))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSave() string {
	msg := m.progress.Message
	if msg == "" {
		msg = "Saving playlist..."
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), msg)
}

func (m *Model) renderError() string {
	var b strings.Builder
	b.WriteString(styles.err.Render(fmt.Sprintf("Import failed: %v", m.err)))
	switch {
	case errors.Is(m.err, shared.ErrUnsupportedURLFormat), errors.Is(m.err, shared.ErrInvalidURL):
		b.WriteString("\n\n" + styles.help.Render("Paste a Spotify playlist or album link, or a list of \"Artist - Title\" lines."))
	case errors.Is(m.err, shared.ErrFetchFailed):
		b.WriteString("\n\n" + styles.help.Render("The playlist page could not be fetched. Check the link and your connection."))
	}
	b.WriteString("\n\nPress q to quit")
	return b.String()
}
