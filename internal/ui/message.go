package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/plimport/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProgressUpdate MsgKind = iota
	MsgImportComplete
	MsgSaveComplete
)

type importComplete struct {
	result *tasks.ImportResult
	err    error
}

type saveComplete struct {
	playlistID string
	err        error
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// importCompleteMsg is the constructor for [MsgImportComplete]
func importCompleteMsg(result *tasks.ImportResult, err error) Msg {
	return Msg{kind: MsgImportComplete, data: importComplete{result, err}}
}

// saveCompleteMsg is the constructor for [MsgSaveComplete]
func saveCompleteMsg(playlistID string, err error) Msg {
	return Msg{kind: MsgSaveComplete, data: saveComplete{playlistID, err}}
}
