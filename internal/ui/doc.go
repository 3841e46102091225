// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks a single import through these views:
//  1. [ImportView] : spinner while the input is extracted
//  2. [MatchView] : progress bar while each track is searched
//  3. [ResultView] : matched (✓) and unmatched (✗) tracks
//  4. [ConfirmView] : confirm saving the matched tracks
//  5. [SaveView] : spinner while the playlist is written
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.ImportEngine], providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, s, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
