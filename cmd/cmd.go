// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/plimport/internal/formatter"
)

func inputArgument() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{
			Name:      "input",
			UsageText: "Spotify playlist/album URL or track text",
		},
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Read track text from a file (\"-\" for stdin)",
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "Override the playlist name",
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml if missing, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Action: r.Setup,
	}
}

// parseCommand extracts a playlist without searching the catalog.
func parseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Extract tracks from a Spotify link or track text",
		Arguments: inputArgument(),
		Flags: []cli.Flag{
			fileFlag(),
			nameFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "tracklist",
				Usage: "Output \"Artist - Title\" lines that can be fed back as text input",
			},
		},
		Action: r.Parse,
	}
}

// importCommand runs extraction and catalog matching.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Extract a playlist and match its tracks on YouTube Music",
		Arguments: inputArgument(),
		Flags: []cli.Flag{
			fileFlag(),
			nameFlag(),
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the matched tracks as a playlist in the local library",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Report format (" + strings.Join(formatter.Formats(), ", ") + ")",
				Value: string(formatter.FormatText),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide per-track progress",
			},
		},
		Action: r.Import,
	}
}

// searchCommand queries the catalog directly.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search YouTube Music for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results to show",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// playlistsCommand handles the local playlist library.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Saved playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show the tracks of a saved playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
				},
				Action: r.PlaylistsDelete,
			},
		},
	}
}

// sourcesCommand lists the accepted inputs.
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sources",
		Usage:  "List supported import sources",
		Action: r.Sources,
	}
}

// tuiCommand returns the top-level TUI command for interactive imports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Aliases:   []string{"interactive", "ui"},
		Usage:     "Run an import in the interactive TUI",
		Arguments: inputArgument(),
		Flags: []cli.Flag{
			fileFlag(),
			nameFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write logs to this file while the TUI is running (default: $XDG_STATE_HOME/plimport/tui.log)",
			},
		},
		Action: r.TUI,
	}
}
