// submodule cmd contains command definitions
package main

import (
	"github.com/k7t3/horzcv/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "session",
		Aliases: []string{"s"},
		Usage:   "Session storage scope (defaults to storage.session)",
	}
}

// setupCommand creates the config file and the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPath,
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   r.configPath,
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "List applied migrations",
				Flags:  jsonFlags(),
				Action: r.MigrationStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.Rollback,
			},
		},
	}
}

// serveCommand runs the lookup server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the streamer lookup API and the chat row page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal client
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Edit and arrange chats in the terminal",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "token",
			},
		},
		Flags: []cli.Flag{
			sessionFlag(),
			&cli.BoolFlag{
				Name:  "new-session",
				Usage: "Start in a fresh session storage scope",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file path",
				Value: "./tmp/horzcv-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// tokenCommand handles history tokens
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Encode and decode chat row tokens",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode stream URLs into a token",
				ArgsUsage: "<url>...",
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.BoolFlag{
						Name:  "no-names",
						Usage: "Leave remembered display names out of the token",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Store the token as the session's last token",
					},
				},
				Action: r.TokenEncode,
			},
			{
				Name:  "decode",
				Usage: "List the streams in a token",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "token",
					},
				},
				Flags:  jsonFlags(),
				Action: r.TokenDecode,
			},
			{
				Name:   "last",
				Usage:  "Print the session's last submitted token",
				Flags:  []cli.Flag{sessionFlag()},
				Action: r.TokenLast,
			},
		},
	}
}

// namesCommand manages remembered display names
func namesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "names",
		Usage: "Manage remembered display names",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List remembered display names, newest first",
				Flags:  jsonFlags(),
				Action: r.NamesList,
			},
			{
				Name:  "get",
				Usage: "Print the display name of a stream",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "stream",
					},
				},
				Action: r.NamesGet,
			},
			{
				Name:  "set",
				Usage: "Remember a display name for a stream",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "stream",
					},
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.NamesSet,
			},
			{
				Name:  "remove",
				Usage: "Forget the display name of a stream",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "stream",
					},
				},
				Action: r.NamesRemove,
			},
			{
				Name:   "clear",
				Usage:  "Forget every display name",
				Action: r.NamesClear,
			},
		},
	}
}

// lookupCommand resolves streamer information
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up streamer names for a URL or every stream in a token",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: append(jsonFlags(),
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Resolve every stream in the token",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Remember resolved names",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Replace names already present in the token",
			},
		),
		Action: r.Lookup,
	}
}

// renderCommand exports a chat row
func renderCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Export the chat row of a token",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "token",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + formatNames(),
				Value:   string(formatter.HTML),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (directory for markdown); stdout when empty",
			},
			&cli.BoolFlag{
				Name:  "resolve",
				Usage: "Look up names and thumbnails before rendering",
			},
		},
		Action: r.Render,
	}
}

// sessionsCommand manages session storage scopes
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Manage session storage",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List sessions, most recent first",
				Flags:  jsonFlags(),
				Action: r.SessionsList,
			},
			{
				Name:  "purge",
				Usage: "Delete sessions not seen for a while",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Age of the sessions to delete",
						Value: defaultSessionAge,
					},
				},
				Action: r.SessionsPurge,
			},
		},
	}
}

func formatNames() string {
	var s string
	for i, f := range formatter.Formats() {
		if i > 0 {
			s += ", "
		}
		s += string(f)
	}
	return s
}
