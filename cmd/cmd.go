// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "ytsync",
		Usage:   "Mirror a YouTube playlist into a local music directory",
		Version: version,
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (default: $XDG_CONFIG_HOME/youtubeSync/config.json)",
			},
			&cli.BoolFlag{
				Name:    "id3tag",
				Aliases: []string{"t"},
				Usage:   "Tag downloaded files with artist and title",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print skipped items and debug logs",
			},
			&cli.BoolFlag{
				Name:    "simulate",
				Aliases: []string{"s"},
				Usage:   "Do not download anything",
			},
		},
		Action:   r.Sync,
		Commands: r.register(),
	}
}

// syncCommand runs the sync explicitly; it shares the root flags.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Download missing playlist items and remove files no longer in the playlist",
		Action: r.Sync,
	}
}

// configCommand handles the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "path",
				Usage:  "Print the configuration file path",
				Action: r.ConfigPath,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}

// historyCommand handles recorded sync runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded sync runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to list",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only list runs of this playlist id",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:      "show",
				Usage:     "Show one run (sequence number, id or \"latest\")",
				ArgsUsage: "<run>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Report format: text, md or csv",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the report to a file instead of stdout",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:      "delete",
				Usage:     "Hide a run from the history",
				ArgsUsage: "<run>",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run",
					},
				},
				Action: r.HistoryDelete,
			},
			{
				Name:  "migrate",
				Usage: "Apply pending history migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration instead",
					},
				},
				Action: r.HistoryMigrate,
			},
		},
	}
}
