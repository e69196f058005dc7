// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/flix/internal/formatter"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func outputFlags() []cli.Flag {
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

func pageFlags() []cli.Flag {
	return append(outputFlags(),
		&cli.IntFlag{
			Name:  "page",
			Usage: "Result page to fetch",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of titles to print (0 for all)",
		},
	)
}

func kindFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "kind",
		Aliases: []string{"k"},
		Usage:   "Media kind: movie or tv",
		Value:   value,
	}
}

func titleArgs() []cli.Argument {
	return []cli.Argument{
		&cli.StringArg{Name: "kind"},
		&cli.StringArg{Name: "id"},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize local storage",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the bundled template",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the SQLite database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// catalogCommand handles read-only TMDB lookups
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"tmdb"},
		Usage:   "Browse the TMDB catalog",
		Commands: []*cli.Command{
			{
				Name:   "trending",
				Usage:  "List this week's trending movies and series",
				Flags:  pageFlags(),
				Action: r.CatalogTrending,
			},
			{
				Name:   "popular",
				Usage:  "List popular movies or series",
				Flags:  append(pageFlags(), kindFlag("movie")),
				Action: r.CatalogPopular,
			},
			{
				Name:   "top-rated",
				Usage:  "List the highest rated movies or series",
				Flags:  append(pageFlags(), kindFlag("movie")),
				Action: r.CatalogTopRated,
			},
			{
				Name:   "now-playing",
				Usage:  "List movies currently in theaters",
				Flags:  pageFlags(),
				Action: r.CatalogNowPlaying,
			},
			{
				Name:   "upcoming",
				Usage:  "List movies releasing soon",
				Flags:  pageFlags(),
				Action: r.CatalogUpcoming,
			},
			{
				Name:      "details",
				Usage:     "Show a title with cast and crew",
				Arguments: titleArgs(),
				Flags: append(outputFlags(),
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the title page on themoviedb.org",
					},
				),
				Action: r.CatalogDetails,
			},
			{
				Name:  "search",
				Usage: "Search movies and TV shows",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: append(pageFlags(),
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Do not record the query in search history",
					},
				),
				Action: r.CatalogSearch,
			},
			{
				Name:  "discover",
				Usage: "List movies matching filters",
				Flags: append(pageFlags(),
					&cli.StringFlag{
						Name:  "genres",
						Usage: "Comma separated genre ids (see 'flix catalog genres')",
					},
					&cli.IntFlag{
						Name:  "year",
						Usage: "Release year",
					},
					&cli.FloatFlag{
						Name:  "min-rating",
						Usage: "Minimum vote average",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort order, e.g. vote_average.desc",
					},
				),
				Action: r.CatalogDiscover,
			},
			{
				Name:   "genres",
				Usage:  "List movie genres",
				Flags:  outputFlags(),
				Action: r.CatalogGenres,
			},
		},
	}
}

// watchlistCommand handles the saved list
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"list", "wl"},
		Usage:   "Manage My List",
		Commands: []*cli.Command{
			{
				Name:    "show",
				Aliases: []string{"list", "ls"},
				Usage:   "List saved titles, newest first",
				Flags:   outputFlags(),
				Action:  r.WatchlistShow,
			},
			{
				Name:      "add",
				Usage:     "Save a title",
				Arguments: titleArgs(),
				Action:    r.WatchlistAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a saved title",
				Arguments: titleArgs(),
				Action:    r.WatchlistRemove,
			},
			{
				Name:      "toggle",
				Usage:     "Save a title, or remove it when already saved",
				Arguments: titleArgs(),
				Action:    r.WatchlistToggle,
			},
			{
				Name:  "clear",
				Usage: "Remove every saved title",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation check",
					},
				},
				Action: r.WatchlistClear,
			},
			{
				Name:  "export",
				Usage: "Export saved titles to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, text or json",
						Value:   formatter.FormatCSV,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.WatchlistExport,
			},
			{
				Name:  "refresh",
				Usage: "Re-fetch every saved title from TMDB",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 4,
					},
				},
				Action: r.WatchlistRefresh,
			},
		},
	}
}

func prefsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "prefs",
		Aliases: []string{"preferences"},
		Usage:   "Read and change saved preferences",
		Commands: []*cli.Command{
			{
				Name:    "show",
				Aliases: []string{"list", "ls"},
				Usage:   "Print all preferences",
				Flags:   outputFlags(),
				Action:  r.PrefsShow,
			},
			{
				Name:  "get",
				Usage: "Print one preference",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
				},
				Action: r.PrefsGet,
			},
			{
				Name:  "set",
				Usage: "Change one preference (true/false and numbers are stored typed)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.PrefsSet,
			},
		},
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Recent search queries",
		Commands: []*cli.Command{
			{
				Name:    "show",
				Aliases: []string{"list", "ls"},
				Usage:   "Print recent searches, most recent first",
				Flags:   outputFlags(),
				Action:  r.HistoryShow,
			},
			{
				Name:   "clear",
				Usage:  "Forget all recent searches",
				Action: r.HistoryClear,
			},
		},
	}
}

// dataCommand handles whole-store backup and maintenance
func dataCommand(r *Runner) *cli.Command {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Backup format: json or yaml",
			Value:   storage.FormatJSON,
		}
	}

	return &cli.Command{
		Name:  "data",
		Usage: "Back up, restore and inspect local data",
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "Write a backup of the watchlist, preferences and search history",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when empty)",
					},
				},
				Action: r.DataExport,
			},
			{
				Name:  "import",
				Usage: "Restore a backup written by 'flix data export'",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags:  []cli.Flag{formatFlag()},
				Action: r.DataImport,
			},
			{
				Name:  "clear",
				Usage: "Delete all flix data from local storage",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation check",
					},
				},
				Action: r.DataClear,
			},
			{
				Name:   "info",
				Usage:  "Show storage backend, size and counts",
				Flags:  outputFlags(),
				Action: r.DataInfo,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive catalog browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "route",
				Aliases: []string{"r"},
				Usage:   "Initial page: #/, #/movies, #/series or #/watchlist",
				Value:   router.Fragment(router.HomePath),
			},
		},
		Action: r.TUI,
	}
}
