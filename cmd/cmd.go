// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// singleAddFlags are shared by the one-shot show/movie commands.
func singleAddFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:     "id",
			Usage:    "Trakt id or slug of the item to add",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "folder",
			Usage: "Override the configured root folder",
		},
		&cli.BoolFlag{
			Name:  "no-search",
			Usage: "Do not start searching after adding",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Show what would be added without adding",
		},
	}
}

// batchFlags are shared by the shows/movies batch commands.
func batchFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:     "list",
			Aliases:  []string{"t"},
			Usage:    "List to process (anticipated, trending, popular, boxoffice, watchlist, recommended, played, watched, person, or a custom list name/URL)",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "add-limit",
			Aliases: []string{"l"},
			Usage:   "Stop after adding this many items (0 = no limit)",
		},
		&cli.FloatFlag{
			Name:    "add-delay",
			Aliases: []string{"d"},
			Usage:   "Seconds to wait between each add",
			Value:   2.5,
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Order to process the list in (votes, rating, release)",
			Value: "votes",
		},
		&cli.StringFlag{
			Name:  "years",
			Usage: "Year or year range to consider, e.g. 2005 or 2000-2010",
		},
		&cli.StringSliceFlag{
			Name:    "genres",
			Aliases: []string{"g"},
			Usage:   "Only consider items with one of these genres (\"ignore\" disables genre filtering)",
		},
		&cli.StringFlag{
			Name:  "person",
			Usage: "Person to fetch credits for (person list only)",
		},
		&cli.BoolFlag{
			Name:  "include-non-acting",
			Usage: "Include non-acting credits on the person list",
		},
		&cli.StringFlag{
			Name:  "authenticate-user",
			Usage: "Trakt user for watchlist and custom lists",
		},
		&cli.StringFlag{
			Name:  "folder",
			Usage: "Override the configured root folder",
		},
		&cli.BoolFlag{
			Name:  "no-search",
			Usage: "Do not start searching after adding",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Show what would be added without adding",
		},
		&cli.BoolFlag{
			Name:  "ignore-blacklist",
			Usage: "Process the list without applying blacklist rules",
		},
		&cli.BoolFlag{
			Name:  "remove-rejected-from-recommended",
			Usage: "Remove rejected items from the recommended list at Trakt",
		},
	}
}

// showCommand adds a single show
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Add a single show by Trakt id or slug",
		Flags:  singleAddFlags(),
		Action: r.Show,
	}
}

// movieCommand adds a single movie
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "movie",
		Usage:  "Add a single movie by Trakt id or slug",
		Flags:  singleAddFlags(),
		Action: r.Movie,
	}
}

// showsCommand processes a show list
func showsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "shows",
		Usage:  "Add new shows from a Trakt list",
		Flags:  batchFlags(),
		Action: r.Shows,
	}
}

// moviesCommand processes a movie list
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "movies",
		Usage:  "Add new movies from a Trakt list",
		Flags:  batchFlags(),
		Action: r.Movies,
	}
}

// runCommand starts automatic mode
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run in automatic mode, sweeping configured lists on their intervals",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "run-now",
				Usage: "Sweep every list immediately instead of waiting one interval",
			},
			&cli.FloatFlag{
				Name:    "add-delay",
				Aliases: []string{"d"},
				Usage:   "Seconds to wait between each add, and between sweeps that fall due together",
				Value:   2.5,
			},
			&cli.BoolFlag{
				Name:  "no-search",
				Usage: "Do not start searching after adding",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be added without adding",
			},
		},
		Action: r.Run,
	}
}

// traktAuthCommand authenticates against Trakt
func traktAuthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "trakt-auth",
		Usage:  "Authenticate with Trakt using the OAuth device flow",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TraktAuth,
	}
}

// historyCommand prints recorded adds
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently added media",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "type",
				Usage: "Limit to one media type (show or movie)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to show",
				Value: 25,
			},
		},
		Action: r.History,
	}
}

// setupCommand writes a starter config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a starter configuration file",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
