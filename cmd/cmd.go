// submodule cmd contains command definitions
package main

import (
	"fmt"
	"strings"

	"github.com/desertthunder/toptracks/internal/formatter"
	"github.com/desertthunder/toptracks/internal/models"
	"github.com/urfave/cli/v3"
)

// serveCommand runs the web service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web service (auth routes, top items API, health and metrics)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles OAuth helpers for local use
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorization helpers",
		Commands: []*cli.Command{
			{
				Name:  "url",
				Usage: "Print the Spotify consent-screen URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "state",
						Usage: "Opaque state value appended to the URL",
					},
					&cli.BoolFlag{
						Name:  "copy",
						Usage: "Copy the URL to the clipboard",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the URL in the default browser",
					},
				},
				Action: r.AuthURL,
			},
			{
				Name:  "refresh",
				Usage: "Exchange a refresh token for a new access token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "token",
						Aliases:  []string{"t"},
						Usage:    "Refresh token",
						Sources:  cli.EnvVars("SPOTIFY_REFRESH_TOKEN"),
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthRefresh,
			},
		},
	}
}

// topCommand fetches top items with an access token
func topCommand(r *Runner) *cli.Command {
	formats := make([]string, 0, len(formatter.Formats))
	for _, f := range formatter.Formats {
		formats = append(formats, string(f))
	}

	return &cli.Command{
		Name:  "top",
		Usage: "Show your top tracks or artists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "token",
				Aliases:  []string{"t"},
				Usage:    "Access token",
				Sources:  cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "refresh-token",
				Usage:   "Refresh token, used once if the access token has expired",
				Sources: cli.EnvVars("SPOTIFY_REFRESH_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "tracks or artists",
				Value: string(models.ItemTypeTracks),
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   fmt.Sprintf("Number of items (1-%d)", models.MaxLimit),
				Value:   20,
			},
			&cli.StringFlag{
				Name:  "time-range",
				Usage: "short_term, medium_term or long_term",
				Value: string(models.MediumTerm),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (" + strings.Join(formats, ", ") + ")",
				Value:   string(formatter.FormatText),
			},
		},
		Action: r.Top,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration helpers",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write an example config file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file (defaults to --config)",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the resolved configuration with secrets masked",
				Action: r.ConfigShow,
			},
		},
	}
}
