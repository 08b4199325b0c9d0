/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "magnetfeed",
		Usage: "An RSS feed of featured movie magnet links",
		Description: `Scrapes the featured listing pages of a movie site, follows every
		movie to its detail page and collects the magnet links found on the
		download buttons. The links are deduplicated and served as an RSS 2.0
		feed, every request scrapes the site again.

		Flags can generally be set via environment variables, e.g.:

		--config => MAGNETFEED_CONFIG=magnetfeed.toml
		--port => MAGNETFEED_PORT=5000
		`,
		Commands: []*cli.Command{
			serveCmd(),
			scrapeCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
