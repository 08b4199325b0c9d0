/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"magnetfeed/models"
	"magnetfeed/scraper"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func scrapeCmd() *cli.Command {
	return &cli.Command{
		Name:  "scrape",
		Usage: "Scrape the site once and print the magnet links",
		Description: `Runs a single scrape of the configured listing pages and prints
every unique magnet link to the command line.

Returns each entry as a JSON object on a single line. Use a tool like jq to process
the output.

Prints all other log messages to stderr.`,
		Flags: siteFlags(),
		Action: func(ctx *cli.Context) error {
			// Disable logging to stdout
			log.SetOutput(os.Stderr)

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			entries := scraper.New(scraper.ConfigFromToml(cfg)).Run(ctx.Context)
			return printEntries(ctx.App.Writer, entries)
		},
	}
}

// printEntries writes one JSON object per line
func printEntries(w io.Writer, entries []models.TorrentEntry) error {
	encoder := json.NewEncoder(w)
	for i := range entries {
		if err := encoder.Encode(&entries[i]); err != nil {
			return fmt.Errorf("error writing entry: %w", err)
		}
	}
	return nil
}
