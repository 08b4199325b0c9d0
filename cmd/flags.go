/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"magnetfeed/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// siteFlags are shared by every command that scrapes the site
func siteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a TOML configuration file, defaults are used when empty",
			EnvVars: []string{"MAGNETFEED_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "listing-url",
			Usage:   "Listing page URL, overrides the configuration file",
			EnvVars: []string{"MAGNETFEED_LISTING_URL"},
		},
		&cli.IntFlag{
			Name:    "pages",
			Usage:   "Number of listing pages to scrape, overrides the configuration file",
			EnvVars: []string{"MAGNETFEED_PAGES"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			EnvVars: []string{"MAGNETFEED_LOG_LEVEL"},
		},
	}
}

// loadConfig reads the configuration file and applies flag overrides
func loadConfig(ctx *cli.Context) (*config.TomlConfig, error) {
	level, err := log.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	cfg, err := config.LoadConfig(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("listing-url") {
		cfg.Site.ListingURL = ctx.String("listing-url")
	}
	if ctx.IsSet("pages") {
		cfg.Site.Pages = ctx.Int("pages")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
