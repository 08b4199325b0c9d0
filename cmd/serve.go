/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"magnetfeed/rss"
	"magnetfeed/scraper"
	"magnetfeed/server"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the magnet feed",
		Description: `Starts the HTTP server on the specified or default port.

The feed is available at /rss. Every request scrapes the configured
listing pages again, nothing is cached between requests. Prometheus
metrics are available at /metrics.`,
		Flags: append(siteFlags(),
			&cli.StringFlag{
				Name:    "host",
				Value:   "0.0.0.0",
				Usage:   "Host to listen on",
				EnvVars: []string{"MAGNETFEED_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   5000,
				Usage:   "Port to listen on",
				EnvVars: []string{"MAGNETFEED_PORT"},
			},
		),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			// Cancelled on shutdown so running scrapes stop fetching
			runCtx, cancel := context.WithCancel(ctx.Context)
			defer cancel()

			app := server.Server(&server.ServerConfig{
				Context: runCtx,
				Source: scraper.New(scraper.ConfigFromToml(cfg)),
				Channel: rss.Channel{
					Title:       cfg.Feed.Title,
					Link:        cfg.FeedLink(),
					Description: cfg.Feed.Description,
				},
			})

			// Graceful shutdown
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt, syscall.SIGTERM)

			go func() {
				<-c
				log.Info("Gracefully shutting down...")
				cancel()
				if err := app.ShutdownWithTimeout(60 * time.Second); err != nil {
					log.WithField("error", err).Error("Error shutting down server")
				}
			}()

			address := fmt.Sprintf("%s:%d", ctx.String("host"), ctx.Int("port"))
			log.WithFields(log.Fields{
				"address": address,
				"listing": cfg.Site.ListingURL,
				"pages":   cfg.Site.Pages,
			}).Info("Starting server")

			if err := app.Listen(address); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}

			log.Info("Done!")
			return nil
		},
	}
}
