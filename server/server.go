package server

import (
	"context"
	"time"

	"magnetfeed/models"
	"magnetfeed/rss"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Source produces the entries of one feed. Implemented by *scraper.Scraper.
type Source interface {
	Run(ctx context.Context) []models.TorrentEntry
}

type ServerConfig struct {

	// Parent context of every feed request, cancel it on shutdown to stop
	// in-flight scrapes. Defaults to context.Background.
	Context context.Context

	// Scrapes the upstream site on every feed request
	Source Source

	// Static channel metadata of the feed
	Channel rss.Channel
}

// Returns a fiber.App instance to be used as an HTTP server for the magnet feed
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		// Diff
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))

	if config.Context != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.SetUserContext(config.Context)
			return c.Next()
		})
	}

	// Every request scrapes the site again, responses are never cached
	app.Get("/rss", func(c *fiber.Ctx) error {
		entries := config.Source.Run(c.UserContext())

		log.WithFields(log.Fields{
			"requestid": c.Locals("requestid"),
			"entries":   len(entries),
		}).Info("Generated feed")

		c.Set(fiber.HeaderContentType, rss.ContentType)
		return c.Status(fiber.StatusOK).SendString(rss.RenderWithFallback(config.Channel, entries))
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return app
}
