// Package rss renders scraped torrent entries as an RSS 2.0 document
package rss

import (
	"magnetfeed/models"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	// ContentType of rendered documents
	ContentType = "application/xml; charset=utf-8"

	noDataTitle = "No Data"
)

// Channel is the static metadata of the feed
type Channel struct {
	Title       string
	Link        string
	Description string
}

// Render builds the feed for the given entries. An empty list renders a
// channel titled "No Data" without items.
//
// Text is escaped by the XML encoder, so entries must hold raw strings.
func Render(channel Channel, entries []models.TorrentEntry) (string, error) {
	if len(entries) == 0 {
		return NoData(channel)
	}

	feed := &feeds.Feed{
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.Link},
		Description: channel.Description,
		Items: lo.Map(entries, func(entry models.TorrentEntry, _ int) *feeds.Item {
			return &feeds.Item{
				Id:          entry.InfoHash,
				Title:       entry.FeedTitle(),
				Link:        &feeds.Link{Href: entry.MagnetURI},
				Description: entry.FeedDescription(),
			}
		}),
	}

	return feed.ToRss()
}

// NoData renders the placeholder feed returned when nothing was scraped
func NoData(channel Channel) (string, error) {
	feed := &feeds.Feed{
		Title: noDataTitle,
		Link:  &feeds.Link{Href: channel.Link},
	}
	return feed.ToRss()
}

// RenderWithFallback never fails: a render error is logged and the placeholder feed
// is returned instead, or a hardcoded document as the very last resort.
func RenderWithFallback(channel Channel, entries []models.TorrentEntry) string {
	document, err := Render(channel, entries)
	if err == nil {
		return document
	}

	log.WithFields(log.Fields{
		"entries": len(entries),
		"error":   err,
	}).Error("Error rendering feed")

	if document, err = NoData(channel); err == nil {
		return document
	}
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>No Data</title></channel></rss>`
}
