package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"magnetfeed/config"
	"magnetfeed/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Config holds everything a scrape run needs to know about the upstream site
type Config struct {
	// Listing URL, the page query parameter is added for every page
	ListingURL string
	Pages      int
	Selectors  Selectors

	// Headers sent with every request
	Headers map[string]string

	Timeout    time.Duration
	PageDelay  time.Duration
	Retries    int
	RetryDelay time.Duration
}

func ConfigFromToml(cfg *config.TomlConfig) Config {
	return Config{
		ListingURL: cfg.Site.ListingURL,
		Pages:      cfg.Site.Pages,
		Selectors: Selectors{
			Listing:  cfg.Site.ListingSelector,
			Download: cfg.Site.DownloadSelector,
			Size:     cfg.Site.SizeSelector,
		},
		Headers:    cfg.Site.Headers,
		Timeout:    cfg.HTTP.Timeout.Duration,
		PageDelay:  cfg.HTTP.PageDelay.Duration,
		Retries:    cfg.HTTP.Retries,
		RetryDelay: cfg.HTTP.RetryDelay.Duration,
	}
}

// Scraper crawls listing pages, follows their detail pages and collects magnet links.
// Runs share no state, so a Scraper can serve concurrent requests.
type Scraper struct {
	config  Config
	fetcher *fetcher
}

func New(config Config) *Scraper {
	return &Scraper{
		config:  config,
		fetcher: newFetcher(config),
	}
}

// ListingPageURL returns the listing URL with the page query parameter set
func (s *Scraper) ListingPageURL(page int) (*url.URL, error) {
	u, err := url.Parse(s.config.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("invalid listing url: %w", err)
	}

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	return u, nil
}

// Run scrapes all listing pages and returns the unique entries in first-seen order.
// Failed pages are logged and skipped, so the result may be empty but never an error.
func (s *Scraper) Run(ctx context.Context) []models.TorrentEntry {
	start := time.Now()
	logger := log.WithFields(log.Fields{
		"run":   uuid.New().String(),
		"pages": s.config.Pages,
	})
	logger.Info("Starting scrape run")

	dedup := NewDeduplicator()

	for page := 1; page <= s.config.Pages; page++ {
		detailURLs, err := s.FetchListing(ctx, page)
		if err != nil {
			fetchErrors.WithLabelValues(kindListing).Inc()
			logger.WithFields(log.Fields{
				"page":  page,
				"error": err,
			}).Warn("Skipping listing page")
			continue
		}

		for _, detailURL := range detailURLs {
			for _, entry := range s.FetchDetail(ctx, detailURL) {
				dedup.Add(entry)
			}
		}

		logger.WithFields(log.Fields{
			"page":    page,
			"details": len(detailURLs),
			"unique":  dedup.Len(),
		}).Debug("Processed listing page")

		// Small delay to avoid being blocked
		s.pause(ctx)
	}

	entries := dedup.Entries()
	entriesEmitted.Add(float64(len(entries)))
	runDuration.Observe(time.Since(start).Seconds())

	logger.WithFields(log.Fields{
		"entries": len(entries),
		"latency": time.Since(start),
	}).Info("Finished scrape run")

	return entries
}

// FetchListing returns the detail page URLs found on one listing page
func (s *Scraper) FetchListing(ctx context.Context, page int) ([]string, error) {
	pageURL, err := s.ListingPageURL(page)
	if err != nil {
		return nil, err
	}

	doc, err := s.fetcher.fetch(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}
	pagesFetched.WithLabelValues(kindListing).Inc()

	return ParseListing(doc, s.config.Selectors.Listing, pageURL), nil
}

// FetchDetail returns the entries of one detail page. A failed fetch yields no entries.
func (s *Scraper) FetchDetail(ctx context.Context, detailURL string) []models.TorrentEntry {
	doc, err := s.fetcher.fetch(ctx, detailURL)
	if err != nil {
		fetchErrors.WithLabelValues(kindDetail).Inc()
		log.WithFields(log.Fields{
			"url":   detailURL,
			"error": err,
		}).Warn("Skipping detail page")
		return []models.TorrentEntry{}
	}
	pagesFetched.WithLabelValues(kindDetail).Inc()

	links := ParseDetail(doc, s.config.Selectors)
	entries := make([]models.TorrentEntry, 0, len(links))
	for _, link := range links {
		entries = append(entries, NewEntry(link.URI, link.Size))
	}

	return entries
}

func (s *Scraper) pause(ctx context.Context) {
	if s.config.PageDelay <= 0 {
		return
	}

	timer := time.NewTimer(s.config.PageDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
