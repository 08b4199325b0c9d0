package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magnetfeed_pages_fetched_total",
		Help: "The total number of upstream pages fetched successfully",
	}, []string{"kind"})

	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "magnetfeed_fetch_errors_total",
		Help: "The total number of upstream pages skipped because the fetch failed",
	}, []string{"kind"})

	entriesEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "magnetfeed_entries_total",
		Help: "The total number of unique torrent entries produced by scrape runs",
	})

	duplicatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "magnetfeed_duplicates_dropped_total",
		Help: "The total number of torrent entries dropped as duplicates",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "magnetfeed_run_duration_seconds",
		Help:    "Duration of complete scrape runs",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // Start at 500ms, double each bucket
	})
)

const (
	kindListing = "listing"
	kindDetail  = "detail"
)
