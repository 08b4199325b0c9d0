package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
)

type fetcher struct {
	client     *http.Client
	headers    map[string]string
	retries    int
	retryDelay time.Duration
}

func newFetcher(config Config) *fetcher {
	return &fetcher{
		client:     &http.Client{Timeout: config.Timeout},
		headers:    config.Headers,
		retries:    config.Retries,
		retryDelay: config.RetryDelay,
	}
}

// fetch downloads and parses a page. With zero retries exactly one attempt is made.
func (f *fetcher) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	var doc *goquery.Document

	operation := func() error {
		d, err := f.get(ctx, target)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryDelay), uint64(f.retries)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return doc, nil
}

func (f *fetcher) get(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", target, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d from %s", res.StatusCode, target)
		// Client errors will not go away by asking again
		if res.StatusCode >= 400 && res.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", target, err)
	}

	return doc, nil
}
