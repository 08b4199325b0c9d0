package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"magnetfeed/config"
	"magnetfeed/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream fakes the movie site: every listing page links to detailPath(page)
type upstream struct {
	*httptest.Server

	detailPath func(page string) string
	magnetFor  func(path string) string

	mu         sync.Mutex
	userAgents []string
	pages      []string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{
		detailPath: func(page string) string { return "/movie-" + page + "/" },
		magnetFor: func(path string) string {
			return "magnet:?xt=urn:btih:" + testHash + "&dn=Movie" + path[len("/movie-"):len(path)-1] + ".2024.1080p"
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/movies", func(w http.ResponseWriter, r *http.Request) {
		u.record(r)
		page := r.URL.Query().Get("page")
		fmt.Fprintf(w, `<html><body>
<div class="boxed film"><a href="%s">Movie %s</a></div>
<div class="boxed film"><span>coming soon</span></div>
</body></html>`, u.detailPath(page), page)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		u.record(r)
		fmt.Fprintf(w, `<html><body>
<a class="mv_button_css" href="%s"><small>1.4 GB</small></a>
<a class="mv_button_css" href="http://example.com/watch-online">Watch online</a>
</body></html>`, u.magnetFor(r.URL.Path))
	})

	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)

	return u
}

func (u *upstream) record(r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.userAgents = append(u.userAgents, r.Header.Get("User-Agent"))
	if r.URL.Path == "/movies" {
		u.pages = append(u.pages, r.URL.Query().Get("page"))
	}
}

func testConfig(listingURL string) scraper.Config {
	return scraper.Config{
		ListingURL: listingURL,
		Pages:      3,
		Selectors: scraper.Selectors{
			Listing:  config.DefaultListingSelector,
			Download: config.DefaultDownloadSelector,
			Size:     config.DefaultSizeSelector,
		},
		Headers:    config.DefaultHeaders(),
		Timeout:    5 * time.Second,
		RetryDelay: time.Millisecond,
	}
}

func TestRunCollectsOneEntryPerDetailPage(t *testing.T) {
	up := newUpstream(t)

	entries := scraper.New(testConfig(up.URL + "/movies?sort=featured")).Run(context.Background())

	require.Len(t, entries, 3)
	for i, entry := range entries {
		page := i + 1
		assert.Equal(t, fmt.Sprintf("Movie%d 2024 1080p", page), entry.Title)
		assert.Equal(t, fmt.Sprintf("magnet:?xt=urn:btih:%s&dn=Movie%d.2024.1080p", testHash, page), entry.MagnetURI)
		assert.Equal(t, "1.4 GB", entry.SizeLabel)
		assert.Equal(t, "1080p", entry.Resolution)
		assert.Equal(t, testHash, entry.InfoHash)
	}

	assert.Equal(t, []string{"1", "2", "3"}, up.pages)
	for _, ua := range up.userAgents {
		assert.Equal(t, config.DefaultHeaders()["User-Agent"], ua)
	}
}

func TestRunDropsDuplicateMagnets(t *testing.T) {
	up := newUpstream(t)
	up.detailPath = func(string) string { return "/movie-1/" }

	entries := scraper.New(testConfig(up.URL + "/movies?sort=featured")).Run(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Movie1 2024 1080p", entries[0].Title)
}

func TestRunSkipsFailingPages(t *testing.T) {
	up := newUpstream(t)
	// Page 2 links to a detail page that does not exist
	up.detailPath = func(page string) string {
		if page == "2" {
			return "/missing/"
		}
		return "/movie-" + page + "/"
	}

	var calls atomic.Int32
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			calls.Add(1)
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		up.Config.Handler.ServeHTTP(w, r)
	}))
	defer failing.Close()

	up.magnetFor = func(path string) string {
		if path == "/missing/" {
			return "http://example.com/gone"
		}
		return "magnet:?dn=Movie" + path[len("/movie-"):len(path)-1] + ".720p"
	}

	entries := scraper.New(testConfig(failing.URL + "/movies")).Run(context.Background())

	require.Len(t, entries, 1)
	assert.Equal(t, "Movie3 720p", entries[0].Title)
	assert.Equal(t, int32(1), calls.Load(), "no retries by default")
}

func TestRunWithUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	listingURL := srv.URL + "/movies"
	srv.Close()

	entries := scraper.New(testConfig(listingURL)).Run(context.Background())
	assert.Empty(t, entries)
}

func TestRunRetriesServerErrors(t *testing.T) {
	up := newUpstream(t)

	var calls atomic.Int32
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movies" && calls.Add(1) == 1 {
			http.Error(w, "try again", http.StatusServiceUnavailable)
			return
		}
		up.Config.Handler.ServeHTTP(w, r)
	}))
	defer flaky.Close()

	cfg := testConfig(flaky.URL + "/movies")
	cfg.Pages = 1
	cfg.Retries = 2

	entries := scraper.New(cfg).Run(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/movies")
	cfg.Pages = 1
	cfg.Retries = 3

	entries := scraper.New(cfg).Run(context.Background())
	assert.Empty(t, entries)
	assert.Equal(t, int32(1), calls.Load())
}

func TestListingPageURL(t *testing.T) {
	s := scraper.New(testConfig("https://example.com/movies?sort=featured"))

	u, err := s.ListingPageURL(2)
	require.NoError(t, err)
	assert.Equal(t, "featured", u.Query().Get("sort"))
	assert.Equal(t, "2", u.Query().Get("page"))
	assert.Equal(t, "/movies", u.Path)
}

func TestConfigFromToml(t *testing.T) {
	cfg := scraper.ConfigFromToml(config.Default())

	assert.Equal(t, config.DefaultListingURL, cfg.ListingURL)
	assert.Equal(t, 3, cfg.Pages)
	assert.Equal(t, config.DefaultDownloadSelector, cfg.Selectors.Download)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.PageDelay)
}

func TestRunWithCancelledContext(t *testing.T) {
	up := newUpstream(t)

	cfg := testConfig(up.URL + "/movies")
	cfg.PageDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := scraper.New(cfg).Run(ctx)
	assert.Empty(t, entries)
	assert.Empty(t, up.pages, "no request leaves a cancelled run")
}
