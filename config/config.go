package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListingURL       = "https://www.5movierulz.futbol/movies?sort=featured"
	DefaultPages            = 3
	DefaultListingSelector  = "div.boxed.film"
	DefaultDownloadSelector = "a.mv_button_css"
	DefaultSizeSelector     = "small"
	DefaultTimeout          = 30 * time.Second
	DefaultPageDelay        = 1 * time.Second
	DefaultRetryDelay       = 2 * time.Second

	DefaultFeedTitle       = "5MovieRulz - Featured Torrents"
	DefaultFeedDescription = "Latest Featured Movie Torrent Links"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// TomlSite describes the upstream site and the HTML fragments we expect from it
type TomlSite struct {
	ListingURL       string            `toml:"listing_url"`
	Pages            int               `toml:"pages"`
	ListingSelector  string            `toml:"listing_selector"`
	DownloadSelector string            `toml:"download_selector"`
	SizeSelector     string            `toml:"size_selector"`
	Headers          map[string]string `toml:"headers"`
}

// TomlHTTP holds the outbound HTTP client settings
type TomlHTTP struct {
	Timeout    Duration `toml:"timeout"`
	PageDelay  Duration `toml:"page_delay"`
	Retries    int      `toml:"retries"`
	RetryDelay Duration `toml:"retry_delay"`
}

// TomlFeed holds the static channel metadata of the generated feed
type TomlFeed struct {
	Title       string `toml:"title"`
	Link        string `toml:"link,omitempty"` // Defaults to the listing URL
	Description string `toml:"description"`
}

// TomlConfig represents the top-level configuration
type TomlConfig struct {
	Site TomlSite `toml:"site"`
	HTTP TomlHTTP `toml:"http"`
	Feed TomlFeed `toml:"feed"`
}

// DefaultHeaders makes requests look like they come from a desktop browser
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Referer":         "https://www.5movierulz.futbol/",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func Default() *TomlConfig {
	return &TomlConfig{
		Site: TomlSite{
			ListingURL:       DefaultListingURL,
			Pages:            DefaultPages,
			ListingSelector:  DefaultListingSelector,
			DownloadSelector: DefaultDownloadSelector,
			SizeSelector:     DefaultSizeSelector,
			Headers:          DefaultHeaders(),
		},
		HTTP: TomlHTTP{
			Timeout:    Duration{DefaultTimeout},
			PageDelay:  Duration{DefaultPageDelay},
			Retries:    0,
			RetryDelay: Duration{DefaultRetryDelay},
		},
		Feed: TomlFeed{
			Title:       DefaultFeedTitle,
			Description: DefaultFeedDescription,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. An empty path returns the defaults.
func LoadConfig(path string) (*TomlConfig, error) {
	config := Default()
	if path == "" {
		return config, config.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

func (c *TomlConfig) Validate() error {
	u, err := url.Parse(c.Site.ListingURL)
	if err != nil {
		return fmt.Errorf("listing_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("listing_url must be an http(s) URL, got %q", c.Site.ListingURL)
	}

	switch {
	case c.Site.Pages < 1:
		return errors.New("pages must be at least 1")
	case c.Site.ListingSelector == "":
		return errors.New("listing_selector must not be empty")
	case c.Site.DownloadSelector == "":
		return errors.New("download_selector must not be empty")
	case c.HTTP.Timeout.Duration <= 0:
		return errors.New("timeout must be positive")
	case c.HTTP.PageDelay.Duration < 0:
		return errors.New("page_delay must not be negative")
	case c.HTTP.Retries < 0:
		return errors.New("retries must not be negative")
	}

	return nil
}

// FeedLink is the channel link, falling back to the listing URL
func (c *TomlConfig) FeedLink() string {
	if c.Feed.Link != "" {
		return c.Feed.Link
	}
	return c.Site.ListingURL
}
