package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// Selectors describe the HTML fragments we expect from the upstream site.
//
// A listing page holds one Listing element per movie, and the first anchor
// inside it links to the movie's detail page. A detail page holds Download
// anchors whose href is a magnet URI, each with an optional Size element
// inside the anchor or directly after it.
//
// Anything that does not match this shape is skipped: a listing element
// without an anchor or href, a download anchor whose href is not a magnet.
// A site redesign therefore yields fewer or zero entries, never an error.
type Selectors struct {
	Listing  string
	Download string
	Size     string
}

// MagnetLink is a raw magnet URI with the size label shown next to it
type MagnetLink struct {
	URI  string
	Size string
}

// ParseListing returns the detail page URLs of a listing page in document order.
// Relative links are resolved against base when it is not nil.
func ParseListing(doc *goquery.Document, selector string, base *url.URL) []string {
	links := doc.Find(selector).Map(func(_ int, s *goquery.Selection) string {
		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return ""
		}
		return resolve(base, strings.TrimSpace(href))
	})

	return lo.Compact(links)
}

// ParseDetail returns the magnet links of a detail page in document order
func ParseDetail(doc *goquery.Document, selectors Selectors) []MagnetLink {
	links := make([]MagnetLink, 0)

	doc.Find(selectors.Download).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !IsMagnet(href) {
			return
		}

		links = append(links, MagnetLink{
			URI:  href,
			Size: sizeLabel(s, selectors.Size),
		})
	})

	return links
}

func sizeLabel(anchor *goquery.Selection, selector string) string {
	if selector == "" {
		return unknownSize
	}

	size := anchor.Find(selector).First()
	if size.Length() == 0 {
		size = anchor.NextFiltered(selector)
	}
	if size.Length() == 0 {
		return unknownSize
	}

	return strings.TrimSpace(size.Text())
}

func resolve(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
