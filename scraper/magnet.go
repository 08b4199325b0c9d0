package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"magnetfeed/models"

	"github.com/anacrolix/torrent/metainfo"
)

const (
	magnetPrefix      = "magnet:"
	unknownTitle      = "Unknown Title"
	unknownSize       = "Unknown Size"
	unknownResolution = "Unknown Resolution"
)

var resolutionExpr = regexp.MustCompile(`\d{3,4}p`)

// IsMagnet reports whether href is a magnet link
func IsMagnet(href string) bool {
	return strings.HasPrefix(href, magnetPrefix)
}

// TitleFromMagnet returns the first non-empty dn parameter of the magnet
// with dots replaced by spaces
func TitleFromMagnet(magnet string) string {
	_, rawQuery, _ := strings.Cut(magnet, "?")
	rawQuery, _, _ = strings.Cut(rawQuery, "#")

	// Pairs are split by hand: url.ParseQuery rejects ";" and stray "%"
	// which show up in real release names
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || unescapeQuery(key) != "dn" {
			continue
		}
		if title := unescapeQuery(value); title != "" {
			return strings.ReplaceAll(title, ".", " ")
		}
	}

	return unknownTitle
}

// unescapeQuery decodes a query component, keeping malformed escapes as they are
func unescapeQuery(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}

	s = strings.ReplaceAll(s, "+", " ")

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// ResolutionFromTitle returns the first "720p" style token of the title
func ResolutionFromTitle(title string) string {
	if match := resolutionExpr.FindString(title); match != "" {
		return match
	}
	return unknownResolution
}

// InfoHashFromMagnet returns the hex info hash of a btih magnet or an empty string
func InfoHashFromMagnet(magnet string) string {
	m, err := metainfo.ParseMagnetUri(magnet)
	if err != nil {
		return ""
	}
	return m.InfoHash.HexString()
}

// NewEntry derives a TorrentEntry from a magnet link and its size label
func NewEntry(magnet string, size string) models.TorrentEntry {
	title := TitleFromMagnet(magnet)
	if size == "" {
		size = unknownSize
	}

	return models.TorrentEntry{
		Title:      title,
		MagnetURI:  magnet,
		SizeLabel:  size,
		Resolution: ResolutionFromTitle(title),
		InfoHash:   InfoHashFromMagnet(magnet),
	}
}
