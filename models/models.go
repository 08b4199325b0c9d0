package models

// TorrentEntry is a single magnet link found on a detail page
type TorrentEntry struct {
	Title      string `json:"title"`
	MagnetURI  string `json:"magnet"`
	SizeLabel  string `json:"size"`
	Resolution string `json:"resolution"`

	// Hex encoded BitTorrent info hash, empty if the magnet has none
	InfoHash string `json:"infoHash,omitempty"`
}

// FeedTitle is the item title shown in feed readers, e.g. "Movie 2024 (1080p)"
func (e TorrentEntry) FeedTitle() string {
	return e.Title + " (" + e.Resolution + ")"
}

// FeedDescription is the item description, e.g. "Size: 1.4 GB"
func (e TorrentEntry) FeedDescription() string {
	return "Size: " + e.SizeLabel
}
