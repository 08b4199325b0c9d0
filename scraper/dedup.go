package scraper

import "magnetfeed/models"

// Deduplicator keeps the first entry seen for every magnet URI.
// It is not safe for concurrent use; every run creates its own.
type Deduplicator struct {
	seen    map[string]struct{}
	entries []models.TorrentEntry
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		seen:    make(map[string]struct{}),
		entries: make([]models.TorrentEntry, 0),
	}
}

// Add appends the entry unless its magnet URI was already added.
// Returns false for duplicates.
func (d *Deduplicator) Add(entry models.TorrentEntry) bool {
	if _, ok := d.seen[entry.MagnetURI]; ok {
		duplicatesDropped.Inc()
		return false
	}
	d.seen[entry.MagnetURI] = struct{}{}
	d.entries = append(d.entries, entry)
	return true
}

// Entries returns the unique entries in first-seen order
func (d *Deduplicator) Entries() []models.TorrentEntry {
	return d.entries
}

// Len is the number of unique entries added so far
func (d *Deduplicator) Len() int {
	return len(d.entries)
}
