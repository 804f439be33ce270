package domain

import (
	"fmt"
	"time"
)

// CatalogEntry records one processing attempt for a document.
// Entries are append-only: reprocessing a URL adds a new entry unless the
// caller removed the old ones first.
type CatalogEntry struct {
	// URL is the source location; lookups key on it.
	URL string `json:"url"`

	// Title is the display title recorded at processing time.
	Title string `json:"title"`

	// ProcessedAt is when the attempt finished.
	ProcessedAt time.Time `json:"processed_at"`

	// ChunkCount is how many chunks were indexed (0 on failure).
	ChunkCount int `json:"chunks_count"`

	// Success reports whether the document made it into the vector store.
	Success bool `json:"success"`

	// DocumentID is "doc_<n>" where n is the entry count at insertion time.
	DocumentID string `json:"document_id"`
}

// Catalog is the local record of every processing attempt. It is persisted
// as a single pretty-printed JSON file, rewritten wholesale on change.
type Catalog struct {
	// Documents holds all entries in insertion order.
	Documents []CatalogEntry `json:"documents"`

	// LastUpdated is when the catalog was last written.
	LastUpdated time.Time `json:"last_updated"`

	// TotalProcessed counts entries with Success set.
	TotalProcessed int `json:"total_processed"`
}

// Append adds an entry, assigning its DocumentID from the current entry
// count, and refreshes the derived fields. It does not deduplicate: the
// caller decides whether to Remove an earlier attempt first.
func (c *Catalog) Append(entry CatalogEntry) CatalogEntry {
	entry.DocumentID = fmt.Sprintf("doc_%d", len(c.Documents)+1)
	c.Documents = append(c.Documents, entry)
	c.refresh()
	return entry
}

// Remove deletes every entry recorded for the URL and reports how many
// were removed. DocumentIDs of surviving entries are not renumbered.
func (c *Catalog) Remove(url string) int {
	kept := c.Documents[:0]
	removed := 0
	for _, e := range c.Documents {
		if e.URL == url {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.Documents = kept
	if removed > 0 {
		c.refresh()
	}
	return removed
}

// IsProcessed reports whether the URL has at least one successful entry.
func (c *Catalog) IsProcessed(url string) bool {
	for _, e := range c.Documents {
		if e.URL == url && e.Success {
			return true
		}
	}
	return false
}

func (c *Catalog) refresh() {
	c.LastUpdated = time.Now().UTC()
	succeeded := 0
	for _, e := range c.Documents {
		if e.Success {
			succeeded++
		}
	}
	c.TotalProcessed = succeeded
}

// CatalogSummary aggregates catalog state for display.
type CatalogSummary struct {
	// Entries is the total number of recorded attempts.
	Entries int

	// Succeeded and Failed partition the entries.
	Succeeded int
	Failed    int

	// Chunks is the sum of chunk counts over successful entries.
	Chunks int

	// LastUpdated is when the catalog last changed.
	LastUpdated time.Time
}

// Summarise computes the catalog's summary.
func (c *Catalog) Summarise() CatalogSummary {
	s := CatalogSummary{Entries: len(c.Documents), LastUpdated: c.LastUpdated}
	for _, e := range c.Documents {
		if e.Success {
			s.Succeeded++
			s.Chunks += e.ChunkCount
		} else {
			s.Failed++
		}
	}
	return s
}
