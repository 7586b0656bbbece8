package domain

import (
	"sort"
	"strings"
	"time"
)

// FingerprintLength is the length of the normalized content excerpt used
// as a page fingerprint. Long enough to detect concept overlap and
// content drift, short enough to fit many pages in one prompt.
const FingerprintLength = 160

// PageSummary is an immutable snapshot of one documentation page taken
// at inventory time.
type PageSummary struct {
	// Title is the page title, unique within an inventory.
	Title string

	// ApproximateSize is the page content length in characters.
	ApproximateSize int

	// Fingerprint is a short normalized excerpt of the content. It is
	// compared against concepts for overlap detection and against the
	// store's current fingerprint for stale-write detection.
	Fingerprint string

	// LastModified is the page's last modification time.
	// The zero value means the store did not report one.
	LastModified time.Time
}

// WikiInventory is the set of page summaries for one run, deduplicated
// by title. An empty inventory is a valid state: every detected concept
// is necessarily new.
type WikiInventory struct {
	pages map[string]PageSummary
}

// NewWikiInventory builds an inventory from page summaries. Duplicate
// titles keep the most recently modified summary.
func NewWikiInventory(pages []PageSummary) WikiInventory {
	inv := WikiInventory{pages: make(map[string]PageSummary, len(pages))}
	for _, p := range pages {
		inv.Add(p)
	}
	return inv
}

// Add inserts a summary, keeping the most recently modified one when the
// title is already present.
func (inv *WikiInventory) Add(p PageSummary) {
	if inv.pages == nil {
		inv.pages = make(map[string]PageSummary)
	}
	if existing, ok := inv.pages[p.Title]; ok {
		if !p.LastModified.After(existing.LastModified) {
			return
		}
	}
	inv.pages[p.Title] = p
}

// Get returns the summary for a title.
func (inv WikiInventory) Get(title string) (PageSummary, bool) {
	p, ok := inv.pages[title]
	return p, ok
}

// Has reports whether a title exists in the inventory.
func (inv WikiInventory) Has(title string) bool {
	_, ok := inv.pages[title]
	return ok
}

// Len returns the number of pages.
func (inv WikiInventory) Len() int {
	return len(inv.pages)
}

// Pages returns summaries sorted by title.
func (inv WikiInventory) Pages() []PageSummary {
	out := make([]PageSummary, 0, len(inv.pages))
	for _, p := range inv.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Titles returns all page titles sorted.
func (inv WikiInventory) Titles() []string {
	out := make([]string, 0, len(inv.pages))
	for t := range inv.pages {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// PageFingerprint computes the fingerprint for page content: the first
// FingerprintLength characters with whitespace collapsed. Every doc
// store adapter uses this helper so fingerprints compare across stores.
func PageFingerprint(content string) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) > FingerprintLength {
		runes = runes[:FingerprintLength]
	}
	return string(runes)
}

// PreferPage reports whether a should be preferred over b when a concept
// maps to both with equal relevance: most recent LastModified first,
// larger ApproximateSize as the final tie-break.
func PreferPage(a, b PageSummary) bool {
	if !a.LastModified.Equal(b.LastModified) {
		return a.LastModified.After(b.LastModified)
	}
	return a.ApproximateSize > b.ApproximateSize
}
