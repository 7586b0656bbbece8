package driven

import (
	"context"
	"time"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// Page is the full content of one documentation page as read from the store.
type Page struct {
	Title   string
	Content string

	// Fingerprint is domain.PageFingerprint(Content), computed by the
	// store so callers compare like for like.
	Fingerprint string

	// LastModified is zero when the store does not track it.
	LastModified time.Time
}

// DocStore is the documentation-store boundary: a wiki-like repository of
// titled pages.
//
// Error contract:
//   - ListPages wraps transport failures in domain.ErrStoreUnavailable
//   - ReadPage returns domain.ErrNotFound for missing pages
//   - WritePage returns domain.ErrStaleWrite when expectedFingerprint is
//     non-empty and no longer matches the stored page
type DocStore interface {
	// ListPages returns a summary of every page in the store.
	ListPages(ctx context.Context) ([]domain.PageSummary, error)

	// ReadPage returns the current content of a page.
	ReadPage(ctx context.Context, title string) (*Page, error)

	// WritePage creates or replaces a page. A non-empty
	// expectedFingerprint makes the write conditional: it fails with
	// domain.ErrStaleWrite if the stored page's fingerprint differs.
	// An empty expectedFingerprint requires the page to not exist and
	// fails with domain.ErrAlreadyExists otherwise.
	WritePage(ctx context.Context, title, content, expectedFingerprint string) error

	// PageURL returns a user-facing URL for a page, or "" when the store
	// has no web representation.
	PageURL(title string) string

	// Close releases resources.
	Close() error
}
