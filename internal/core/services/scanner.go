package services

import (
	"context"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// DocStructureScanner builds the wiki inventory for one run.
type DocStructureScanner struct {
	store driven.DocStore
}

// NewDocStructureScanner creates a scanner over a documentation store.
func NewDocStructureScanner(store driven.DocStore) *DocStructureScanner {
	return &DocStructureScanner{store: store}
}

// Scan returns the deduplicated inventory of existing pages. An empty or
// unreachable store yields an empty inventory, not an error: every
// detected concept is then necessarily new.
func (s *DocStructureScanner) Scan(ctx context.Context) domain.WikiInventory {
	pages, err := s.store.ListPages(ctx)
	if err != nil {
		logger.Warn("documentation store unreachable, treating inventory as empty: %v", err)
		return domain.WikiInventory{}
	}

	inv := domain.NewWikiInventory(pages)
	logger.Debug("scanned %d documentation pages", inv.Len())
	return inv
}
