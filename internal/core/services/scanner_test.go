package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

func TestScanBuildsInventory(t *testing.T) {
	store := newMockDocStore(
		driven.Page{Title: "Database Schema", Content: "posts table docs", LastModified: time.Now()},
		driven.Page{Title: "API Reference", Content: "endpoints"},
	)
	scanner := NewDocStructureScanner(store)

	inv := scanner.Scan(context.Background())

	assert.Equal(t, 2, inv.Len())
	assert.Equal(t, []string{"API Reference", "Database Schema"}, inv.Titles())
}

func TestScanUnreachableStoreDegradesToEmptyInventory(t *testing.T) {
	store := newMockDocStore()
	store.listErr = domain.ErrStoreUnavailable
	scanner := NewDocStructureScanner(store)

	inv := scanner.Scan(context.Background())

	assert.Zero(t, inv.Len(), "an empty inventory is a valid state, not an error")
}
