package services

import (
	"context"
	"fmt"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// DefaultMaxDiffChars bounds per-file diff text handed to judgment calls.
// The judgment capability has a finite context budget.
const DefaultMaxDiffChars = 8000

// ChangeExtractor produces the ordered change set for one run.
type ChangeExtractor struct {
	source       driven.DiffSource
	maxDiffChars int
}

// NewChangeExtractor creates an extractor over a diff source.
// maxDiffChars <= 0 selects DefaultMaxDiffChars.
func NewChangeExtractor(source driven.DiffSource, maxDiffChars int) *ChangeExtractor {
	if maxDiffChars <= 0 {
		maxDiffChars = DefaultMaxDiffChars
	}
	return &ChangeExtractor{source: source, maxDiffChars: maxDiffChars}
}

// Extract returns the change records between base and head, ordered by
// path with diff text bounded to the configured budget.
//
// An unresolvable reference surfaces as domain.ErrReferenceResolution
// and is fatal for the run: no partial plan is produced.
func (e *ChangeExtractor) Extract(ctx context.Context, base, head string) ([]domain.ChangeRecord, error) {
	changes, err := e.source.Changes(ctx, base, head)
	if err != nil {
		return nil, fmt.Errorf("extract changes %s..%s: %w", base, head, err)
	}

	for i := range changes {
		changes[i].DiffText = domain.TruncateDiff(changes[i].DiffText, e.maxDiffChars)
	}
	domain.SortChanges(changes)

	logger.Debug("extracted %d changed files between %s and %s", len(changes), base, head)
	return changes, nil
}
