package driven

import (
	"context"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// RunStore persists run summaries as an audit log. Plans are transient
// per run; the store keeps the auditable record of what was decided and
// what happened.
type RunStore interface {
	// SaveRun stores a completed run summary.
	SaveRun(ctx context.Context, summary domain.RunSummary) error

	// GetRun retrieves a run by ID. Returns domain.ErrNotFound when absent.
	GetRun(ctx context.Context, runID string) (*domain.RunSummary, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Close releases resources.
	Close() error
}
