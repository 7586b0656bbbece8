package driven

import (
	"context"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// DiffSource produces changed-file records between two commit references.
//
// Implementations wrap unresolvable references in
// domain.ErrReferenceResolution; that error is fatal for the run.
type DiffSource interface {
	// Changes returns one record per changed file between base and head.
	// Record ordering is not guaranteed; the extractor sorts by path.
	Changes(ctx context.Context, base, head string) ([]domain.ChangeRecord, error)

	// Close releases resources.
	Close() error
}
