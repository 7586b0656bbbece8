package driving

import (
	"context"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// RunOptions configures one documentation-sync run.
type RunOptions struct {
	// Base and Head are the commit references bounding the change set.
	Base string
	Head string

	// DryRun produces the plan and synthesized content but skips execution.
	DryRun bool

	// Force skips gap detection and treats documentation as needed.
	Force bool

	// EntryFilter, when non-nil, is consulted before executing each
	// entry; entries it rejects are recorded as skipped. Used by the
	// interactive review flow.
	EntryFilter func(entry domain.PlanEntry) bool
}

// Pipeline runs the full documentation-sync pipeline: change extraction
// and inventory scanning, gap detection, strategy selection, content
// synthesis, and plan execution.
//
// A completed run returns a summary and nil error, including runs where
// no documentation was needed or individual entries failed. A non-nil
// error means the run aborted before a plan existed (e.g. unresolvable
// commit references).
type Pipeline interface {
	Run(ctx context.Context, opts RunOptions) (*domain.RunSummary, error)
}
