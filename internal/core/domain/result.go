package domain

import "time"

// Outcome is the per-entry execution result.
type Outcome string

// Execution outcomes.
const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ExecutionResult records what happened to one plan entry. One entry
// failing never blocks subsequent entries.
type ExecutionResult struct {
	Entry ExecutedEntry `json:"entry"`

	Outcome Outcome `json:"outcome"`

	// ErrorDetail explains a failed outcome.
	ErrorDetail string `json:"error_detail,omitempty"`

	// PageURL points at the written page for applied outcomes, when the
	// store can produce one.
	PageURL string `json:"page_url,omitempty"`
}

// ExecutedEntry is the subset of PlanEntry recorded per result: the
// synthesized content is kept on the plan, not duplicated per result.
type ExecutedEntry struct {
	ID          string      `json:"id"`
	Action      Action      `json:"action"`
	TargetPage  string      `json:"target_page,omitempty"`
	ContentType ContentType `json:"content_type"`
}

// RunSummary is the auditable record of one pipeline run. The summary
// enumerates every plan entry with its outcome; failed entries are never
// silently dropped.
type RunSummary struct {
	RunID      string        `json:"run_id"`
	Repository string        `json:"repository,omitempty"`
	Base       string        `json:"base"`
	Head       string        `json:"head"`
	DryRun     bool          `json:"dry_run"`
	Assessment GapAssessment `json:"assessment"`
	Plan       Plan          `json:"plan"`
	Results    []ExecutionResult `json:"results,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}

// Counts tallies results per outcome.
func (s RunSummary) Counts() (applied, skipped, failed int) {
	for _, r := range s.Results {
		switch r.Outcome {
		case OutcomeApplied:
			applied++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return applied, skipped, failed
}
