package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// defaultListLimit caps ListRuns when the caller passes no limit.
const defaultListLimit = 20

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores a completed run summary. Re-saving the same run ID
// replaces the stored record.
func (s *runStore) SaveRun(ctx context.Context, summary domain.RunSummary) error {
	if summary.RunID == "" {
		return domain.ErrInvalidInput
	}

	assessmentJSON, err := json.Marshal(summary.Assessment)
	if err != nil {
		return fmt.Errorf("marshalling assessment: %w", err)
	}
	planJSON, err := json.Marshal(summary.Plan)
	if err != nil {
		return fmt.Errorf("marshalling plan: %w", err)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, repository, base, head, dry_run, assessment, plan, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			repository = excluded.repository,
			base = excluded.base,
			head = excluded.head,
			dry_run = excluded.dry_run,
			assessment = excluded.assessment,
			plan = excluded.plan,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, summary.RunID, nullString(summary.Repository), summary.Base, summary.Head,
		boolToInt(summary.DryRun), string(assessmentJSON), string(planJSON),
		summary.StartedAt.UTC().Format(time.RFC3339Nano),
		summary.FinishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_results WHERE run_id = ?", summary.RunID); err != nil {
		return fmt.Errorf("clearing run results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results
			(run_id, position, entry_id, action, target_page, content_type, outcome, error_detail, page_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range summary.Results {
		if _, err := stmt.ExecContext(ctx, summary.RunID, i,
			r.Entry.ID, string(r.Entry.Action), nullString(r.Entry.TargetPage),
			string(r.Entry.ContentType), string(r.Outcome),
			nullString(r.ErrorDetail), nullString(r.PageURL)); err != nil {
			return fmt.Errorf("saving run result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, runID string) (*domain.RunSummary, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT run_id, repository, base, head, dry_run, assessment, plan, started_at, finished_at
		FROM runs WHERE run_id = ?
	`, runID)

	summary, err := scanRun(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	results, err := s.loadResults(ctx, runID)
	if err != nil {
		return nil, err
	}
	summary.Results = results

	return summary, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit falls back to a default page size.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id, repository, base, head, dry_run, assessment, plan, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, run_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		summary, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range summaries {
		results, err := s.loadResults(ctx, summaries[i].RunID)
		if err != nil {
			return nil, err
		}
		summaries[i].Results = results
	}

	return summaries, nil
}

// Close closes the underlying database.
func (s *runStore) Close() error {
	return s.store.Close()
}

// loadResults fetches the per-entry results for a run in plan order.
func (s *runStore) loadResults(ctx context.Context, runID string) ([]domain.ExecutionResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT entry_id, action, target_page, content_type, outcome, error_detail, page_url
		FROM run_results WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run results: %w", err)
	}
	defer rows.Close()

	var results []domain.ExecutionResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.ExecutionResult
		var action, contentType, outcome string
		var targetPage, errorDetail, pageURL sql.NullString
		if err := rows.Scan(&r.Entry.ID, &action, &targetPage, &contentType,
			&outcome, &errorDetail, &pageURL); err != nil {
			return nil, fmt.Errorf("scanning run result: %w", err)
		}
		r.Entry.Action = domain.Action(action)
		r.Entry.TargetPage = targetPage.String
		r.Entry.ContentType = domain.ContentType(contentType)
		r.Outcome = domain.Outcome(outcome)
		r.ErrorDetail = errorDetail.String
		r.PageURL = pageURL.String
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run results: %w", err)
	}

	return results, nil
}

// scanRun scans one runs row via the given Scan function.
func scanRun(scan func(dest ...any) error) (*domain.RunSummary, error) {
	var summary domain.RunSummary
	var repository sql.NullString
	var dryRun int
	var assessmentJSON, planJSON, startedAt, finishedAt string

	if err := scan(&summary.RunID, &repository, &summary.Base, &summary.Head,
		&dryRun, &assessmentJSON, &planJSON, &startedAt, &finishedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	summary.Repository = repository.String
	summary.DryRun = dryRun != 0

	if err := json.Unmarshal([]byte(assessmentJSON), &summary.Assessment); err != nil {
		return nil, fmt.Errorf("unmarshalling assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(planJSON), &summary.Plan); err != nil {
		return nil, fmt.Errorf("unmarshalling plan: %w", err)
	}

	var err error
	if summary.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if summary.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}

	return &summary, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// boolToInt converts a bool to 1 (true) or 0 (false).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
