package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "docsync-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// testSummary builds a run summary with two results for fixtures.
func testSummary(runID string, startedAt time.Time) domain.RunSummary {
	return domain.RunSummary{
		RunID:      runID,
		Repository: "driftdocs/sample-app",
		Base:       "main",
		Head:       "feature/subtitle",
		Assessment: domain.GapAssessment{
			NeedsDocumentation: true,
			Reasoning:          "schema change adds a column",
			AffectedConcepts:   []string{"posts table"},
		},
		Plan: domain.Plan{Entries: []domain.PlanEntry{
			{
				ID:          runID + "-entry-1",
				Action:      domain.ActionAppendPage,
				TargetPages: []string{"Database Schema"},
				ContentType: domain.ContentSchema,
				Rationale:   "existing schema page covers the posts table",
				Concepts:    []string{"posts table"},
			},
			{
				ID:          runID + "-entry-2",
				Action:      domain.ActionSkip,
				ContentType: domain.ContentOther,
			},
		}},
		Results: []domain.ExecutionResult{
			{
				Entry: domain.ExecutedEntry{
					ID:          runID + "-entry-1",
					Action:      domain.ActionAppendPage,
					TargetPage:  "Database Schema",
					ContentType: domain.ContentSchema,
				},
				Outcome: domain.OutcomeApplied,
				PageURL: "https://github.com/driftdocs/sample-app/wiki/Database-Schema",
			},
			{
				Entry: domain.ExecutedEntry{
					ID:          runID + "-entry-2",
					Action:      domain.ActionSkip,
					ContentType: domain.ContentOther,
				},
				Outcome: domain.OutcomeSkipped,
			},
		},
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(42 * time.Second),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "docsync-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Reopening runs migrate again against the same file
	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store2.Close())
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	startedAt := time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
	summary := testSummary("run-1", startedAt)
	require.NoError(t, runs.SaveRun(ctx, summary))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "driftdocs/sample-app", got.Repository)
	assert.Equal(t, "main", got.Base)
	assert.Equal(t, "feature/subtitle", got.Head)
	assert.False(t, got.DryRun)
	assert.True(t, got.Assessment.NeedsDocumentation)
	assert.Equal(t, []string{"posts table"}, got.Assessment.AffectedConcepts)
	require.Len(t, got.Plan.Entries, 2)
	assert.Equal(t, domain.ActionAppendPage, got.Plan.Entries[0].Action)
	assert.Equal(t, []string{"Database Schema"}, got.Plan.Entries[0].TargetPages)
	assert.True(t, startedAt.Equal(got.StartedAt))
	assert.True(t, summary.FinishedAt.Equal(got.FinishedAt))

	require.Len(t, got.Results, 2)
	assert.Equal(t, domain.OutcomeApplied, got.Results[0].Outcome)
	assert.Equal(t, "Database Schema", got.Results[0].Entry.TargetPage)
	assert.Equal(t, "https://github.com/driftdocs/sample-app/wiki/Database-Schema", got.Results[0].PageURL)
	assert.Equal(t, domain.OutcomeSkipped, got.Results[1].Outcome)
	assert.Empty(t, got.Results[1].Entry.TargetPage)

	applied, skipped, failed := got.Counts()
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 0, failed)
}

func TestRunStore_SaveRun_ReplacesExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	startedAt := time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
	summary := testSummary("run-1", startedAt)
	require.NoError(t, runs.SaveRun(ctx, summary))

	// Re-save with a failed outcome and fewer results
	summary.Results = summary.Results[:1]
	summary.Results[0].Outcome = domain.OutcomeFailed
	summary.Results[0].ErrorDetail = "stale write conflict"
	summary.Results[0].PageURL = ""
	require.NoError(t, runs.SaveRun(ctx, summary))

	got, err := runs.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got.Results, 1)
	assert.Equal(t, domain.OutcomeFailed, got.Results[0].Outcome)
	assert.Equal(t, "stale write conflict", got.Results[0].ErrorDetail)
	assert.Empty(t, got.Results[0].PageURL)
}

func TestRunStore_SaveRun_RequiresID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.RunStore().SaveRun(context.Background(), domain.RunSummary{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_SaveRun_DryRunWithoutResults(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	summary := testSummary("run-dry", time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC))
	summary.DryRun = true
	summary.Results = nil
	require.NoError(t, runs.SaveRun(ctx, summary))

	got, err := runs.GetRun(ctx, "run-dry")
	require.NoError(t, err)
	assert.True(t, got.DryRun)
	assert.Empty(t, got.Results)
	require.Len(t, got.Plan.Entries, 2)
}

func TestRunStore_GetRun_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.RunStore().GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, got)
}

func TestRunStore_ListRuns_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	base := time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
	require.NoError(t, runs.SaveRun(ctx, testSummary("run-1", base)))
	require.NoError(t, runs.SaveRun(ctx, testSummary("run-2", base.Add(time.Hour))))
	require.NoError(t, runs.SaveRun(ctx, testSummary("run-3", base.Add(2*time.Hour))))

	got, err := runs.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "run-3", got[0].RunID)
	assert.Equal(t, "run-2", got[1].RunID)
	assert.Equal(t, "run-1", got[2].RunID)

	// Results travel with each summary
	require.Len(t, got[0].Results, 2)
}

func TestRunStore_ListRuns_HonoursLimit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	runs := store.RunStore()

	base := time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
	require.NoError(t, runs.SaveRun(ctx, testSummary("run-1", base)))
	require.NoError(t, runs.SaveRun(ctx, testSummary("run-2", base.Add(time.Hour))))

	got, err := runs.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-2", got[0].RunID)
}

func TestRunStore_ListRuns_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.RunStore().ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunStore_Persistence(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "docsync-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	ctx := context.Background()

	store1, err := NewStore(tempDir)
	require.NoError(t, err)
	summary := testSummary("run-1", time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store1.RunStore().SaveRun(ctx, summary))
	require.NoError(t, store1.Close())

	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.RunStore().GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, summary.Head, got.Head)
	require.Len(t, got.Results, 2)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "hello", nullString("hello"))
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, boolToInt(true))
	assert.Equal(t, 0, boolToInt(false))
}
