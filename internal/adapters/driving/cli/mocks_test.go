package cli

import (
	"context"
	"testing"
	"time"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driving"
)

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	summary *domain.RunSummary
	err     error

	lastOpts driving.RunOptions
	calls    int
}

func (m *mockPipeline) Run(_ context.Context, opts driving.RunOptions) (*domain.RunSummary, error) {
	m.lastOpts = opts
	m.calls++
	return m.summary, m.err
}

// mockRunStore is a mock implementation of driven.RunStore.
type mockRunStore struct {
	summaries []domain.RunSummary
	summary   *domain.RunSummary
	err       error
}

func (m *mockRunStore) SaveRun(_ context.Context, _ domain.RunSummary) error {
	return m.err
}

func (m *mockRunStore) GetRun(_ context.Context, _ string) (*domain.RunSummary, error) {
	if m.summary == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.summary, m.err
}

func (m *mockRunStore) ListRuns(_ context.Context, _ int) ([]domain.RunSummary, error) {
	return m.summaries, m.err
}

func (m *mockRunStore) Close() error {
	return nil
}

// setupTestConfig points the CLI at a throwaway config directory and
// restores the package state afterwards.
func setupTestConfig(t *testing.T) {
	t.Helper()

	origDir := configDir
	origConfig := configStore
	origPrompts := promptStore
	configDir = t.TempDir()
	configStore = nil
	promptStore = nil
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GITHUB_TOKEN", "")

	t.Cleanup(func() {
		configDir = origDir
		configStore = origConfig
		promptStore = origPrompts
	})
}

// sampleSummary builds a completed run summary for tests.
func sampleSummary() *domain.RunSummary {
	started := time.Date(2025, 8, 27, 12, 0, 0, 0, time.UTC)
	return &domain.RunSummary{
		RunID:      "run-1",
		Repository: "driftdocs/sample-app",
		Base:       "main",
		Head:       "feature/subtitle",
		Assessment: domain.GapAssessment{
			NeedsDocumentation: true,
			Reasoning:          "schema change adds a column",
			AffectedConcepts:   []string{"posts table"},
		},
		Plan: domain.Plan{Entries: []domain.PlanEntry{{
			ID:          "entry-1",
			Action:      domain.ActionAppendPage,
			TargetPages: []string{"Database Schema"},
			ContentType: domain.ContentSchema,
		}}},
		Results: []domain.ExecutionResult{{
			Entry: domain.ExecutedEntry{
				ID:          "entry-1",
				Action:      domain.ActionAppendPage,
				TargetPage:  "Database Schema",
				ContentType: domain.ContentSchema,
			},
			Outcome: domain.OutcomeApplied,
			PageURL: "https://github.com/driftdocs/sample-app/wiki/Database-Schema",
		}},
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
	}
}
