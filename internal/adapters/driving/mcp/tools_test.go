package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
)

func TestServer_handleSync(t *testing.T) {
	ctx := context.Background()

	t.Run("returns run results", func(t *testing.T) {
		pipeline := &mockPipeline{summary: sampleSummary()}
		server, err := NewServer(&Ports{Pipeline: pipeline})
		require.NoError(t, err)

		input := SyncInput{Base: "main", Head: "feature/subtitle"}
		_, output, err := server.handleSync(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "run-1", output.RunID)
		assert.True(t, output.NeedsDocumentation)
		assert.Equal(t, []string{"posts table"}, output.Concepts)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "append_to_page", output.Results[0].Action)
		assert.Equal(t, "Database Schema", output.Results[0].TargetPage)
		assert.Equal(t, "applied", output.Results[0].Outcome)
		assert.Empty(t, output.PlannedActions)
	})

	t.Run("passes options through", func(t *testing.T) {
		pipeline := &mockPipeline{summary: sampleSummary()}
		server, err := NewServer(&Ports{Pipeline: pipeline})
		require.NoError(t, err)

		input := SyncInput{Base: "v1", Head: "v2", DryRun: true, Force: true}
		_, _, err = server.handleSync(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "v1", pipeline.lastOpts.Base)
		assert.Equal(t, "v2", pipeline.lastOpts.Head)
		assert.True(t, pipeline.lastOpts.DryRun)
		assert.True(t, pipeline.lastOpts.Force)
	})

	t.Run("dry run reports planned actions", func(t *testing.T) {
		summary := sampleSummary()
		summary.DryRun = true
		summary.Results = nil
		pipeline := &mockPipeline{summary: summary}
		server, err := NewServer(&Ports{Pipeline: pipeline})
		require.NoError(t, err)

		input := SyncInput{Base: "main", Head: "feature/subtitle", DryRun: true}
		_, output, err := server.handleSync(ctx, nil, input)

		require.NoError(t, err)
		assert.True(t, output.DryRun)
		assert.Empty(t, output.Results)
		require.Len(t, output.PlannedActions, 1)
		assert.Equal(t, "append_to_page", output.PlannedActions[0].Action)
		assert.Equal(t, []string{"Database Schema"}, output.PlannedActions[0].TargetPages)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		pipeline := &mockPipeline{
			err: errors.New("reference resolution failed"),
		}
		server, err := NewServer(&Ports{Pipeline: pipeline})
		require.NoError(t, err)

		input := SyncInput{Base: "bogus", Head: "HEAD"}
		_, _, err = server.handleSync(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reference resolution failed")
	})

	t.Run("no gap yields empty results", func(t *testing.T) {
		summary := sampleSummary()
		summary.Assessment = domain.ConservativeAssessment()
		summary.Results = nil
		pipeline := &mockPipeline{summary: summary}
		server, err := NewServer(&Ports{Pipeline: pipeline})
		require.NoError(t, err)

		_, output, err := server.handleSync(ctx, nil, SyncInput{Base: "main", Head: "HEAD"})

		require.NoError(t, err)
		assert.False(t, output.NeedsDocumentation)
		assert.Empty(t, output.Results)
	})
}
