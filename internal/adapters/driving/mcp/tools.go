package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driving"
)

// SyncInput is the input schema for the sync_documentation tool.
type SyncInput struct {
	Base   string `json:"base" jsonschema:"base commit reference of the change set"`
	Head   string `json:"head" jsonschema:"head commit reference of the change set"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"plan and synthesise without writing to the wiki"`
	Force  bool   `json:"force,omitempty" jsonschema:"skip gap detection and treat documentation as needed"`
}

// SyncOutput is the output schema for the sync_documentation tool.
type SyncOutput struct {
	RunID              string         `json:"run_id"`
	NeedsDocumentation bool           `json:"needs_documentation"`
	Reasoning          string         `json:"reasoning,omitempty"`
	Concepts           []string       `json:"concepts,omitempty"`
	DryRun             bool           `json:"dry_run,omitempty"`
	Results            []ResultOutput `json:"results,omitempty"`
	PlannedActions     []ActionOutput `json:"planned_actions,omitempty"`
}

// ResultOutput represents one executed plan entry.
type ResultOutput struct {
	Action      string `json:"action"`
	TargetPage  string `json:"target_page,omitempty"`
	ContentType string `json:"content_type"`
	Outcome     string `json:"outcome"`
	ErrorDetail string `json:"error_detail,omitempty"`
	PageURL     string `json:"page_url,omitempty"`
}

// ActionOutput represents one planned action, reported for dry runs.
type ActionOutput struct {
	Action      string   `json:"action"`
	TargetPages []string `json:"target_pages,omitempty"`
	Title       string   `json:"title,omitempty"`
	ContentType string   `json:"content_type"`
	Rationale   string   `json:"rationale,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_documentation",
		Description: "Analyse a code diff and sync the wiki documentation it affects",
	}, s.handleSync)
}

// handleSync handles the sync_documentation tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	opts := driving.RunOptions{
		Base:   input.Base,
		Head:   input.Head,
		DryRun: input.DryRun,
		Force:  input.Force,
	}

	summary, err := s.ports.Pipeline.Run(ctx, opts)
	if err != nil {
		return nil, SyncOutput{}, err
	}

	output := SyncOutput{
		RunID:              summary.RunID,
		NeedsDocumentation: summary.Assessment.NeedsDocumentation,
		Reasoning:          summary.Assessment.Reasoning,
		Concepts:           summary.Assessment.AffectedConcepts,
		DryRun:             summary.DryRun,
	}

	for _, r := range summary.Results {
		output.Results = append(output.Results, ResultOutput{
			Action:      string(r.Entry.Action),
			TargetPage:  r.Entry.TargetPage,
			ContentType: string(r.Entry.ContentType),
			Outcome:     string(r.Outcome),
			ErrorDetail: r.ErrorDetail,
			PageURL:     r.PageURL,
		})
	}

	if summary.DryRun {
		output.PlannedActions = plannedActions(summary.Plan)
	}

	return nil, output, nil
}

// plannedActions flattens the plan for dry-run reporting.
func plannedActions(plan domain.Plan) []ActionOutput {
	actions := make([]ActionOutput, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		actions = append(actions, ActionOutput{
			Action:      string(e.Action),
			TargetPages: e.TargetPages,
			Title:       e.Title,
			ContentType: string(e.ContentType),
			Rationale:   e.Rationale,
		})
	}
	return actions
}
