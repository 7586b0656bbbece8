package mcp

import (
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline runs documentation-sync runs.
	Pipeline driving.Pipeline

	// Runs exposes the run history. Optional; the history resources
	// return empty results when absent.
	Runs driven.RunStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipeline
	}
	// Runs is optional
	return nil
}
