// Package mcp provides an MCP (Model Context Protocol) server adapter for
// docsync. It lets AI assistants trigger documentation-sync runs and browse
// the run history.
package mcp

import "errors"

// ErrMissingPipeline is returned when the pipeline port is not provided.
var ErrMissingPipeline = errors.New("mcp: pipeline is required")
