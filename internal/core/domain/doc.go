// Package domain defines the core business entities for docsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChangeRecord: A changed file extracted from a commit range
//   - PageSummary / WikiInventory: A snapshot of the documentation store
//   - GapAssessment: The AI judgment on whether documentation is needed
//   - Plan / PlanEntry: The documentation action plan for one run
//   - ExecutionResult / RunSummary: Per-entry and per-run outcomes
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
