// Package sqlite provides an SQLite-based implementation of the run
// history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements:
//
//   - RunStore: persistence of run summaries and per-entry execution results
//
// # Schema
//
// The database schema is managed through versioned migrations embedded from
// the migrations/ directory. Runs live in a runs table with the gap
// assessment and plan stored as JSON columns; execution results are
// normalised into a run_results table keyed by run and plan position.
//
// # Data Location
//
// By default, the database is stored at ~/.docsync/data/history.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
