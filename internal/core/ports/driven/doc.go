// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the judgment capability, the documentation
// store, diff sources, and local persistence. Implementations live under
// internal/adapters/driven and internal/connectors.
package driven
