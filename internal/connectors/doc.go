// Package connectors provides the adapters that talk to where code and
// documentation actually live. Diff sources (local git, GitHub compare)
// read commit ranges; documentation stores (GitHub wikis, markdown
// directories) read and write pages.
package connectors
