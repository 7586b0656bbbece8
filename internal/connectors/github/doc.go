// Package github implements the GitHub-backed diff source and wiki store.
//
// Two adapters share one API client:
//
//   - DiffSource: reads commit-range diffs through the compare API,
//     satisfying [driven.DiffSource]
//   - WikiStore: reads and writes wiki pages through the Git data API,
//     satisfying [driven.DocStore]
//
// # Authentication
//
// A personal access token (classic or fine-grained, created at
// github.com/settings/tokens) is read from configuration or the
// GITHUB_TOKEN environment variable. Private repositories require the
// 'repo' scope. Authenticated users get 5,000 API requests per hour;
// unauthenticated requests are limited to 60 per hour and are not
// supported.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket algorithm limits requests to
//     approximately 1.2 requests per second, staying well under the
//     5,000/hour limit whilst maximising throughput.
//
//  2. Reactive handling: the client monitors X-RateLimit-Remaining and
//     X-RateLimit-Reset headers. When limits are exhausted, it waits
//     until the reset time before continuing.
//
// # Wiki Access
//
// GitHub's REST API has no wiki endpoint. A repository's wiki is a
// separate git repository at {repo}.wiki, so WikiStore reads pages via
// the Trees and Blobs APIs and writes them by building a blob, a tree
// and a commit, then advancing the wiki branch with a non-forced ref
// update. The non-forced update doubles as the store's concurrency
// check: if another editor advanced the branch, GitHub rejects the
// update and the write surfaces as a stale-write conflict.
//
// # Limitations
//
//   - Page modification times come from the wiki head commit, not
//     per-page history
//   - Pages in wiki subdirectories are not listed
//   - An empty wiki cannot be initialised through the API; the first
//     page must be created in the browser
package github
