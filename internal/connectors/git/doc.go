// Package git implements a diff source backed by a local git checkout.
// It shells out to the git binary rather than reimplementing pack-file
// parsing, so any ref the local git understands works: SHAs, branches,
// tags, HEAD~3 and friends.
package git
