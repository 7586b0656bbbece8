package domain

import "sort"

// ChangeKind classifies how a file changed between two commits.
type ChangeKind string

// Change kinds reported by diff sources.
const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// ChangeRecord is one changed file extracted from a commit range.
// Records are immutable once produced; a run builds them exactly once.
type ChangeRecord struct {
	// Path is the repository-relative file path (the new path for renames).
	Path string

	// PreviousPath is the old path for renames, empty otherwise.
	PreviousPath string

	// Kind is how the file changed.
	Kind ChangeKind

	// DiffText is the unified diff for this file. Extractors bound it to
	// a configured character budget before it reaches any judgment call.
	DiffText string
}

// SortChanges orders records by path. Downstream prompts and plans are
// built from this ordering so repeated runs see identical input.
func SortChanges(changes []ChangeRecord) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
}

// TruncateDiff bounds a diff to at most limit characters, appending a
// truncation marker when content was dropped. A limit <= 0 means no bound.
func TruncateDiff(diff string, limit int) string {
	if limit <= 0 || len(diff) <= limit {
		return diff
	}
	// Cut on a rune boundary.
	runes := []rune(diff)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + "\n... [diff truncated]"
}
