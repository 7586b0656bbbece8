package github

import (
	"context"
	"fmt"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// Ensure DiffSource implements the interface.
var _ driven.DiffSource = (*DiffSource)(nil)

// DiffSource reads commit-range diffs through the GitHub compare API.
// It resolves anything the API accepts as a ref: SHAs, branch names, tags.
type DiffSource struct {
	client *Client
	owner  string
	repo   string
}

// NewDiffSource creates a diff source for one repository.
func NewDiffSource(client *Client, owner, repo string) *DiffSource {
	return &DiffSource{client: client, owner: owner, repo: repo}
}

// Changes lists the files changed between base and head.
func (s *DiffSource) Changes(ctx context.Context, base, head string) ([]domain.ChangeRecord, error) {
	cmp, err := s.client.CompareCommits(ctx, s.owner, s.repo, base, head)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s..%s in %s/%s", domain.ErrReferenceResolution, base, head, s.owner, s.repo)
		}
		return nil, fmt.Errorf("compare %s..%s: %w", base, head, err)
	}

	changes := make([]domain.ChangeRecord, 0, len(cmp.Files))
	for _, f := range cmp.Files {
		kind, ok := changeKind(f.GetStatus())
		if !ok {
			logger.Debug("skipping file %s with status %q", f.GetFilename(), f.GetStatus())
			continue
		}
		changes = append(changes, domain.ChangeRecord{
			Path:     f.GetFilename(),
			Kind:     kind,
			DiffText: f.GetPatch(),
		})
	}
	return changes, nil
}

// Close is a no-op; the API client holds no per-source resources.
func (s *DiffSource) Close() error { return nil }

// changeKind maps a GitHub compare file status to a change kind.
func changeKind(status string) (domain.ChangeKind, bool) {
	switch status {
	case "added", "copied":
		return domain.ChangeAdded, true
	case "modified", "changed":
		return domain.ChangeModified, true
	case "removed":
		return domain.ChangeDeleted, true
	case "renamed":
		return domain.ChangeRenamed, true
	default:
		return "", false
	}
}
