package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
	"github.com/driftdocs/docsync-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DiffSource = (*Source)(nil)

// Source reads commit-range diffs from a local repository clone.
type Source struct {
	repoPath string
}

// NewSource creates a diff source rooted at repoPath. The path must
// contain a git repository; this is checked on first use, not here.
func NewSource(repoPath string) *Source {
	return &Source{repoPath: repoPath}
}

// Changes lists the files changed between base and head.
func (s *Source) Changes(ctx context.Context, base, head string) ([]domain.ChangeRecord, error) {
	baseSHA, err := s.resolve(ctx, base)
	if err != nil {
		return nil, err
	}
	headSHA, err := s.resolve(ctx, head)
	if err != nil {
		return nil, err
	}

	out, err := s.git(ctx, "diff", "--name-status", "-M", baseSHA, headSHA)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", base, head, err)
	}

	var changes []domain.ChangeRecord
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line == "" {
			continue
		}
		record, ok := parseNameStatus(line)
		if !ok {
			logger.Debug("skipping unrecognised diff line %q", line)
			continue
		}
		record.DiffText, err = s.fileDiff(ctx, baseSHA, headSHA, record)
		if err != nil {
			return nil, err
		}
		changes = append(changes, record)
	}
	return changes, nil
}

// Close is a no-op; each call shells out independently.
func (s *Source) Close() error { return nil }

// resolve verifies that a ref names a commit in the repository.
func (s *Source) resolve(ctx context.Context, ref string) (string, error) {
	out, err := s.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a commit in %s", domain.ErrReferenceResolution, ref, s.repoPath)
	}
	return strings.TrimSpace(out), nil
}

// fileDiff returns the unified diff for one changed file. Renames pass
// both paths so git collapses them into a single rename diff.
func (s *Source) fileDiff(ctx context.Context, base, head string, record domain.ChangeRecord) (string, error) {
	args := []string{"diff", "-M", base, head, "--", record.Path}
	if record.Kind == domain.ChangeRenamed && record.PreviousPath != "" {
		args = append(args, record.PreviousPath)
	}
	out, err := s.git(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("diff for %s: %w", record.Path, err)
	}
	return out, nil
}

// git runs a git subcommand against the source repository.
func (s *Source) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", s.repoPath}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return stdout.String(), nil
}

// parseNameStatus parses one line of git diff --name-status output,
// such as "M\tdb/schema.sql" or "R100\told.go\tnew.go".
func parseNameStatus(line string) (domain.ChangeRecord, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return domain.ChangeRecord{}, false
	}
	status := fields[0]

	switch {
	case status == "A":
		return domain.ChangeRecord{Path: fields[1], Kind: domain.ChangeAdded}, true
	case status == "M" || status == "T":
		return domain.ChangeRecord{Path: fields[1], Kind: domain.ChangeModified}, true
	case status == "D":
		return domain.ChangeRecord{Path: fields[1], Kind: domain.ChangeDeleted}, true
	case strings.HasPrefix(status, "R") && len(fields) >= 3:
		return domain.ChangeRecord{Path: fields[2], PreviousPath: fields[1], Kind: domain.ChangeRenamed}, true
	case strings.HasPrefix(status, "C") && len(fields) >= 3:
		return domain.ChangeRecord{Path: fields[2], Kind: domain.ChangeAdded}, true
	default:
		return domain.ChangeRecord{}, false
	}
}
