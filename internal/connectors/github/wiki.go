package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/driftdocs/docsync-cli/internal/core/domain"
	"github.com/driftdocs/docsync-cli/internal/core/ports/driven"
)

// wikiBranch is the branch GitHub wiki repositories live on, in the
// short form the Git references API expects.
const wikiBranch = "heads/master"

// Ensure WikiStore implements the interface.
var _ driven.DocStore = (*WikiStore)(nil)

// WikiStore reads and writes GitHub wiki pages. GitHub's REST API has no
// direct wiki endpoint; the wiki is a separate git repository at
// {repo}.wiki, so the store works through the Git data API: trees and
// blobs for reads, blob/tree/commit/ref for writes. Non-forced ref
// updates give compare-and-swap semantics against concurrent editors.
type WikiStore struct {
	client *Client
	owner  string
	repo   string
}

// NewWikiStore creates a wiki store for one repository.
func NewWikiStore(client *Client, owner, repo string) *WikiStore {
	return &WikiStore{client: client, owner: owner, repo: repo}
}

// wikiRepo is the git repository name holding the wiki pages.
func (s *WikiStore) wikiRepo() string {
	return s.repo + ".wiki"
}

// head resolves the wiki branch to its current commit.
func (s *WikiStore) head(ctx context.Context) (*gh.Commit, error) {
	ref, err := s.client.GetRef(ctx, s.owner, s.wikiRepo(), wikiBranch)
	if err != nil {
		if IsNotFound(err) || IsForbidden(err) {
			return nil, ErrWikiDisabled
		}
		return nil, err
	}
	commit, err := s.client.GetCommit(ctx, s.owner, s.wikiRepo(), ref.GetObject().GetSHA())
	if err != nil {
		return nil, err
	}
	return commit, nil
}

// ListPages returns a summary of every markdown page in the wiki.
// The wiki head commit date stands in for per-page modification times;
// fetching per-file history would cost one extra API round trip per page.
func (s *WikiStore) ListPages(ctx context.Context) ([]domain.PageSummary, error) {
	commit, err := s.head(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	tree, err := s.client.GetTree(ctx, s.owner, s.wikiRepo(), commit.GetSHA())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	modified := commit.GetCommitter().GetDate().Time

	var pages []domain.PageSummary
	for _, entry := range tree.Entries {
		title, ok := pageTitle(entry)
		if !ok {
			continue
		}
		content, err := s.blobContent(ctx, entry.GetSHA())
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, entry.GetPath(), err)
		}
		pages = append(pages, domain.PageSummary{
			Title:           title,
			ApproximateSize: len(content),
			Fingerprint:     domain.PageFingerprint(content),
			LastModified:    modified,
		})
	}
	return pages, nil
}

// ReadPage fetches one page by title.
func (s *WikiStore) ReadPage(ctx context.Context, title string) (*driven.Page, error) {
	commit, err := s.head(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.pageAt(ctx, commit, title)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("%w: wiki page %q", domain.ErrNotFound, title)
	}
	page.LastModified = commit.GetCommitter().GetDate().Time
	return page, nil
}

// WritePage commits a page to the wiki branch. An empty
// expectedFingerprint means create-only; otherwise the write only
// proceeds when the page's current fingerprint still matches.
func (s *WikiStore) WritePage(ctx context.Context, title, content, expectedFingerprint string) error {
	commit, err := s.head(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	current, err := s.pageAt(ctx, commit, title)
	if err != nil {
		return err
	}
	if expectedFingerprint == "" {
		if current != nil {
			return fmt.Errorf("%w: wiki page %q", domain.ErrAlreadyExists, title)
		}
	} else {
		if current == nil {
			return fmt.Errorf("%w: wiki page %q", domain.ErrNotFound, title)
		}
		if current.Fingerprint != expectedFingerprint {
			return fmt.Errorf("%w: wiki page %q changed since it was scanned", domain.ErrStaleWrite, title)
		}
	}

	blob, err := s.client.CreateBlob(ctx, s.owner, s.wikiRepo(), &gh.Blob{
		Content:  gh.Ptr(content),
		Encoding: gh.Ptr("utf-8"),
	})
	if err != nil {
		return fmt.Errorf("upload page blob: %w", err)
	}

	tree, err := s.client.CreateTree(ctx, s.owner, s.wikiRepo(), commit.GetTree().GetSHA(), []*gh.TreeEntry{{
		Path: gh.Ptr(wikiFilename(title)),
		Mode: gh.Ptr("100644"),
		Type: gh.Ptr("blob"),
		SHA:  blob.SHA,
	}})
	if err != nil {
		return fmt.Errorf("build wiki tree: %w", err)
	}

	verb := "Update"
	if current == nil {
		verb = "Create"
	}
	newCommit, err := s.client.CreateCommit(ctx, s.owner, s.wikiRepo(), &gh.Commit{
		Message: gh.Ptr(fmt.Sprintf("%s %s", verb, title)),
		Tree:    tree,
		Parents: []*gh.Commit{{SHA: commit.SHA}},
	})
	if err != nil {
		return fmt.Errorf("commit wiki page: %w", err)
	}

	_, err = s.client.UpdateRef(ctx, s.owner, s.wikiRepo(), wikiBranch, newCommit.GetSHA(), false)
	if err != nil {
		// Someone else advanced the branch between our read and write.
		if IsConflict(err) {
			return fmt.Errorf("%w: wiki branch moved while writing %q", domain.ErrStaleWrite, title)
		}
		return fmt.Errorf("advance wiki branch: %w", err)
	}
	return nil
}

// PageURL returns the browser URL for a page.
func (s *WikiStore) PageURL(title string) string {
	return fmt.Sprintf("https://github.com/%s/%s/wiki/%s", s.owner, s.repo, strings.ReplaceAll(title, " ", "-"))
}

// Close is a no-op; the API client holds no per-store resources.
func (s *WikiStore) Close() error { return nil }

// pageAt reads a page at a given commit, or nil when it does not exist.
func (s *WikiStore) pageAt(ctx context.Context, commit *gh.Commit, title string) (*driven.Page, error) {
	tree, err := s.client.GetTree(ctx, s.owner, s.wikiRepo(), commit.GetSHA())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	filename := wikiFilename(title)
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" || entry.GetPath() != filename {
			continue
		}
		content, err := s.blobContent(ctx, entry.GetSHA())
		if err != nil {
			return nil, err
		}
		return &driven.Page{
			Title:       title,
			Content:     content,
			Fingerprint: domain.PageFingerprint(content),
		}, nil
	}
	return nil, nil
}

// blobContent fetches a blob and decodes it to text.
func (s *WikiStore) blobContent(ctx context.Context, sha string) (string, error) {
	blob, err := s.client.GetBlob(ctx, s.owner, s.wikiRepo(), sha)
	if err != nil {
		return "", err
	}
	if blob.GetEncoding() == "base64" {
		// Strip the line breaks the API inserts into base64 payloads.
		raw := strings.ReplaceAll(blob.GetContent(), "\n", "")
		raw = strings.ReplaceAll(raw, "\r", "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return string(decoded), nil
	}
	return blob.GetContent(), nil
}

// pageTitle extracts a page title from a wiki tree entry, skipping
// anything that is not a markdown page.
func pageTitle(entry *gh.TreeEntry) (string, bool) {
	if entry.GetType() != "blob" {
		return "", false
	}
	path := entry.GetPath()
	if !strings.HasSuffix(path, ".md") || strings.Contains(path, "/") {
		return "", false
	}
	return titleFromFilename(path), true
}

// wikiFilename maps a page title to its wiki filename. GitHub stores
// "Database Schema" as Database-Schema.md.
func wikiFilename(title string) string {
	return strings.ReplaceAll(title, " ", "-") + ".md"
}

// titleFromFilename is the inverse of wikiFilename, with GitHub's usual
// lossiness: dashes in original titles come back as spaces.
func titleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, ".md")
	return strings.ReplaceAll(title, "-", " ")
}
