package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the go-github client with rate limiting and error
// translation shared by the diff source and the wiki store.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client with a static access token.
// Works for both PAT and OAuth access tokens.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// CompareCommits compares two commits or refs in a repository.
func (c *Client) CompareCommits(ctx context.Context, owner, repo, base, head string) (*gh.CommitsComparison, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	cmp, resp, err := c.gh.Repositories.CompareCommits(ctx, owner, repo, base, head, &gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, c.wrapError(err, "compare commits")
	}

	c.updateRateLimitFromResponse(resp)
	return cmp, nil
}

// GetRef fetches a git reference.
func (c *Client) GetRef(ctx context.Context, owner, repo, ref string) (*gh.Reference, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reference, resp, err := c.gh.Git.GetRef(ctx, owner, repo, ref)
	if err != nil {
		return nil, c.wrapError(err, "get ref")
	}

	c.updateRateLimitFromResponse(resp)
	return reference, nil
}

// GetTree fetches the entire tree for a repository recursively.
// This is efficient for getting all file paths in one API call.
func (c *Client) GetTree(ctx context.Context, owner, repo, sha string) (*gh.Tree, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := c.gh.Git.GetTree(ctx, owner, repo, sha, true) // recursive=true
	if err != nil {
		return nil, c.wrapError(err, "get tree")
	}

	c.updateRateLimitFromResponse(resp)
	return tree, nil
}

// GetBlob fetches a blob (file content) by its SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	blob, resp, err := c.gh.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, c.wrapError(err, "get blob")
	}

	c.updateRateLimitFromResponse(resp)
	return blob, nil
}

// GetCommit fetches a git commit by SHA.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*gh.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	commit, resp, err := c.gh.Git.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return nil, c.wrapError(err, "get commit")
	}

	c.updateRateLimitFromResponse(resp)
	return commit, nil
}

// CreateBlob uploads a blob and returns its SHA.
func (c *Client) CreateBlob(ctx context.Context, owner, repo string, blob *gh.Blob) (*gh.Blob, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	created, resp, err := c.gh.Git.CreateBlob(ctx, owner, repo, *blob)
	if err != nil {
		return nil, c.wrapError(err, "create blob")
	}

	c.updateRateLimitFromResponse(resp)
	return created, nil
}

// CreateTree creates a tree on top of a base tree.
func (c *Client) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []*gh.TreeEntry) (*gh.Tree, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	tree, resp, err := c.gh.Git.CreateTree(ctx, owner, repo, baseTree, entries)
	if err != nil {
		return nil, c.wrapError(err, "create tree")
	}

	c.updateRateLimitFromResponse(resp)
	return tree, nil
}

// CreateCommit creates a commit object.
func (c *Client) CreateCommit(ctx context.Context, owner, repo string, commit *gh.Commit) (*gh.Commit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	created, resp, err := c.gh.Git.CreateCommit(ctx, owner, repo, *commit, nil)
	if err != nil {
		return nil, c.wrapError(err, "create commit")
	}

	c.updateRateLimitFromResponse(resp)
	return created, nil
}

// UpdateRef moves a reference (short form, e.g. "heads/master") to a new
// commit SHA. With force=false GitHub rejects non-fast-forward updates,
// which gives compare-and-swap semantics on the wiki branch.
func (c *Client) UpdateRef(ctx context.Context, owner, repo, ref, sha string, force bool) (*gh.Reference, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	updated, resp, err := c.gh.Git.UpdateRef(ctx, owner, repo, ref, gh.UpdateRef{
		SHA:   sha,
		Force: gh.Ptr(force),
	})
	if err != nil {
		return nil, c.wrapError(err, "update ref")
	}

	c.updateRateLimitFromResponse(resp)
	return updated, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// ValidateCredentials checks if the provided token is valid by making an API call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}

	c.updateRateLimitFromResponse(resp)
	return nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	// Check for rate limit error
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
