package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// authenticatedQuota is GitHub's hourly quota for token-authenticated calls.
	authenticatedQuota = 5000

	// requestPace paces outgoing calls. A sync run issues at most a few
	// dozen requests (compare, wiki tree reads, page writes), so one
	// request per second keeps us far from secondary write limits.
	requestPace = 1.0

	// quotaReserve is the remaining-quota floor. Below it we wait for the
	// reset rather than spend the last requests another process may need.
	quotaReserve = 50

	headerRemaining  = "X-RateLimit-Remaining"
	headerLimit      = "X-RateLimit-Limit"
	headerReset      = "X-RateLimit-Reset"
	headerRetryAfter = "Retry-After"
)

// RateLimiter paces GitHub API calls. A token bucket throttles proactively;
// quota headers from each response feed a reactive floor so a run that
// shares a token with other tooling backs off before exhausting it.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetAt   time.Time
	bucket    *rate.Limiter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		remaining: authenticatedQuota,
		limit:     authenticatedQuota,
		bucket:    rate.NewLimiter(rate.Limit(requestPace), 1),
	}
}

// Wait blocks until the next request may be sent. When the tracked quota
// has dropped below the reserve it sleeps through to the reset instead.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	remaining := r.remaining
	resetAt := r.resetAt
	r.mu.Unlock()

	if remaining >= quotaReserve || time.Now().After(resetAt) {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(resetAt)):
		return nil
	}
}

// UpdateFromResponse folds GitHub's quota headers into the limiter state.
// A Retry-After header (secondary limits on wiki writes) overrides the
// primary reset timestamp.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, err := strconv.Atoi(resp.Header.Get(headerRemaining)); err == nil {
		r.remaining = v
	}
	if v, err := strconv.Atoi(resp.Header.Get(headerLimit)); err == nil {
		r.limit = v
	}
	if v, err := strconv.ParseInt(resp.Header.Get(headerReset), 10, 64); err == nil {
		r.resetAt = time.Unix(v, 0)
	}
	if v, err := strconv.Atoi(resp.Header.Get(headerRetryAfter)); err == nil {
		retryAt := time.Now().Add(time.Duration(v) * time.Second)
		if retryAt.After(r.resetAt) {
			r.resetAt = retryAt
			r.remaining = 0
		}
	}
}

func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}
