// Package github fetches user, repository, and language data from the
// GitHub REST API with client-side pacing and rate-limit recovery.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrUserNotFound is returned when the requested login does not exist.
var ErrUserNotFound = errors.New("user not found")

// repoPageSize is the GitHub maximum page size for repository listings.
const repoPageSize = 100

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
	log     *logrus.Logger
}

// NewClient creates a GitHub client. requestsPerHour should match the
// quota implied by the token (5000 authenticated, 60 anonymous); the
// limiter paces long runs while the burst lets small analyses proceed
// without artificial delay.
func NewClient(token string, requestsPerHour int, log *logrus.Logger) *Client {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	limit := rate.Limit(float64(requestsPerHour) / 3600.0)
	return &Client{
		gh:      client,
		limiter: rate.NewLimiter(limit, 10),
		log:     log,
	}
}

// FetchUser retrieves a user profile. A 404 from the API is translated
// into ErrUserNotFound; other failures are wrapped as-is.
func (c *Client) FetchUser(ctx context.Context, login string) (*gh.User, error) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		user, _, err := c.gh.Users.Get(ctx, login)
		if err != nil {
			if c.retryAfterRateLimit(ctx, err) {
				continue
			}
			if isNotFound(err) {
				return nil, fmt.Errorf("user %q: %w", login, ErrUserNotFound)
			}
			return nil, fmt.Errorf("fetch user %s: %w", login, err)
		}
		return user, nil
	}
}

// FetchRepositories lists all public repositories for a login, most
// recently updated first. Pagination stops when a page comes back shorter
// than the page size.
func (c *Client) FetchRepositories(ctx context.Context, login string) ([]*gh.Repository, error) {
	var all []*gh.Repository

	for page := 1; ; page++ {
		batch, err := c.listRepositoryPage(ctx, login, page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < repoPageSize {
			break
		}
	}

	return all, nil
}

func (c *Client) listRepositoryPage(ctx context.Context, login string, page int) ([]*gh.Repository, error) {
	opts := &gh.RepositoryListOptions{
		Type: "public",
		Sort: "updated",
		ListOptions: gh.ListOptions{
			PerPage: repoPageSize,
			Page:    page,
		},
	}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		repos, _, err := c.gh.Repositories.List(ctx, login, opts)
		if err != nil {
			if c.retryAfterRateLimit(ctx, err) {
				continue
			}
			return nil, fmt.Errorf("fetch repositories for %s (page %d): %w", login, page, err)
		}
		return repos, nil
	}
}

// FetchLanguages retrieves the byte count per language for one repository.
func (c *Client) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		languages, _, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
		if err != nil {
			if c.retryAfterRateLimit(ctx, err) {
				continue
			}
			return nil, fmt.Errorf("fetch languages for %s/%s: %w", owner, repo, err)
		}
		return languages, nil
	}
}

// retryAfterRateLimit reports whether err was a rate-limit rejection that
// has been recovered by sleeping until the quota reset (plus a one-second
// buffer). The caller retries the identical request. There is no backoff
// cap: the reset window itself bounds each wait.
func (c *Client) retryAfterRateLimit(ctx context.Context, err error) bool {
	var rle *gh.RateLimitError
	if !errors.As(err, &rle) {
		return false
	}

	sleep := time.Until(rle.Rate.Reset.Time)
	if sleep < 0 {
		sleep = 0
	}
	sleep += time.Second

	c.log.WithFields(logrus.Fields{
		"reset": rle.Rate.Reset.Time,
		"sleep": sleep.String(),
	}).Warn("GitHub rate limit exceeded, sleeping until reset")

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func isNotFound(err error) bool {
	var ghErr *gh.ErrorResponse
	return errors.As(err, &ghErr) &&
		ghErr.Response != nil &&
		ghErr.Response.StatusCode == http.StatusNotFound
}
