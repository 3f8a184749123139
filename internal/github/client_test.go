package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestClient returns a Client pointed at the given fake API server,
// with pacing disabled so tests run at full speed.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	ghClient := gh.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	ghClient.BaseURL = base

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return &Client{
		gh:      ghClient,
		limiter: rate.NewLimiter(rate.Inf, 0),
		log:     log,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFetchUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.FetchUser(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFetchUser_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.FetchUser(context.Background(), "someone")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestFetchRepositories_PaginationStopsOnShortPage(t *testing.T) {
	pagesServed := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/octocat/repos", r.URL.Path)
		pagesServed++

		page := r.URL.Query().Get("page")
		var repos []map[string]any
		count := 1
		if page == "1" || page == "" {
			count = repoPageSize
		}
		for i := 0; i < count; i++ {
			repos = append(repos, map[string]any{
				"name":      fmt.Sprintf("repo-%s-%d", page, i),
				"full_name": fmt.Sprintf("octocat/repo-%s-%d", page, i),
			})
		}
		writeJSON(t, w, repos)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	repos, err := client.FetchRepositories(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Len(t, repos, repoPageSize+1)
	assert.Equal(t, 2, pagesServed, "short second page must stop pagination")
}

func TestFetchUserSnapshot_SkipsForkLanguages(t *testing.T) {
	languageCalls := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			writeJSON(t, w, map[string]any{"login": "octocat", "public_repos": 2})
		case "/users/octocat/repos":
			writeJSON(t, w, []map[string]any{
				{"name": "original", "full_name": "octocat/original", "fork": false},
				{"name": "forked", "full_name": "octocat/forked", "fork": true},
			})
		case "/repos/octocat/original/languages":
			languageCalls[r.URL.Path]++
			writeJSON(t, w, map[string]int{"Python": 800, "JavaScript": 200})
		case "/repos/octocat/forked/languages":
			languageCalls[r.URL.Path]++
			writeJSON(t, w, map[string]int{"Go": 100})
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	snap, err := client.FetchUserSnapshot(context.Background(), "octocat")
	require.NoError(t, err)

	require.Len(t, snap.Repositories, 2)
	original, fork := snap.Repositories[0], snap.Repositories[1]

	assert.Equal(t, map[string]int{"Python": 800, "JavaScript": 200}, original.Languages)
	assert.Empty(t, fork.Languages, "forks get an empty language map")
	assert.Zero(t, languageCalls["/repos/octocat/forked/languages"], "no language call for forks")
	assert.Equal(t, 1, languageCalls["/repos/octocat/original/languages"])
}

func TestFetchUserSnapshot_LanguageFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octocat":
			writeJSON(t, w, map[string]any{"login": "octocat"})
		case "/users/octocat/repos":
			writeJSON(t, w, []map[string]any{
				{"name": "flaky", "full_name": "octocat/flaky", "fork": false},
			})
		case "/repos/octocat/flaky/languages":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	snap, err := client.FetchUserSnapshot(context.Background(), "octocat")
	require.NoError(t, err, "a single repo's language failure must not fail the snapshot")

	require.Len(t, snap.Repositories, 1)
	assert.Empty(t, snap.Repositories[0].Languages)
}

func TestFetchUser_RateLimitSleepAndRetry(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Unix()))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
			return
		}
		writeJSON(t, w, map[string]any{"login": "octocat"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	start := time.Now()
	user, err := client.FetchUser(context.Background(), "octocat")
	elapsed := time.Since(start)

	require.NoError(t, err, "rate limiting must be recovered internally")
	assert.Equal(t, "octocat", user.GetLogin())
	assert.Equal(t, 2, requests)
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "must sleep past the reset plus buffer")
}

func TestFetchUser_RateLimitRespectsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.FetchUser(ctx, "octocat")
	require.Error(t, err)
}
