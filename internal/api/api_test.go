package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghgraph/ghgraph/internal/analyzer"
	"github.com/ghgraph/ghgraph/internal/graph"
)

type fakeAnalyzer struct {
	result *analyzer.Result
	err    error
	login  string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, login string) (*analyzer.Result, error) {
	f.login = login
	return f.result, f.err
}

type fakeStats struct {
	stats    *graph.UserStats
	statsErr error

	repos     []graph.TopRepository
	reposErr  error
	repoLimit int

	languages    []graph.PopularLanguage
	languagesErr error

	network    *graph.NetworkGraph
	networkErr error
}

func (f *fakeStats) GetUserStats(_ context.Context, login string) (*graph.UserStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeStats) GetTopRepositories(_ context.Context, login string, limit int) ([]graph.TopRepository, error) {
	f.repoLimit = limit
	return f.repos, f.reposErr
}

func (f *fakeStats) GetPopularLanguages(context.Context) ([]graph.PopularLanguage, error) {
	return f.languages, f.languagesErr
}

func (f *fakeStats) GetNetworkGraph(_ context.Context, login string) (*graph.NetworkGraph, error) {
	return f.network, f.networkErr
}

type fakeHealth struct {
	err error
}

func (f *fakeHealth) HealthCheck(context.Context) error { return f.err }

func newTestRouter(t *testing.T, an Analyzer, stats StatsReader, health HealthChecker) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewRouter(&RouterDeps{
		Log:      log,
		Analyzer: an,
		Stats:    stats,
		Health:   health,
		Version:  "test",
	})
}

func doRequest(t *testing.T, h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec, body
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, &fakeAnalyzer{}, &fakeStats{}, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "GitHub Graph Analyzer API", body["service"])
	assert.Equal(t, "test", body["version"])
}

func TestHealth_DegradedStoreStillReturns200(t *testing.T) {
	h := newTestRouter(t, &fakeAnalyzer{}, &fakeStats{}, &fakeHealth{err: errors.New("bolt refused")})

	rec, body := doRequest(t, h, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestAnalyze_Success(t *testing.T) {
	an := &fakeAnalyzer{result: &analyzer.Result{
		UserStats: &graph.UserStats{Username: "octocat", ReposAnalyzed: 3},
	}}
	h := newTestRouter(t, an, &fakeStats{}, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodPost, "/api/analyze/octocat")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "octocat", an.login)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully analyzed user: octocat", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	stats, ok := data["user_stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "octocat", stats["username"])
}

func TestAnalyze_FailureMapsTo400(t *testing.T) {
	an := &fakeAnalyzer{err: errors.New("user not found: ghost")}
	h := newTestRouter(t, an, &fakeStats{}, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodPost, "/api/analyze/ghost")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "user not found: ghost", body["error"])
}

func TestUserStats_NotAnalyzedReturns404(t *testing.T) {
	stats := &fakeStats{statsErr: graph.ErrNoData}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/user/ghost/stats")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No data found for user: ghost", body["error"])
}

func TestUserStats_Success(t *testing.T) {
	stats := &fakeStats{stats: &graph.UserStats{
		Username:      "octocat",
		ReposAnalyzed: 2,
		LanguageStats: map[string]graph.LanguageStat{
			"Python": {TotalBytes: 800, RepoCount: 1, AvgPercentage: 80},
		},
	}}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/user/octocat/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "octocat", data["username"])
	assert.Equal(t, float64(2), data["repos_analyzed"])
}

func TestUserStats_StoreFailureReturns500(t *testing.T) {
	stats := &fakeStats{statsErr: errors.New("session expired")}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, _ := doRequest(t, h, http.MethodGet, "/api/user/octocat/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRepositories_DefaultLimit(t *testing.T) {
	stats := &fakeStats{repos: []graph.TopRepository{{FullName: "octocat/alpha", Stars: 5}}}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/user/octocat/repositories")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultRepoLimit, stats.repoLimit)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])
}

func TestRepositories_CustomLimit(t *testing.T) {
	stats := &fakeStats{}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	doRequest(t, h, http.MethodGet, "/api/user/octocat/repositories?limit=5")
	assert.Equal(t, 5, stats.repoLimit)
}

func TestRepositories_InvalidLimitFallsBack(t *testing.T) {
	stats := &fakeStats{}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	doRequest(t, h, http.MethodGet, "/api/user/octocat/repositories?limit=bogus")
	assert.Equal(t, defaultRepoLimit, stats.repoLimit)

	doRequest(t, h, http.MethodGet, "/api/user/octocat/repositories?limit=-3")
	assert.Equal(t, defaultRepoLimit, stats.repoLimit)
}

func TestPopularLanguages(t *testing.T) {
	stats := &fakeStats{languages: []graph.PopularLanguage{
		{Language: "Python", RepoCount: 12, TotalBytes: 4096},
		{Language: "Go", RepoCount: 7, TotalBytes: 2048},
	}}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/languages/popular")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	langs, ok := data["popular_languages"].([]any)
	require.True(t, ok)
	assert.Len(t, langs, 2)
}

func TestNetworkGraph_NotAnalyzedReturns404(t *testing.T) {
	stats := &fakeStats{networkErr: graph.ErrNoData}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/network/graph/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No graph data found for user: ghost", body["error"])
}

func TestNetworkGraph_Success(t *testing.T) {
	stats := &fakeStats{network: &graph.NetworkGraph{
		Nodes: []graph.NetworkNode{{ID: "octocat", Label: "octocat", Type: "user"}},
		Edges: []graph.NetworkEdge{},
	}}
	h := newTestRouter(t, &fakeAnalyzer{}, stats, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/network/graph/octocat")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	nodes, ok := data["nodes"].([]any)
	require.True(t, ok)
	assert.Len(t, nodes, 1)
}

func TestUnknownRouteReturns404Envelope(t *testing.T) {
	h := newTestRouter(t, &fakeAnalyzer{}, &fakeStats{}, &fakeHealth{})

	rec, body := doRequest(t, h, http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Endpoint not found", body["error"])
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	h := newTestRouter(t, &fakeAnalyzer{}, &fakeStats{}, &fakeHealth{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
