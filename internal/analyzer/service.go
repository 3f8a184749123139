// Package analyzer runs the fetch-and-import pipeline for one login and
// assembles the analysis result from the persisted graph.
package analyzer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ghgraph/ghgraph/internal/graph"
	"github.com/ghgraph/ghgraph/internal/metrics"
	"github.com/ghgraph/ghgraph/internal/models"
)

// topRepoLimit caps the repositories returned inline with an analysis.
const topRepoLimit = 10

// Fetcher retrieves a complete user snapshot from the external source.
type Fetcher interface {
	FetchUserSnapshot(ctx context.Context, login string) (*models.UserSnapshot, error)
}

// Store persists snapshots and answers read queries against the graph.
type Store interface {
	EnsureConstraints(ctx context.Context) error
	ImportSnapshot(ctx context.Context, snap *models.UserSnapshot) error
	GetUserStats(ctx context.Context, login string) (*graph.UserStats, error)
	GetTopRepositories(ctx context.Context, login string, limit int) ([]graph.TopRepository, error)
}

// Result is the payload returned by one successful analysis.
type Result struct {
	UserStats       *graph.UserStats      `json:"user_stats"`
	TopRepositories []graph.TopRepository `json:"top_repositories"`
}

// Service wires the fetcher and the graph store into one pipeline.
type Service struct {
	fetcher Fetcher
	store   Store
	log     *logrus.Logger
}

// New creates the pipeline service.
func New(fetcher Fetcher, store Store, log *logrus.Logger) *Service {
	return &Service{fetcher: fetcher, store: store, log: log}
}

// Analyze fetches the login's snapshot, merges it into the graph (user
// first, then repositories), and reads back the stored stats. Each call
// runs synchronously on the caller's goroutine; concurrent analyses of
// the same login are not coordinated beyond the store's merge-by-key
// atomicity.
func (s *Service) Analyze(ctx context.Context, login string) (*Result, error) {
	start := time.Now()
	s.log.WithField("login", login).Info("starting analysis")

	snap, err := s.fetcher.FetchUserSnapshot(ctx, login)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Constraint creation is an integrity optimization; a failure here
	// must not block the import.
	if err := s.store.EnsureConstraints(ctx); err != nil {
		s.log.WithError(err).Warn("could not ensure graph constraints")
	}

	if err := s.store.ImportSnapshot(ctx, snap); err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	stats, err := s.store.GetUserStats(ctx, login)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	top, err := s.store.GetTopRepositories(ctx, login, topRepoLimit)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	s.log.WithFields(logrus.Fields{
		"login":    login,
		"repos":    stats.ReposAnalyzed,
		"duration": time.Since(start).String(),
	}).Info("analysis completed")

	return &Result{UserStats: stats, TopRepositories: top}, nil
}
