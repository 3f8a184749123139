// Package api provides the HTTP surface of the analyzer.
package api

import (
	"context"

	"github.com/ghgraph/ghgraph/internal/analyzer"
	"github.com/ghgraph/ghgraph/internal/graph"
)

// Analyzer runs the full fetch-and-import pipeline for one login.
type Analyzer interface {
	Analyze(ctx context.Context, login string) (*analyzer.Result, error)
}

// StatsReader answers read-only queries against the persisted graph.
type StatsReader interface {
	GetUserStats(ctx context.Context, login string) (*graph.UserStats, error)
	GetTopRepositories(ctx context.Context, login string, limit int) ([]graph.TopRepository, error)
	GetPopularLanguages(ctx context.Context) ([]graph.PopularLanguage, error)
	GetNetworkGraph(ctx context.Context, login string) (*graph.NetworkGraph, error)
}

// HealthChecker reports backing-store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
