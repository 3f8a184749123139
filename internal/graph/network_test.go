package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNetworkGraph_DeduplicatesSharedNodes(t *testing.T) {
	rows := []networkRow{
		{Login: "octocat", RepoFullName: "octocat/alpha", RepoName: "alpha", Stars: 5, Language: "Python", Percentage: 80},
		{Login: "octocat", RepoFullName: "octocat/alpha", RepoName: "alpha", Stars: 5, Language: "JavaScript", Percentage: 20},
		{Login: "octocat", RepoFullName: "octocat/beta", RepoName: "beta", Stars: 1, Language: "Python", Percentage: 100},
	}

	g := buildNetworkGraph(rows)

	// One user, two repos, two languages: Python is shared and appears once.
	require.Len(t, g.Nodes, 5)
	assert.Equal(t, NetworkNode{ID: "octocat", Label: "octocat", Type: "user"}, g.Nodes[0])

	types := make(map[string]int)
	for _, node := range g.Nodes {
		types[node.Type]++
	}
	assert.Equal(t, map[string]int{"user": 1, "repo": 2, "language": 2}, types)

	// owns edges deduplicated per repo, uses edges carry the percentage.
	require.Len(t, g.Edges, 5)
	assert.Contains(t, g.Edges, NetworkEdge{Source: "octocat", Target: "octocat/alpha", Type: "owns"})
	assert.Contains(t, g.Edges, NetworkEdge{Source: "octocat/alpha", Target: "Python", Type: "uses", Weight: 80})
	assert.Contains(t, g.Edges, NetworkEdge{Source: "octocat/beta", Target: "Python", Type: "uses", Weight: 100})
}

func TestBuildNetworkGraph_PreservesFirstSeenOrder(t *testing.T) {
	rows := []networkRow{
		{Login: "u", RepoFullName: "u/b", RepoName: "b", Language: "Go", Percentage: 100},
		{Login: "u", RepoFullName: "u/a", RepoName: "a", Language: "Go", Percentage: 100},
	}

	g := buildNetworkGraph(rows)

	ids := make([]string, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		ids = append(ids, node.ID)
	}
	assert.Equal(t, []string{"u", "u/b", "Go", "u/a"}, ids)
}

func TestBuildNetworkGraph_RepoNodeCarriesStars(t *testing.T) {
	g := buildNetworkGraph([]networkRow{
		{Login: "u", RepoFullName: "u/r", RepoName: "r", Stars: 42, Language: "Rust", Percentage: 100},
	})

	var repo *NetworkNode
	for i := range g.Nodes {
		if g.Nodes[i].Type == "repo" {
			repo = &g.Nodes[i]
		}
	}
	require.NotNil(t, repo)
	assert.Equal(t, int64(42), repo.Stars)
	assert.Equal(t, "r", repo.Label, "repo nodes are labeled with the short name")
}

func TestBuildNetworkGraph_Empty(t *testing.T) {
	g := buildNetworkGraph(nil)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}
