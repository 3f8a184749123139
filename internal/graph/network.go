package graph

import (
	"context"
	"fmt"
)

// NetworkNode is a typed node in the visualization payload.
type NetworkNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Stars int64  `json:"stars,omitempty"`
}

// NetworkEdge is a typed, optionally weighted edge in the visualization
// payload. Weight carries the language percentage on "uses" edges.
type NetworkEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight,omitempty"`
}

// NetworkGraph is the graph-visualization payload for one user.
type NetworkGraph struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// networkRow is one user-repo-language path read from the graph.
type networkRow struct {
	Login        string
	RepoFullName string
	RepoName     string
	Stars        int64
	Language     string
	Percentage   float64
}

// GetNetworkGraph returns the visualization payload for a login:
// user/repo/language nodes with owns/uses edges. Returns ErrNoData when no
// user-repo-language paths exist for the login.
func (c *Client) GetNetworkGraph(ctx context.Context, login string) (*NetworkGraph, error) {
	query := `
		MATCH (u:User {login: $login})-[:OWNS]->(r:Repo)-[rel:USES_LANGUAGE]->(l:Language)
		RETURN u.login AS login,
		       r.full_name AS repo_full_name,
		       r.name AS repo_name,
		       r.stars AS stars,
		       l.name AS language,
		       rel.percentage AS percentage
	`

	records, err := c.read(ctx, query, map[string]any{"login": login})
	if err != nil {
		return nil, fmt.Errorf("network graph query failed for %s: %w", login, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, login)
	}

	rows := make([]networkRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, networkRow{
			Login:        asString(record, "login"),
			RepoFullName: asString(record, "repo_full_name"),
			RepoName:     asString(record, "repo_name"),
			Stars:        asInt64(record, "stars"),
			Language:     asString(record, "language"),
			Percentage:   asFloat64(record, "percentage"),
		})
	}

	return buildNetworkGraph(rows), nil
}

// buildNetworkGraph assembles deduplicated nodes and edges from raw
// user-repo-language rows, preserving first-seen order.
func buildNetworkGraph(rows []networkRow) *NetworkGraph {
	graph := &NetworkGraph{
		Nodes: []NetworkNode{},
		Edges: []NetworkEdge{},
	}

	seenNodes := make(map[string]bool)
	seenEdges := make(map[string]bool)

	addNode := func(node NetworkNode) {
		if !seenNodes[node.ID] {
			seenNodes[node.ID] = true
			graph.Nodes = append(graph.Nodes, node)
		}
	}
	addEdge := func(edge NetworkEdge) {
		key := edge.Source + "->" + edge.Target
		if !seenEdges[key] {
			seenEdges[key] = true
			graph.Edges = append(graph.Edges, edge)
		}
	}

	for _, row := range rows {
		addNode(NetworkNode{ID: row.Login, Label: row.Login, Type: "user"})
		addNode(NetworkNode{ID: row.RepoFullName, Label: row.RepoName, Type: "repo", Stars: row.Stars})
		addNode(NetworkNode{ID: row.Language, Label: row.Language, Type: "language"})
		addEdge(NetworkEdge{Source: row.Login, Target: row.RepoFullName, Type: "owns"})
		addEdge(NetworkEdge{Source: row.RepoFullName, Target: row.Language, Type: "uses", Weight: row.Percentage})
	}

	return graph
}
