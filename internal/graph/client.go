// Package graph persists and queries the User-Repo-Language property
// graph in Neo4j.
package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// ErrNoData is returned by read queries when no graph data exists for the
// requested login.
var ErrNoData = errors.New("no graph data for user")

// Client wraps the Neo4j driver with query helpers. One Client is shared
// across requests; each unit of work acquires its own session.
type Client struct {
	driver   neo4j.DriverWithContext
	log      *logrus.Logger
	database string
}

// NewClient connects to Neo4j and verifies connectivity, failing fast on
// startup if the store is unreachable.
func NewClient(ctx context.Context, uri, username, password string, log *logrus.Logger) (*Client, error) {
	if uri == "" || username == "" || password == "" {
		return nil, fmt.Errorf("neo4j credentials missing: uri=%s, user=%s", uri, username)
	}

	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(username, password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 50
			config.ConnectionAcquisitionTimeout = 60 * time.Second
			config.MaxConnectionLifetime = time.Hour
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}

	log.WithFields(logrus.Fields{"uri": uri, "user": username}).Info("neo4j client connected")

	return &Client{
		driver:   driver,
		log:      log,
		database: "neo4j",
	}, nil
}

// Close releases the driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	if err := c.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close neo4j driver: %w", err)
	}
	return nil
}

// HealthCheck verifies Neo4j connectivity, used by the health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j health check failed: %w", err)
	}
	return nil
}

// read executes a read query with readers routing and returns the eager
// result records.
func (c *Client) read(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, c.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return result.Records, nil
}

// Safe record-field extraction. Neo4j returns int64/float64/nil for
// numeric and absent properties; these helpers normalize without panics.

func asString(record *neo4j.Record, key string) string {
	if v, ok := record.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func asInt64(record *neo4j.Record, key string) int64 {
	if v, ok := record.Get(key); ok {
		if n, ok := v.(int64); ok {
			return n
		}
	}
	return 0
}

func asFloat64(record *neo4j.Record, key string) float64 {
	if v, ok := record.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	}
	return 0
}

func mapString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func mapInt64(m map[string]any, key string) int64 {
	if n, ok := m[key].(int64); ok {
		return n
	}
	return 0
}

func mapFloat64(m map[string]any, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func mapBool(m map[string]any, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

func mapStrings(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
