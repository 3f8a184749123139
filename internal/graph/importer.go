package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ghgraph/ghgraph/internal/models"
)

// EnsureConstraints creates the uniqueness constraints on User.login,
// Repo.full_name, and Language.name. An "already exists" failure counts
// as success; any other failure is logged as a warning and skipped, since
// constraints are an integrity optimization, not required for individual
// merges to be correct.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT user_login IF NOT EXISTS FOR (u:User) REQUIRE u.login IS UNIQUE",
		"CREATE CONSTRAINT repo_full_name IF NOT EXISTS FOR (r:Repo) REQUIRE r.full_name IS UNIQUE",
		"CREATE CONSTRAINT language_name IF NOT EXISTS FOR (l:Language) REQUIRE l.name IS UNIQUE",
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "already exists") {
				continue
			}
			c.log.WithError(err).Warn("failed to create constraint")
		}
	}

	return nil
}

// ImportSnapshot merges one user's full snapshot into the graph. The user
// node is merged first, then each repository (with its OWNS edge and
// language edges) in order. A failure on any repository aborts the
// remaining ones; the graph may be left partially written.
//
// The whole import runs on a single session so its statements are never
// interleaved with another import's on the same connection.
func (c *Client) ImportSnapshot(ctx context.Context, snap *models.UserSnapshot) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.database,
	})
	defer session.Close(ctx)

	login := snap.User.Login
	c.log.WithField("login", login).Info("starting graph import")

	if err := c.mergeUser(ctx, session, snap.User); err != nil {
		return fmt.Errorf("import user %s: %w", login, err)
	}

	for _, repo := range snap.Repositories {
		if err := c.mergeRepository(ctx, session, repo, login); err != nil {
			return fmt.Errorf("import repository %s: %w", repo.FullName, err)
		}
		if err := c.replaceLanguages(ctx, session, repo.FullName, repo.Languages); err != nil {
			return fmt.Errorf("import languages for %s: %w", repo.FullName, err)
		}
	}

	c.log.WithFields(map[string]any{
		"login": login,
		"repos": len(snap.Repositories),
	}).Info("completed graph import")

	return nil
}

// mergeUser match-or-creates the User node by login and overwrites every
// attribute, stamping last_analyzed with the store's current time.
func (c *Client) mergeUser(ctx context.Context, session neo4j.SessionWithContext, user models.User) error {
	query := `
		MERGE (u:User {login: $login})
		SET u.name = $name,
		    u.bio = $bio,
		    u.location = $location,
		    u.company = $company,
		    u.blog = $blog,
		    u.email = $email,
		    u.public_repos = $public_repos,
		    u.followers = $followers,
		    u.following = $following,
		    u.created_at = $created_at,
		    u.updated_at = $updated_at,
		    u.avatar_url = $avatar_url,
		    u.last_analyzed = datetime()
	`
	params := map[string]any{
		"login":        user.Login,
		"name":         user.Name,
		"bio":          user.Bio,
		"location":     user.Location,
		"company":      user.Company,
		"blog":         user.Blog,
		"email":        user.Email,
		"public_repos": user.PublicRepos,
		"followers":    user.Followers,
		"following":    user.Following,
		"created_at":   user.CreatedAt,
		"updated_at":   user.UpdatedAt,
		"avatar_url":   user.AvatarURL,
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	return err
}

// mergeRepository match-or-creates the Repo node by full_name, overwrites
// all attributes, and merges the OWNS edge from the analyzed user. If a
// different user previously owned this full_name, the stale OWNS edge is
// removed (last analysis wins) and a warning is logged.
func (c *Client) mergeRepository(ctx context.Context, session neo4j.SessionWithContext, repo models.Repository, login string) error {
	query := `
		MATCH (u:User {login: $login})
		MERGE (r:Repo {full_name: $full_name})
		SET r.name = $name,
		    r.description = $description,
		    r.language = $language,
		    r.stars = $stars,
		    r.forks = $forks,
		    r.watchers = $watchers,
		    r.size = $size,
		    r.is_fork = $is_fork,
		    r.is_private = $is_private,
		    r.created_at = $created_at,
		    r.updated_at = $updated_at,
		    r.pushed_at = $pushed_at,
		    r.clone_url = $clone_url,
		    r.html_url = $html_url,
		    r.topics = $topics
		WITH u, r
		OPTIONAL MATCH (prev:User)-[stale:OWNS]->(r)
		WHERE prev.login <> $login
		DELETE stale
		WITH u, r, collect(prev.login) AS previous_owners
		MERGE (u)-[:OWNS]->(r)
		RETURN previous_owners
	`
	params := map[string]any{
		"login":       login,
		"full_name":   repo.FullName,
		"name":        repo.Name,
		"description": repo.Description,
		"language":    repo.Language,
		"stars":       repo.Stars,
		"forks":       repo.Forks,
		"watchers":    repo.Watchers,
		"size":        repo.Size,
		"is_fork":     repo.IsFork,
		"is_private":  repo.IsPrivate,
		"created_at":  repo.CreatedAt,
		"updated_at":  repo.UpdatedAt,
		"pushed_at":   repo.PushedAt,
		"clone_url":   repo.CloneURL,
		"html_url":    repo.HTMLURL,
		"topics":      repo.Topics,
	}

	previousOwners, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		if owners, ok := record.Get("previous_owners"); ok {
			return owners, nil
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if owners, ok := previousOwners.([]any); ok && len(owners) > 0 {
		c.log.WithFields(map[string]any{
			"repo":            repo.FullName,
			"previous_owners": owners,
			"new_owner":       login,
		}).Warn("repository ownership rebound to new owner")
	}

	return nil
}

// replaceLanguages fully replaces a repository's USES_LANGUAGE edge set:
// existing edges are deleted, then the new set is merged with bytes and
// percentage. Re-importing a repo with fewer (or no) languages therefore
// leaves no stale edges behind. Language nodes themselves are shared
// dimension nodes and are never deleted.
func (c *Client) replaceLanguages(ctx context.Context, session neo4j.SessionWithContext, fullName string, languages map[string]int) error {
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		clearEdges := `
			MATCH (r:Repo {full_name: $full_name})-[rel:USES_LANGUAGE]->(:Language)
			DELETE rel
		`
		if result, err := tx.Run(ctx, clearEdges, map[string]any{"full_name": fullName}); err != nil {
			return nil, err
		} else if err := result.Err(); err != nil {
			return nil, err
		}

		merge := `
			MATCH (r:Repo {full_name: $full_name})
			MERGE (l:Language {name: $language})
			MERGE (r)-[rel:USES_LANGUAGE]->(l)
			SET rel.bytes = $bytes,
			    rel.percentage = $percentage
		`
		for language, percentage := range LanguagePercentages(languages) {
			params := map[string]any{
				"full_name":  fullName,
				"language":   language,
				"bytes":      languages[language],
				"percentage": percentage,
			}
			if result, err := tx.Run(ctx, merge, params); err != nil {
				return nil, err
			} else if err := result.Err(); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// LanguagePercentages computes each language's share of the repository's
// total bytes, as a percentage. An empty or all-zero map yields an empty
// result.
func LanguagePercentages(languages map[string]int) map[string]float64 {
	total := 0
	for _, bytes := range languages {
		total += bytes
	}
	if total == 0 {
		return map[string]float64{}
	}

	percentages := make(map[string]float64, len(languages))
	for language, bytes := range languages {
		percentages[language] = float64(bytes) / float64(total) * 100
	}
	return percentages
}
