package graph

import (
	"context"
	"fmt"
)

// RepoSummary is a repository as reported inside user stats.
type RepoSummary struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	Stars       int64    `json:"stars"`
	Forks       int64    `json:"forks"`
	Language    string   `json:"language"`
	IsFork      bool     `json:"is_fork"`
	Topics      []string `json:"topics"`
}

// LanguageStat aggregates one language across a user's repositories.
// AvgPercentage is the mean of per-repo percentages, not byte-weighted: a
// repo at 1% counts the same as one at 99%.
type LanguageStat struct {
	TotalBytes    int64   `json:"total_bytes"`
	RepoCount     int     `json:"repo_count"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// UserStats is the aggregate view of one analyzed user.
type UserStats struct {
	Username         string                  `json:"username"`
	Name             string                  `json:"name"`
	TotalReposGitHub int64                   `json:"total_repos_github"`
	ReposAnalyzed    int64                   `json:"repos_analyzed"`
	Repositories     []RepoSummary           `json:"repositories"`
	LanguageStats    map[string]LanguageStat `json:"language_stats"`
}

// TopRepository is a row from the star-ranked repository query.
type TopRepository struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int64  `json:"stars"`
	Forks       int64  `json:"forks"`
	Language    string `json:"language"`
	URL         string `json:"url"`
}

// PopularLanguage is a language ranked across all analyzed users.
type PopularLanguage struct {
	Language      string  `json:"language"`
	RepoCount     int64   `json:"repo_count"`
	TotalBytes    int64   `json:"total_bytes"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// languageRow is one (repo, language) pair read back from the graph.
type languageRow struct {
	Language   string
	Bytes      int64
	Percentage float64
}

// GetUserStats returns the aggregate view for a login, or ErrNoData if the
// user was never analyzed. ReposAnalyzed counts Repo nodes actually linked
// by OWNS, which may drift from the profile's public_repos count.
func (c *Client) GetUserStats(ctx context.Context, login string) (*UserStats, error) {
	query := `
		MATCH (u:User {login: $login})
		OPTIONAL MATCH (u)-[:OWNS]->(r:Repo)
		OPTIONAL MATCH (r)-[rel:USES_LANGUAGE]->(l:Language)
		RETURN u.login AS username,
		       u.name AS name,
		       u.public_repos AS total_repos_github,
		       count(DISTINCT r) AS repos_analyzed,
		       collect(DISTINCT {
		           name: r.name,
		           full_name: r.full_name,
		           description: r.description,
		           stars: r.stars,
		           forks: r.forks,
		           language: r.language,
		           is_fork: r.is_fork,
		           topics: r.topics
		       }) AS repositories,
		       collect({
		           language: l.name,
		           percentage: rel.percentage,
		           bytes: rel.bytes
		       }) AS languages
	`

	records, err := c.read(ctx, query, map[string]any{"login": login})
	if err != nil {
		return nil, fmt.Errorf("user stats query failed for %s: %w", login, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, login)
	}

	record := records[0]
	stats := &UserStats{
		Username:         asString(record, "username"),
		Name:             asString(record, "name"),
		TotalReposGitHub: asInt64(record, "total_repos_github"),
		ReposAnalyzed:    asInt64(record, "repos_analyzed"),
		Repositories:     []RepoSummary{},
	}

	if raw, ok := record.Get("repositories"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				m, ok := entry.(map[string]any)
				if !ok || m["name"] == nil {
					continue // null placeholder from a user with no repos
				}
				stats.Repositories = append(stats.Repositories, RepoSummary{
					Name:        mapString(m, "name"),
					FullName:    mapString(m, "full_name"),
					Description: mapString(m, "description"),
					Stars:       mapInt64(m, "stars"),
					Forks:       mapInt64(m, "forks"),
					Language:    mapString(m, "language"),
					IsFork:      mapBool(m, "is_fork"),
					Topics:      mapStrings(m, "topics"),
				})
			}
		}
	}

	var rows []languageRow
	if raw, ok := record.Get("languages"); ok {
		if entries, ok := raw.([]any); ok {
			for _, entry := range entries {
				m, ok := entry.(map[string]any)
				if !ok || m["language"] == nil {
					continue
				}
				rows = append(rows, languageRow{
					Language:   mapString(m, "language"),
					Bytes:      mapInt64(m, "bytes"),
					Percentage: mapFloat64(m, "percentage"),
				})
			}
		}
	}
	stats.LanguageStats = foldLanguageStats(rows)

	return stats, nil
}

// foldLanguageStats aggregates per-repo language rows into per-language
// totals: summed bytes, repo count, and the mean of per-repo percentages.
func foldLanguageStats(rows []languageRow) map[string]LanguageStat {
	totals := make(map[string]LanguageStat)
	sums := make(map[string]float64)

	for _, row := range rows {
		stat := totals[row.Language]
		stat.TotalBytes += row.Bytes
		stat.RepoCount++
		totals[row.Language] = stat
		sums[row.Language] += row.Percentage
	}

	for language, stat := range totals {
		stat.AvgPercentage = sums[language] / float64(stat.RepoCount)
		totals[language] = stat
	}

	return totals
}

// GetTopRepositories returns the user's non-fork repositories ordered by
// star count descending, truncated to limit. Star ties have no defined
// secondary order.
func (c *Client) GetTopRepositories(ctx context.Context, login string, limit int) ([]TopRepository, error) {
	query := `
		MATCH (u:User {login: $login})-[:OWNS]->(r:Repo)
		WHERE NOT r.is_fork
		RETURN r.name AS name,
		       r.full_name AS full_name,
		       r.description AS description,
		       r.stars AS stars,
		       r.forks AS forks,
		       r.language AS language,
		       r.html_url AS url
		ORDER BY r.stars DESC
		LIMIT $limit
	`

	records, err := c.read(ctx, query, map[string]any{"login": login, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("top repositories query failed for %s: %w", login, err)
	}

	repos := make([]TopRepository, 0, len(records))
	for _, record := range records {
		repos = append(repos, TopRepository{
			Name:        asString(record, "name"),
			FullName:    asString(record, "full_name"),
			Description: asString(record, "description"),
			Stars:       asInt64(record, "stars"),
			Forks:       asInt64(record, "forks"),
			Language:    asString(record, "language"),
			URL:         asString(record, "url"),
		})
	}

	return repos, nil
}

// GetPopularLanguages ranks languages across all analyzed users by the
// number of repositories using them, capped at the top 20.
func (c *Client) GetPopularLanguages(ctx context.Context) ([]PopularLanguage, error) {
	query := `
		MATCH (l:Language)<-[rel:USES_LANGUAGE]-(r:Repo)
		WITH l.name AS language,
		     count(r) AS repo_count,
		     sum(rel.bytes) AS total_bytes,
		     avg(rel.percentage) AS avg_percentage
		ORDER BY repo_count DESC
		LIMIT 20
		RETURN language, repo_count, total_bytes, avg_percentage
	`

	records, err := c.read(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("popular languages query failed: %w", err)
	}

	languages := make([]PopularLanguage, 0, len(records))
	for _, record := range records {
		languages = append(languages, PopularLanguage{
			Language:      asString(record, "language"),
			RepoCount:     asInt64(record, "repo_count"),
			TotalBytes:    asInt64(record, "total_bytes"),
			AvgPercentage: asFloat64(record, "avg_percentage"),
		})
	}

	return languages, nil
}
