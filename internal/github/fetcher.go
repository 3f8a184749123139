package github

import (
	"context"
	"strings"

	"github.com/ghgraph/ghgraph/internal/models"
)

// FetchUserSnapshot retrieves the complete snapshot for one login: the
// profile, every public repository, and per-repository language bytes.
//
// Languages are only requested for original (non-fork) repositories; forks
// get an empty map without a network call. A failed language fetch for a
// single repository is demoted to a warning and that repository proceeds
// with an empty map; it never fails the whole snapshot.
func (c *Client) FetchUserSnapshot(ctx context.Context, login string) (*models.UserSnapshot, error) {
	c.log.WithField("login", login).Info("fetching GitHub data")

	rawUser, err := c.FetchUser(ctx, login)
	if err != nil {
		return nil, err
	}
	user := NormalizeUser(rawUser)

	rawRepos, err := c.FetchRepositories(ctx, login)
	if err != nil {
		return nil, err
	}

	repos := make([]models.Repository, 0, len(rawRepos))
	for _, raw := range rawRepos {
		repo := NormalizeRepository(raw)

		if !repo.IsFork {
			languages, err := c.FetchLanguages(ctx, ownerOf(repo.FullName, login), repo.Name)
			if err != nil {
				c.log.WithError(err).WithField("repo", repo.FullName).
					Warn("could not fetch languages, continuing with empty map")
			} else {
				repo.Languages = languages
			}
		}

		repos = append(repos, repo)
	}

	c.log.WithFields(map[string]any{
		"login": user.Login,
		"repos": len(repos),
	}).Info("fetched GitHub data")

	return &models.UserSnapshot{User: user, Repositories: repos}, nil
}

// ownerOf extracts the owner from "owner/name", falling back to the
// analyzed login when the full name is malformed.
func ownerOf(fullName, fallback string) string {
	if owner, _, ok := strings.Cut(fullName, "/"); ok && owner != "" {
		return owner
	}
	return fallback
}
