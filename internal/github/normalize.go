package github

import (
	gh "github.com/google/go-github/v57/github"

	"github.com/ghgraph/ghgraph/internal/models"
)

// NormalizeUser maps a raw API user record to the internal shape. Optional
// fields (name, bio, location, ...) become explicit zero values so the
// merge code never sees an absent attribute.
func NormalizeUser(u *gh.User) models.User {
	return models.User{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		Company:     u.GetCompany(),
		Blog:        u.GetBlog(),
		Email:       u.GetEmail(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().Time,
		UpdatedAt:   u.GetUpdatedAt().Time,
		AvatarURL:   u.GetAvatarURL(),
	}
}

// NormalizeRepository maps a raw API repository record to the internal
// shape. Topics keep their API order; PushedAt is the zero time when the
// repository has never been pushed.
func NormalizeRepository(r *gh.Repository) models.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return models.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		Size:        r.GetSize(),
		IsFork:      r.GetFork(),
		IsPrivate:   r.GetPrivate(),
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
		CloneURL:    r.GetCloneURL(),
		HTMLURL:     r.GetHTMLURL(),
		Topics:      topics,
		Languages:   map[string]int{},
	}
}
