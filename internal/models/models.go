// Package models defines the fixed-shape entities stored in the graph.
package models

import "time"

// User is a GitHub account profile as persisted on the User node.
// Identity is Login; every other attribute is overwritten on each analysis.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	Blog        string    `json:"blog"`
	Email       string    `json:"email"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AvatarURL   string    `json:"avatar_url"`
}

// Repository is a single repo snapshot. Identity is FullName ("owner/name").
// Languages maps language name to byte count; it is empty for forks and for
// repos whose language fetch failed.
type Repository struct {
	Name        string         `json:"name"`
	FullName    string         `json:"full_name"`
	Description string         `json:"description"`
	Language    string         `json:"language"`
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	Watchers    int            `json:"watchers"`
	Size        int            `json:"size"`
	IsFork      bool           `json:"is_fork"`
	IsPrivate   bool           `json:"is_private"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	PushedAt    time.Time      `json:"pushed_at"`
	CloneURL    string         `json:"clone_url"`
	HTMLURL     string         `json:"html_url"`
	Topics      []string       `json:"topics"`
	Languages   map[string]int `json:"languages,omitempty"`
}

// UserSnapshot is one complete fetch result for a login: the profile plus
// every public repository with its language byte counts.
type UserSnapshot struct {
	User         User         `json:"user"`
	Repositories []Repository `json:"repositories"`
}
