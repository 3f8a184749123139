// Package config provides environment-driven configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// GitHub API
	GitHubToken string

	// Neo4j connection
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string

	// Service
	Environment string
	Debug       bool
	Port        string
}

// Load reads configuration from the environment, with .env files applied
// first so local development mirrors the deployed setup.
func Load() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetDefault("NEO4J_URI", "bolt://localhost:7687")
	v.SetDefault("NEO4J_USERNAME", "neo4j")
	v.SetDefault("NEO4J_PASSWORD", "password")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DEBUG", true)
	v.SetDefault("PORT", "5000")
	v.AutomaticEnv()

	cfg := &Config{
		GitHubToken:   v.GetString("GITHUB_TOKEN"),
		Neo4jURI:      v.GetString("NEO4J_URI"),
		Neo4jUsername: v.GetString("NEO4J_USERNAME"),
		Neo4jPassword: v.GetString("NEO4J_PASSWORD"),
		Environment:   v.GetString("ENVIRONMENT"),
		Debug:         v.GetBool("DEBUG"),
		Port:          v.GetString("PORT"),
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. Missing files are
// fine; explicit environment variables always win because godotenv never
// overrides existing values.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

// Validate checks required settings. Missing Neo4j credentials are fatal.
// A missing GitHub token is only a warning: unauthenticated requests work
// but at a far lower rate limit (60/hour instead of 5000/hour).
func (c *Config) Validate(log *logrus.Logger) error {
	if c.GitHubToken == "" {
		log.Warn("GITHUB_TOKEN not set; API rate limiting will be severe")
	}

	var missing []string
	if c.Neo4jURI == "" {
		missing = append(missing, "NEO4J_URI")
	}
	if c.Neo4jPassword == "" {
		missing = append(missing, "NEO4J_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}

	return nil
}

// RequestsPerHour returns the GitHub API quota implied by the token
// configuration, used to pace outbound requests.
func (c *Config) RequestsPerHour() int {
	if c.GitHubToken != "" {
		return 5000
	}
	return 60
}

// IsProduction reports whether the service runs in the production
// environment (controls CORS policy and log format).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
