package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghgraph/ghgraph/internal/analyzer"
	"github.com/ghgraph/ghgraph/internal/format"
	"github.com/ghgraph/ghgraph/internal/github"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <login>",
	Short: "Fetch a user from GitHub and import them into the graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := args[0]
		if !format.ValidUsername(login) {
			return fmt.Errorf("invalid GitHub username: %q", login)
		}

		ctx := context.Background()

		store, err := openGraph(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		fetcher := github.NewClient(cfg.GitHubToken, cfg.RequestsPerHour(), log)
		service := analyzer.New(fetcher, store, log)

		result, err := service.Analyze(ctx, login)
		if err != nil {
			return err
		}

		stats := result.UserStats
		fmt.Printf("Analyzed %s (%s)\n", stats.Username, format.CleanString(stats.Name))
		fmt.Printf("  Repositories analyzed: %d (GitHub reports %d)\n",
			stats.ReposAnalyzed, stats.TotalReposGitHub)
		fmt.Printf("  Languages: %d\n", len(stats.LanguageStats))

		if len(result.TopRepositories) > 0 {
			fmt.Println("\nTop repositories:")
			for _, repo := range result.TopRepositories {
				fmt.Printf("  %-40s %s stars\n", repo.FullName, format.Number(repo.Stars))
			}
		}
		return nil
	},
}
