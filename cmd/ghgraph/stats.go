package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ghgraph/ghgraph/internal/format"
)

var statsCmd = &cobra.Command{
	Use:   "stats <login>",
	Short: "Show stored statistics for an analyzed user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := args[0]
		ctx := context.Background()

		store, err := openGraph(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		stats, err := store.GetUserStats(ctx, login)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", stats.Username, format.CleanString(stats.Name))
		fmt.Printf("  Repositories analyzed: %d (GitHub reports %d)\n",
			stats.ReposAnalyzed, stats.TotalReposGitHub)

		if len(stats.LanguageStats) > 0 {
			names := make([]string, 0, len(stats.LanguageStats))
			for name := range stats.LanguageStats {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				return stats.LanguageStats[names[i]].TotalBytes > stats.LanguageStats[names[j]].TotalBytes
			})

			fmt.Println("\nLanguages:")
			for _, name := range names {
				lang := stats.LanguageStats[name]
				fmt.Printf("  %-20s %8s bytes in %d repos (avg %.1f%%)\n",
					name, format.Number(lang.TotalBytes), lang.RepoCount, lang.AvgPercentage)
			}
		}
		return nil
	},
}
