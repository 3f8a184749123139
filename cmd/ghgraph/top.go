package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghgraph/ghgraph/internal/format"
)

var topLimit int

var topCmd = &cobra.Command{
	Use:   "top <login>",
	Short: "List an analyzed user's repositories by star count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		login := args[0]
		ctx := context.Background()

		store, err := openGraph(ctx)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		repos, err := store.GetTopRepositories(ctx, login, topLimit)
		if err != nil {
			return err
		}
		if len(repos) == 0 {
			fmt.Printf("No repositories stored for %s. Run 'ghgraph analyze %s' first.\n", login, login)
			return nil
		}

		for i, repo := range repos {
			fmt.Printf("%2d. %-40s %8s stars  %s\n",
				i+1, repo.FullName, format.Number(repo.Stars), repo.Language)
		}
		return nil
	},
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 10, "maximum repositories to list")
}
