// ghgraph is the command-line interface to the GitHub graph analyzer.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghgraph/ghgraph/internal/config"
	"github.com/ghgraph/ghgraph/internal/graph"
	"github.com/ghgraph/ghgraph/internal/logging"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	verbose bool
	log     *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghgraph",
	Short: "Analyze GitHub users into a Neo4j property graph",
	Long: `ghgraph fetches a GitHub user's public profile and repositories,
persists them as a User-Repo-Language graph in Neo4j, and reports
aggregate statistics.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log = logging.New(verbose || cfg.Debug)
		return cfg.Validate(log)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`ghgraph {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(topCmd)
}

// openGraph connects to Neo4j using the loaded configuration. The caller
// must Close the returned client.
func openGraph(ctx context.Context) (*graph.Client, error) {
	return graph.NewClient(ctx, cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, log)
}
