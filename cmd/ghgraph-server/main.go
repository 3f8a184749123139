// ghgraph-server is the HTTP API for the GitHub graph analyzer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghgraph/ghgraph/internal/analyzer"
	"github.com/ghgraph/ghgraph/internal/api"
	"github.com/ghgraph/ghgraph/internal/config"
	"github.com/ghgraph/ghgraph/internal/github"
	"github.com/ghgraph/ghgraph/internal/graph"
	"github.com/ghgraph/ghgraph/internal/logging"
)

// Version is set by build flags.
var Version = "1.0.0"

// productionOrigins are the frontend origins allowed in production.
var productionOrigins = []string{
	"https://github-analyzer-frontend.onrender.com",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.New(cfg.Debug)
	if err := cfg.Validate(log); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	graphClient, err := graph.NewClient(ctx, cfg.Neo4jURI, cfg.Neo4jUsername, cfg.Neo4jPassword, log)
	if err != nil {
		return err
	}
	defer graphClient.Close(context.Background())

	// Best-effort at startup; constraint failures are non-fatal and the
	// pipeline re-ensures them per analysis.
	if err := graphClient.EnsureConstraints(ctx); err != nil {
		log.WithError(err).Warn("could not ensure graph constraints at startup")
	}

	ghClient := github.NewClient(cfg.GitHubToken, cfg.RequestsPerHour(), log)
	service := analyzer.New(ghClient, graphClient, log)

	var corsOrigins []string
	if cfg.IsProduction() {
		corsOrigins = productionOrigins
	}

	router := api.NewRouter(&api.RouterDeps{
		Log:         log,
		Analyzer:    service,
		Stats:       graphClient,
		Health:      graphClient,
		Version:     Version,
		CORSOrigins: corsOrigins,
		Debug:       cfg.Debug,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
