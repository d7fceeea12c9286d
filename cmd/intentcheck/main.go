package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	logger "github.com/sirupsen/logrus"

	"intentcheck/internal/action"
	"intentcheck/internal/agent"
	"intentcheck/internal/analyzer"
	"intentcheck/internal/githubapi"
	"intentcheck/internal/llm"
	"intentcheck/pkg/config"
)

var version = "dev"

func main() {
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("intentcheck version %s\n", version)
		return
	}

	if err := run(context.Background()); err != nil {
		logger.Errorf("intentcheck: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !slices.Contains(llm.SupportedProviders, cfg.LLM.Provider) {
		return fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}

	prNumber, err := githubapi.PullRequestNumberFromEvent(cfg.GitHub.EventPath)
	if err != nil {
		return err
	}

	github, err := githubapi.NewClient(cfg.GitHub.Token, cfg.GitHub.Repository, cfg.GitHub.APIURL)
	if err != nil {
		return err
	}

	provider, err := llm.NewProvider(ctx, llm.ProviderConfig{
		Type:    llm.ProviderType(cfg.LLM.Provider),
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	logger.Infof("intentcheck: using %s with model %s", cfg.LLM.Provider, provider.GetModel())

	registry, err := analyzer.NewRegistry()
	if err != nil {
		return fmt.Errorf("failed to create analyzer registry: %w", err)
	}

	checker := agent.NewIntentCheckAgent(github, provider, registry, cfg, action.NewOutputWriter())

	verdict, err := checker.CheckPullRequest(ctx, prNumber)
	if err != nil {
		return err
	}
	if !verdict.Passed() {
		return fmt.Errorf("intent check failed for PR #%d", prNumber)
	}

	logger.Infof("intentcheck: PR #%d passed", prNumber)
	return nil
}
