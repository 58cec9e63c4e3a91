package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"autocontentgen/config"
	"autocontentgen/generator"
	"autocontentgen/githost"
	"autocontentgen/gitrepo"
	"autocontentgen/server"
	"autocontentgen/workflow"
)

const generationTimeout = 10 * time.Minute

func main() {
	configPath := flag.String("config", "config/config.json", "path to config.json")
	serve := flag.Bool("serve", false, "start the web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	generate := flag.Bool("generate", false, "generate a new blog post and open a pull request")
	prNumber := flag.Int("pr", 0, "process review feedback for the given pull request number")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	publisher, reviser, err := buildWorkflows(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch {
	case *serve:
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		srv, err := server.New(publisher, reviser, listen)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		slog.Info("starting web server", "addr", listen)
		if err := srv.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

	case *generate:
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		res, err := publisher.Run(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if res.Rejected {
			fmt.Fprintln(os.Stderr, "pull request rejected:", res.Message)
			os.Exit(1)
		}
		fmt.Println(res.URL)

	case *prNumber > 0:
		ctx, cancel := context.WithTimeout(context.Background(), generationTimeout)
		defer cancel()
		res, err := reviser.Run(ctx, *prNumber)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if res.Skipped {
			slog.Info("no markdown files changed, nothing to do", "pr", *prNumber)
		}

	default:
		fmt.Fprintln(os.Stderr, "one of --serve, --generate, or --pr is required")
		os.Exit(1)
	}
}

func buildWorkflows(cfg config.Config) (*workflow.Publisher, *workflow.Reviser, error) {
	llm := generator.NewOpenAILLM(cfg.OpenAI.APIKey)
	writer, err := generator.NewWriter(llm, cfg.OpenAI.Model, cfg.OpenAI.ImageModel)
	if err != nil {
		return nil, nil, err
	}
	editor, err := generator.NewEditor(llm, cfg.OpenAI.Model)
	if err != nil {
		return nil, nil, err
	}

	host := githost.NewClient(cfg.GitHub.Token, cfg.GitHub.RepoOwner, cfg.GitHub.RepoName)
	cloner := gitrepo.Cloner{
		URL:      cfg.GitHub.RepoURL(),
		Username: cfg.GitHub.RepoOwner,
		Token:    cfg.GitHub.Token,
		Email:    cfg.GitHub.Email,
	}
	clone := workflow.ClonerFunc(func(ctx context.Context) (workflow.Repo, error) {
		return cloner.Clone(ctx)
	})

	logger := slog.Default()
	publisher, err := workflow.NewPublisher(writer, clone, host, cfg.GitHub.PostsDir, logger)
	if err != nil {
		return nil, nil, err
	}
	reviser, err := workflow.NewReviser(editor, clone, host, logger)
	if err != nil {
		return nil, nil, err
	}
	return publisher, reviser, nil
}
