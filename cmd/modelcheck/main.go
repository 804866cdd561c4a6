// modelcheck verifies that the configured model backend is usable
// before a long batch is started: credential present for hosted
// backends, server reachable and model pulled for local ones.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/llm/local"
	"github.com/joseph-ayodele/keywordpdf/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		configPath = flag.String("config", "config.ini", "path to the .ini configuration file")
		provider   = flag.String("provider", "", `model backend: "openai" or "local" (overrides config)`)
		model      = flag.String("model", "", "model name (overrides config)")
		verbose    = flag.Bool("verbose", false, "debug-level logging")
	)
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath, common.Overrides{
		Provider: provider,
		Model:    model,
		Verbose:  verbose,
	})
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	conn, err := pipeline.NewConnector(cfg.AI, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.AI.Provider == common.ProviderLocal {
		client := local.NewClient(local.Config{
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		}, logger)
		models, err := client.ListModels(ctx)
		if err != nil {
			printError("Error: local server at %s is unreachable: %v\n", cfg.AI.BaseURL, err)
			os.Exit(1)
		}
		fmt.Printf("Local server at %s is up. Available models:\n", cfg.AI.BaseURL)
		for _, name := range models {
			fmt.Printf("  %s\n", name)
		}
	}

	if !conn.IsConfigured(ctx) {
		printError("Provider %q with model %q is NOT usable\n", cfg.AI.Provider, cfg.AI.Model)
		os.Exit(1)
	}
	fmt.Printf("Provider %q with model %q is ready\n", cfg.AI.Provider, cfg.AI.Model)
}
