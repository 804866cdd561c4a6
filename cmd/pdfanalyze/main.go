package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/llm"
	"github.com/joseph-ayodele/keywordpdf/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// consoleEvents prints batch progress to stdout, one line per step.
type consoleEvents struct{}

func (consoleEvents) OnProgress(stage, document string) {
	fmt.Printf("[%s] %s\n", stage, document)
}

func (consoleEvents) OnError(kind, detail string) {
	printError("[%s] %s\n", kind, detail)
}

func main() {
	var (
		configPath   = flag.String("config", "config.ini", "path to the .ini configuration file")
		pdfDir       = flag.String("dir", "", "directory with PDFs to analyze (overrides config)")
		keywords     = flag.String("keywords", "", "keywords file, one per line (overrides config)")
		outPath      = flag.String("out", "", "output directory (overrides config)")
		provider     = flag.String("provider", "", `model backend: "openai" or "local" (overrides config)`)
		model        = flag.String("model", "", "model name (overrides config)")
		contextChars = flag.Int("context-chars", -1, "characters of context around each keyword hit (overrides config)")
		verbose      = flag.Bool("verbose", false, "debug-level logging")
	)
	flag.Parse()

	ov := common.Overrides{
		KeywordsList: keywords,
		PDFDir:       pdfDir,
		OutputPath:   outPath,
		Provider:     provider,
		Model:        model,
		Verbose:      verbose,
	}
	if *contextChars >= 0 {
		ov.ContextChars = contextChars
	}

	cfg, err := common.LoadConfig(*configPath, ov)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
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
	if !conn.IsConfigured(ctx) {
		printError("Error: ai_provider %q is not usable; check credentials or the local server\n", cfg.AI.Provider)
		os.Exit(1)
	}

	guard := llm.NewBudgetGuard(cfg.AI.MaxTokens, conn)
	analyzer := pipeline.NewAnalyzer(cfg, llm.NewAnalyzer(conn, guard, logger), logger).
		WithEvents(consoleEvents{})

	processed, err := analyzer.Run(ctx)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if processed == 0 {
		printError("Error: no documents could be processed\n")
		os.Exit(1)
	}
}
