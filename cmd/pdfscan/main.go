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
		configPath = flag.String("config", "config.ini", "path to the .ini configuration file")
		pdfDir     = flag.String("dir", "", "directory with PDFs to scan (overrides config)")
		keywords   = flag.String("keywords", "", "keywords file, one per line (overrides config)")
		outPath    = flag.String("out", "", "output directory (overrides config)")
		rename     = flag.Bool("rename", false, "rename files to {company}_{date}.pdf")
		verbose    = flag.Bool("verbose", false, "debug-level logging")
	)
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath, common.Overrides{
		KeywordsList: keywords,
		PDFDir:       pdfDir,
		OutputPath:   outPath,
		Rename:       rename,
		Verbose:      verbose,
	})
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

	scanner := pipeline.NewScanner(cfg, logger).WithEvents(consoleEvents{})

	// Full analysis enriches the matrix with model output; plain runs
	// never touch a model backend.
	if cfg.FullAnalysis {
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
		scanner.WithAnalyzer(llm.NewAnalyzer(conn, guard, logger))
	}

	processed, err := scanner.Run(ctx)
	if err != nil {
		logger.Error("scan failed", "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if processed == 0 {
		printError("Error: no documents could be processed\n")
		os.Exit(1)
	}
}
