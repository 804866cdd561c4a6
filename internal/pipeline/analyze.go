package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/extract"
	"github.com/joseph-ayodele/keywordpdf/internal/ingest"
	"github.com/joseph-ayodele/keywordpdf/internal/llm"
	"github.com/joseph-ayodele/keywordpdf/internal/pdftext"
	"github.com/joseph-ayodele/keywordpdf/internal/report"
)

// ResultsFile is the accumulating report of the model-assisted batch.
const ResultsFile = "resultados.csv"

// Analyzer runs the model-assisted batch: Markdown acquisition,
// one extraction request per document, one row appended per document
// to an accumulating CSV that survives across runs.
type Analyzer struct {
	cfg      *common.Config
	acquirer *pdftext.Acquirer
	model    *llm.Analyzer
	acc      *report.Accumulator
	events   Events
	logger   *slog.Logger
}

func NewAnalyzer(cfg *common.Config, model *llm.Analyzer, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		cfg: cfg,
		acquirer: pdftext.NewAcquirer(pdftext.Config{
			KeepMarkdown:  cfg.KeepMarkdown,
			ReuseMarkdown: cfg.ConvertMD,
		}, logger),
		model:  model,
		acc:    report.NewAccumulator(logger),
		events: NewLogEvents(logger),
		logger: logger,
	}
}

// WithEvents replaces the default slog-backed progress sink.
func (a *Analyzer) WithEvents(e Events) *Analyzer {
	a.events = e
	return a
}

// Run walks the configured directory recursively and appends one row
// per analyzable document. Documents whose content cannot be acquired
// are skipped; model failures still produce a row carrying the error,
// so the report stays one-row-per-document for everything the model
// was asked about. Returns the number of rows appended.
func (a *Analyzer) Run(ctx context.Context) (int, error) {
	if err := extract.ValidateContextChars(a.cfg.ContextChars); err != nil {
		return 0, err
	}
	keywords, err := extract.LoadKeywords(a.cfg.KeywordsList)
	if err != nil {
		return 0, err
	}
	if len(keywords) == 0 {
		return 0, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("no keywords in %q", a.cfg.KeywordsList), common.ErrConfiguration)
	}

	paths, err := ingest.ListPDFs(a.cfg.PDFDir, true, true)
	if err != nil {
		return 0, err
	}
	resultsPath := filepath.Join(a.cfg.OutputPath, ResultsFile)
	a.logger.Info("analyze.start",
		"dir", a.cfg.PDFDir, "documents", len(paths), "results", resultsPath)

	processed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		fileName := filepath.Base(path)
		a.events.OnProgress("convert", fileName)

		content, err := a.acquirer.Markdown(ctx, path)
		if err != nil {
			a.logger.Warn("analyze.document_skipped",
				"file", fileName, "kind", common.ErrorKind(err), "error", err)
			a.events.OnError(common.ErrorKind(err), fileName+": "+err.Error())
			continue
		}

		a.events.OnProgress("analyze", fileName)
		analysis := a.model.AnalyzeDocument(ctx, content, keywords, a.cfg.ContextChars)
		record := buildRecord(fileName, analysis, keywords)

		if err := a.acc.AppendRecord(record, resultsPath, keywords); err != nil {
			return processed, err
		}
		processed++
		a.logger.Info("analyze.document_done",
			"file", fileName, "status", string(analysis.Status), "tokens", analysis.Tokens)
	}

	a.logger.Info("analyze.done", "processed", processed, "results", resultsPath)
	a.events.OnProgress("write", resultsPath)
	return processed, nil
}

// buildRecord flattens one analysis outcome into the report schema.
func buildRecord(fileName string, analysis llm.Analysis, keywords []string) report.Record {
	record := report.Record{
		"filename": fileName,
		"company":  fieldString(analysis.Fields["company"]),
		"date":     fieldString(analysis.Fields["date"]),
		"resumo":   fieldString(analysis.Fields["resumo"]),
		"tokens":   strconv.Itoa(analysis.Tokens),
	}

	for _, kw := range keywords {
		record[kw] = fieldString(analysis.Fields[kw])
	}

	if found, ok := analysis.Fields["keywords"].([]any); ok {
		names := make([]string, 0, len(found))
		for _, item := range found {
			if s, ok := item.(string); ok && s != "" {
				names = append(names, s)
			}
		}
		record["keywords"] = strings.Join(names, ";")
	}

	if msg := fieldString(analysis.Fields["error"]); msg != "" {
		record["error"] = msg
	}
	return record
}
