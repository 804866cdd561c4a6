package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/export"
	"github.com/joseph-ayodele/keywordpdf/internal/extract"
	"github.com/joseph-ayodele/keywordpdf/internal/ingest"
	"github.com/joseph-ayodele/keywordpdf/internal/llm"
	"github.com/joseph-ayodele/keywordpdf/internal/pdftext"
	"github.com/joseph-ayodele/keywordpdf/internal/report"
)

// TextSource yields the plain text of one PDF.
type TextSource interface {
	Text(path string) (string, error)
}

// Scanner runs the deterministic batch: plain-text extraction, regex
// identity, keyword hit vector, one matrix written per run. With full
// analysis enabled it additionally asks the model for a summary and
// per-keyword excerpts.
type Scanner struct {
	cfg      *common.Config
	texts    TextSource
	analyzer *llm.Analyzer // nil unless full analysis
	events   Events
	logger   *slog.Logger
}

func NewScanner(cfg *common.Config, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		cfg: cfg,
		texts: pdftext.NewAcquirer(pdftext.Config{
			KeepMarkdown:  cfg.KeepMarkdown,
			ReuseMarkdown: cfg.ConvertMD,
		}, logger),
		events: NewLogEvents(logger),
		logger: logger,
	}
}

// WithAnalyzer attaches the model analyzer used by full-analysis runs.
func (s *Scanner) WithAnalyzer(a *llm.Analyzer) *Scanner {
	s.analyzer = a
	return s
}

// WithTextSource replaces the default PDF text extractor.
func (s *Scanner) WithTextSource(ts TextSource) *Scanner {
	s.texts = ts
	return s
}

// WithEvents replaces the default slog-backed progress sink.
func (s *Scanner) WithEvents(e Events) *Scanner {
	s.events = e
	return s
}

// Run processes every PDF directly under the configured directory and
// writes the result matrix to a fresh output.csv (a numbered variant
// when one already exists). It returns the number of documents that
// produced a row.
func (s *Scanner) Run(ctx context.Context) (int, error) {
	if err := extract.ValidateContextChars(s.cfg.ContextChars); err != nil {
		return 0, err
	}
	keywords, err := extract.LoadKeywords(s.cfg.KeywordsList)
	if err != nil {
		return 0, err
	}
	if len(keywords) == 0 {
		return 0, common.NewAppError("CONFIG_ERROR",
			fmt.Sprintf("no keywords in %q", s.cfg.KeywordsList), common.ErrConfiguration)
	}

	paths, err := ingest.ListPDFs(s.cfg.PDFDir, false, true)
	if err != nil {
		return 0, err
	}
	s.logger.Info("scan.start", "dir", s.cfg.PDFDir, "documents", len(paths), "keywords", len(keywords))

	header := []string{"file_name", "company", "date"}
	if s.fullAnalysis() {
		header = append(header, "resumo")
	}
	header = append(header, extract.NormalizeColumns(keywords)...)
	rows := [][]string{header}

	processed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		fileName := filepath.Base(path)
		s.events.OnProgress("extract", fileName)

		text, err := s.texts.Text(path)
		if err != nil {
			s.logger.Warn("scan.document_skipped",
				"file", fileName, "kind", common.ErrorKind(err), "error", err)
			s.events.OnError(common.ErrorKind(err), fileName+": "+err.Error())
			continue
		}

		company, date := extract.FindCompanyAndDate(text, s.cfg.CompanyRegex, s.cfg.DateRegex)
		if company == extract.UnknownCompany && date == extract.UnknownDate && s.fullAnalysis() {
			company, date = s.identityFallback(ctx, fileName, text)
		}

		if s.cfg.Rename {
			renamed, err := ingest.RenameByIdentity(s.cfg.PDFDir, fileName, company, date, s.logger)
			if err != nil {
				s.logger.Warn("scan.rename_failed", "file", fileName, "error", err)
			} else {
				fileName = renamed
			}
		}

		row := []string{fileName, company, date}
		if s.fullAnalysis() {
			s.events.OnProgress("analyze", fileName)
			row = append(row, s.analysisCells(ctx, fileName, text, keywords)...)
		} else {
			if extract.ContainsAny(text, keywords) {
				s.events.OnProgress("match", fileName)
			}
			for _, hit := range extract.CheckAll(text, keywords) {
				row = append(row, fmt.Sprintf("%d", hit))
			}
		}
		rows = append(rows, row)
		processed++
	}

	if s.fullAnalysis() {
		if !s.cfg.IncludeSummary {
			rows = report.RemoveSummaryColumn(rows)
		}
		rows = report.WrapContextMarkers(rows)
	}

	outName := ingest.UniqueFilename(s.cfg.OutputPath, "output.csv")
	outPath := filepath.Join(s.cfg.OutputPath, outName)
	if err := report.SaveMatrix(rows, outPath); err != nil {
		return processed, err
	}
	s.logger.Info("scan.done", "processed", processed, "output", outPath)
	s.events.OnProgress("write", outPath)

	// The spreadsheet rendering is a convenience copy; its failure
	// never fails a run that already has the CSV on disk.
	xlsxPath := strings.TrimSuffix(outPath, ".csv") + ".xlsx"
	if err := export.WriteXLSX(rows, xlsxPath, s.logger); err != nil {
		s.logger.Warn("scan.xlsx_failed", "path", xlsxPath, "error", err)
	}

	return processed, nil
}

func (s *Scanner) fullAnalysis() bool {
	return s.cfg.FullAnalysis && s.analyzer != nil
}

// identityFallback asks the model for company and date when both
// regex extractions produced their sentinels. On any model failure the
// sentinels stand.
func (s *Scanner) identityFallback(ctx context.Context, fileName, text string) (company, date string) {
	company, date = extract.UnknownCompany, extract.UnknownDate

	analysis := s.analyzer.AnalyzeIdentity(ctx, text, false)
	if analysis.Status != llm.StatusParsed {
		s.logger.Warn("scan.identity_fallback_failed",
			"file", fileName, "status", string(analysis.Status))
		return company, date
	}
	if name := extract.NormalizeCompany(fieldString(analysis.Fields["company"])); name != "" {
		company = name
	}
	date = extract.NormalizeDateDigits(fieldString(analysis.Fields["date"]))
	s.logger.Debug("scan.identity_fallback",
		"file", fileName, "company", company, "date", date)
	return company, date
}

// analysisCells returns the resumo cell followed by one excerpt cell
// per keyword, in keyword order. When the analysis did not parse, the
// resumo cell carries the error message and the keyword cells stay
// empty.
func (s *Scanner) analysisCells(ctx context.Context, fileName, text string, keywords []string) []string {
	analysis := s.analyzer.AnalyzeDocument(ctx, text, keywords, s.cfg.ContextChars)
	cells := make([]string, 0, len(keywords)+1)
	if analysis.Status != llm.StatusParsed {
		msg := fieldString(analysis.Fields["error"])
		if msg == "" {
			msg = "analysis failed"
		}
		s.logger.Warn("scan.analysis_failed",
			"file", fileName, "status", string(analysis.Status))
		s.events.OnError(statusKind(analysis.Status), fileName+": "+msg)
		cells = append(cells, msg)
		for range keywords {
			cells = append(cells, "")
		}
		return cells
	}
	cells = append(cells, fieldString(analysis.Fields["resumo"]))
	for _, kw := range keywords {
		cells = append(cells, fieldString(analysis.Fields[kw]))
	}
	return cells
}

// statusKind maps a terminal analysis status onto the error taxonomy
// labels used for event reporting.
func statusKind(status llm.Status) string {
	switch status {
	case llm.StatusRejected:
		return common.ErrorKind(common.ErrBudgetExceeded)
	case llm.StatusTransportFailed:
		return common.ErrorKind(common.ErrTransport)
	case llm.StatusRepairFailed:
		return common.ErrorKind(common.ErrResponseFormat)
	default:
		return "internal"
	}
}

// fieldString renders one parsed response value as a cell: strings
// pass through, arrays join on the excerpt separator, anything else
// is empty.
func fieldString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, extract.ExcerptSeparator)
	case []string:
		return strings.Join(val, extract.ExcerptSeparator)
	case float64:
		return fmt.Sprintf("%v", val)
	default:
		return ""
	}
}
