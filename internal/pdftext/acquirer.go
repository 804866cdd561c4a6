// Package pdftext is the pipeline's input boundary: it obtains plain
// text or Markdown for one PDF. Markdown rendering is delegated to an
// external converter; this package only orchestrates it.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
)

// maxPDFBytes caps in-memory extraction to avoid OOM on pathological
// inputs.
const maxPDFBytes = 200 << 20

type Config struct {
	// Converter is the external PDF-to-Markdown command, expected to
	// accept `--to md --output <dir> <file>` and write `<stem>.md`.
	Converter string // default "docling"

	// KeepMarkdown persists the rendered .md next to the source PDF.
	KeepMarkdown bool

	// ReuseMarkdown short-circuits conversion when a .md sibling of the
	// PDF already exists.
	ReuseMarkdown bool
}

// Acquirer reads document content. Failures are reported as
// acquisition errors: the caller treats them as "no extractable
// content" and continues the batch.
type Acquirer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if cfg.Converter == "" {
		cfg.Converter = "docling"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the external-command runner; tests use it to stub
// the converter.
func (a *Acquirer) WithRunner(r Runner) *Acquirer {
	a.runner = r
	return a
}

// Text returns the page-concatenated plain text of the PDF at path.
func (a *Acquirer) Text(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", common.NewAppError("ACQUISITION", fmt.Sprintf("stat %q", path), common.ErrAcquisition)
	}
	if st.Size() > maxPDFBytes {
		return "", common.NewAppError("ACQUISITION", fmt.Sprintf("%q too large for in-memory extraction", path), common.ErrAcquisition)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", common.NewAppError("ACQUISITION", fmt.Sprintf("read %q", path), common.ErrAcquisition)
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", common.NewAppError("ACQUISITION", fmt.Sprintf("open %q as pdf", path), common.ErrAcquisition)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			// A broken page degrades the result, it does not fail it.
			a.logger.Warn("pdftext.page_failed", "path", path, "page", i, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	}

	if b.Len() == 0 {
		return "", common.NewAppError("ACQUISITION", fmt.Sprintf("no text extracted from %q", path), common.ErrAcquisition)
	}
	return b.String(), nil
}

// Markdown returns a Markdown rendering of the PDF at path, produced
// by the external converter (or reused from a pre-existing sibling
// .md when configured).
func (a *Acquirer) Markdown(ctx context.Context, path string) (string, error) {
	sibling := mdSibling(path)
	if a.cfg.ReuseMarkdown {
		if content, err := os.ReadFile(sibling); err == nil && len(content) > 0 {
			a.logger.Debug("pdftext.markdown_reused", "path", sibling)
			return string(content), nil
		}
	}

	start := time.Now()
	tmpDir, err := os.MkdirTemp("", "kwpdf-md-*")
	if err != nil {
		return "", common.WrapError(err, "create temp dir")
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			a.logger.Warn("pdftext.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	_, stderr, err := a.runner.Run(ctx, a.cfg.Converter, "--to", "md", "--output", tmpDir, path)
	if err != nil {
		return "", common.NewAppError("ACQUISITION",
			fmt.Sprintf("convert %q: %s", path, capString(string(stderr), 512)), common.ErrAcquisition)
	}

	rendered := filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".md")
	content, err := os.ReadFile(rendered)
	if err != nil || len(content) == 0 {
		return "", common.NewAppError("ACQUISITION",
			fmt.Sprintf("converter produced no markdown for %q", path), common.ErrAcquisition)
	}

	a.logger.Debug("pdftext.markdown_ok",
		"path", path, "bytes", len(content), "elapsed_ms", time.Since(start).Milliseconds())

	if a.cfg.KeepMarkdown {
		if err := os.WriteFile(sibling, content, 0o644); err != nil {
			a.logger.Warn("pdftext.keep_markdown_failed", "path", sibling, "error", err)
		}
	}
	return string(content), nil
}

func mdSibling(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".md"
}
