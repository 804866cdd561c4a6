package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/keywordpdf/internal/common"
	"github.com/joseph-ayodele/keywordpdf/internal/llm"
)

// fakeTexts serves canned plain text by base name, standing in for the
// PDF extractor.
type fakeTexts struct {
	texts map[string]string
}

func (f fakeTexts) Text(path string) (string, error) {
	if text, ok := f.texts[filepath.Base(path)]; ok {
		return text, nil
	}
	return "", common.NewAppError("ACQUISITION_ERROR", "unreadable document", common.ErrAcquisition)
}

func scanConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.DateRegex = regexp.MustCompile("(?i)" + common.DefaultDatePattern)
	cfg.CompanyRegex = regexp.MustCompile("(?i)" + common.DefaultCompanyPattern)
	return cfg
}

const mergerText = "COMUNICADO AO MERCADO Acme Participações S.A.\n" +
	"São Paulo, 5 de março de 2024.\n" +
	"A companhia anuncia a fusão com a XPTO."

func writeStubPDF(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4 stub"), 0o644))
}

func TestScanner_Run(t *testing.T) {
	cfg := scanConfig(t)
	for _, name := range []string{"merger.pdf", "plain.pdf", "torn.pdf"} {
		writeStubPDF(t, cfg.PDFDir, name)
	}
	texts := fakeTexts{texts: map[string]string{
		"merger.pdf": mergerText,
		"plain.pdf":  "Relatório trimestral sem novidades.",
	}}

	events := &recordingEvents{}
	s := NewScanner(cfg, nil).WithTextSource(texts).WithEvents(events)
	processed, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	// The unreadable document is reported, not fatal.
	require.Len(t, events.errors, 1)
	assert.Equal(t, "acquisition", events.errors[0].kind)
	assert.Contains(t, events.errors[0].detail, "torn.pdf")

	// Only the document that actually contains a keyword announces a
	// match.
	assert.Contains(t, events.progress, "match:merger.pdf")
	assert.NotContains(t, events.progress, "match:plain.pdf")

	rows := readMatrix(t, filepath.Join(cfg.OutputPath, "output.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"file_name", "company", "date", "fusão", "dividendos"}, rows[0])
	assert.Equal(t, []string{"merger.pdf", "Acme_Participações_S.A.", "20240305", "1", "0"}, rows[1])
	assert.Equal(t, []string{"plain.pdf", "UNKNOWN", "00000000", "0", "0"}, rows[2])

	// A second run must not clobber the first matrix.
	_, err = NewScanner(cfg, nil).WithTextSource(texts).WithEvents(&recordingEvents{}).Run(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputPath, "output (1).csv"))
}

func TestScanner_Run_Rename(t *testing.T) {
	cfg := scanConfig(t)
	cfg.Rename = true
	writeStubPDF(t, cfg.PDFDir, "merger.pdf")
	writeStubPDF(t, cfg.PDFDir, "plain.pdf")
	texts := fakeTexts{texts: map[string]string{
		"merger.pdf": mergerText,
		"plain.pdf":  "Relatório trimestral sem novidades.",
	}}

	s := NewScanner(cfg, nil).WithTextSource(texts)
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	// Identified documents take the canonical name; sentinel identities
	// keep theirs.
	assert.FileExists(t, filepath.Join(cfg.PDFDir, "Acme_Participações_S.A._20240305.pdf"))
	assert.NoFileExists(t, filepath.Join(cfg.PDFDir, "merger.pdf"))
	assert.FileExists(t, filepath.Join(cfg.PDFDir, "plain.pdf"))

	rows := readMatrix(t, filepath.Join(cfg.OutputPath, "output.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "Acme_Participações_S.A._20240305.pdf", rows[1][0])
}

func TestScanner_Run_FullAnalysis(t *testing.T) {
	cfg := scanConfig(t)
	cfg.FullAnalysis = true
	cfg.IncludeSummary = false
	writeStubPDF(t, cfg.PDFDir, "merger.pdf")
	texts := fakeTexts{texts: map[string]string{"merger.pdf": mergerText}}

	conn := &fakeConnector{response: `{"company":"Acme","date":"2024-03-05","resumo":"um resumo","keywords":["fusão"],"fusão":"anuncia a fusão com a XPTO","dividendos":""}`}
	model := llm.NewAnalyzer(conn, llm.NewBudgetGuard(cfg.AI.MaxTokens, conn), nil)

	s := NewScanner(cfg, nil).WithTextSource(texts).WithAnalyzer(model)
	processed, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// resumo is stripped and the surviving excerpt cells are wrapped in
	// the literal markers; empty cells stay empty.
	rows := readMatrix(t, filepath.Join(cfg.OutputPath, "output.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"file_name", "company", "date", "fusão", "dividendos"}, rows[0])
	assert.Equal(t, "...anuncia a fusão com a XPTO...", rows[1][3])
	assert.Equal(t, "", rows[1][4])
}

func TestScanner_Run_FullAnalysisFailureRow(t *testing.T) {
	cfg := scanConfig(t)
	cfg.FullAnalysis = true
	writeStubPDF(t, cfg.PDFDir, "merger.pdf")
	texts := fakeTexts{texts: map[string]string{"merger.pdf": mergerText}}

	conn := &fakeConnector{err: errors.New("connection refused")}
	model := llm.NewAnalyzer(conn, llm.NewBudgetGuard(cfg.AI.MaxTokens, conn), nil)

	events := &recordingEvents{}
	s := NewScanner(cfg, nil).WithTextSource(texts).WithAnalyzer(model).WithEvents(events)
	processed, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// A failed analysis must be visible in both the events and the row
	// itself, never a row of silent blanks.
	require.NotEmpty(t, events.errors)
	assert.Equal(t, "transport", events.errors[len(events.errors)-1].kind)
	assert.Contains(t, events.errors[len(events.errors)-1].detail, "merger.pdf")

	rows := readMatrix(t, filepath.Join(cfg.OutputPath, "output.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"file_name", "company", "date", "resumo", "fusão", "dividendos"}, rows[0])
	assert.Contains(t, rows[1][3], "connection refused")
	assert.Equal(t, "", rows[1][4])
	assert.Equal(t, "", rows[1][5])
}

func readMatrix(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
