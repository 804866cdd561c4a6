package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestAppendRecord_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultados.csv")
	acc := NewAccumulator(nil)

	err := acc.AppendRecord(Record{
		"filename": "a.pdf",
		"company":  "Acme",
		"date":     "2024-01-01",
		"resumo":   "resumo",
		"tokens":   "120",
		"fusão":    "trecho",
	}, path, []string{"fusão"})
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"filename", "company", "date", "resumo", "fusão", "tokens"}, rows[0])
	assert.Equal(t, []string{"a.pdf", "Acme", "2024-01-01", "resumo", "trecho", "120"}, rows[1])
}

func TestAppendRecord_SchemaGrowsAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultados.csv")
	acc := NewAccumulator(nil)

	// First run: keyword set {A}.
	require.NoError(t, acc.AppendRecord(Record{
		"filename": "a.pdf", "company": "Acme", "date": "2024-01-01",
		"resumo": "r1", "A": "hit",
	}, path, []string{"A"}))

	// Second run: keyword set {A, B}; the schema grows and the earlier
	// row is backfilled with an empty B cell.
	require.NoError(t, acc.AppendRecord(Record{
		"filename": "b.pdf", "company": "Beta", "date": "2024-02-02",
		"resumo": "r2", "A": "", "B": "hit b",
	}, path, []string{"A", "B"}))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"filename", "company", "date", "resumo", "A", "B"}, rows[0])
	assert.Equal(t, []string{"a.pdf", "Acme", "2024-01-01", "r1", "hit", ""}, rows[1])
	assert.Equal(t, []string{"b.pdf", "Beta", "2024-02-02", "r2", "", "hit b"}, rows[2])
}

func TestAppendRecord_ErrorColumnOnlyWhenPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultados.csv")
	acc := NewAccumulator(nil)

	require.NoError(t, acc.AppendRecord(Record{
		"filename": "ok.pdf", "company": "Acme", "date": "2024-01-01", "resumo": "r",
	}, path, nil))
	rows := readCSV(t, path)
	assert.NotContains(t, rows[0], "error")

	require.NoError(t, acc.AppendRecord(Record{
		"filename": "bad.pdf", "company": "", "date": "", "resumo": "",
		"error": "transport failure: connection refused",
	}, path, nil))
	rows = readCSV(t, path)
	require.Contains(t, rows[0], "error")
	// Prior row backfilled with an empty error cell.
	assert.Equal(t, len(rows[0]), len(rows[1]))
	assert.Equal(t, "", rows[1][len(rows[0])-1])
}

func TestAppendRecord_UnparseableFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resultados.csv")
	require.NoError(t, os.WriteFile(path, []byte("\"unterminated\nquote,,,"), 0o644))

	acc := NewAccumulator(nil)
	require.NoError(t, acc.AppendRecord(Record{
		"filename": "a.pdf", "company": "Acme", "date": "2024-01-01", "resumo": "r",
	}, path, nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "a.pdf", rows[1][0])
}
