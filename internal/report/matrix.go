package report

import (
	"strings"

	"github.com/joseph-ayodele/keywordpdf/internal/extract"
)

// The deterministic pipeline builds its whole result matrix in memory
// (header row first) and writes once.

// fixedColumns is how many leading columns of a matrix row are
// identity fields rather than keyword cells.
const fixedColumns = 3

// summaryNames are the column labels recognized as the summary column,
// matched case-insensitively.
var summaryNames = []string{"resumo", "summary", "resume"}

// SaveMatrix writes the matrix to path in one pass. The header row is
// written even when there are no data rows.
func SaveMatrix(rows [][]string, path string) error {
	return writeCSV(path, rows)
}

// WrapContextMarkers wraps every non-empty, non-"None" keyword cell in
// the literal "..." markers. The first row is the header and the first
// fixedColumns of each data row are identity fields; both are left
// untouched. The marker is presentational, not a computed excerpt, and
// must survive verbatim.
func WrapContextMarkers(rows [][]string) [][]string {
	if len(rows) < 2 {
		return rows
	}
	out := make([][]string, 0, len(rows))
	out = append(out, rows[0])
	for _, row := range rows[1:] {
		wrapped := append([]string{}, row...)
		for i := fixedColumns; i < len(wrapped); i++ {
			wrapped[i] = extract.WrapContextMarker(wrapped[i])
		}
		out = append(out, wrapped)
	}
	return out
}

// RemoveSummaryColumn strips the first column whose header is named
// resumo/summary/resume (case-insensitive) from the header and every
// row. Rows shorter than the summary index are left unchanged.
func RemoveSummaryColumn(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	idx := -1
	for i, col := range rows[0] {
		if isSummaryName(col) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rows
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if idx >= len(row) {
			out = append(out, row)
			continue
		}
		stripped := append([]string{}, row[:idx]...)
		stripped = append(stripped, row[idx+1:]...)
		out = append(out, stripped)
	}
	return out
}

func isSummaryName(col string) bool {
	for _, name := range summaryNames {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}
