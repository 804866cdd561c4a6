// Package export renders a result matrix as an XLSX workbook for
// spreadsheet-first consumers of the reports.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

const sheet = "Results"

// WriteXLSX writes rows (header first) to an XLSX file at path.
func WriteXLSX(rows [][]string, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	// Rename the default sheet so the workbook holds exactly one.
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the identity columns; keyword cells hold excerpts.
	_ = f.SetColWidth(sheet, "A", "A", 40) // filename
	_ = f.SetColWidth(sheet, "B", "B", 28) // company
	_ = f.SetColWidth(sheet, "C", "C", 12) // date
	if len(rows) > 0 && len(rows[0]) > 3 {
		_ = f.SetColWidth(sheet, "D", "D", 48)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"path", path,
		"rows", max(len(rows)-1, 0),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
