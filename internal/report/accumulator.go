// Package report owns the tabular output files. The accumulator
// performs a read-merge-write cycle on the whole CSV per record, so a
// given output path must have a single writer.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Record is one extraction result keyed by column name.
type Record map[string]string

// BaseColumns open every AI-pipeline report, in fixed order, followed
// by one column per configured keyword.
var BaseColumns = []string{"filename", "company", "date", "resumo"}

// extraColumns are appended after the keyword columns when the record
// carries them.
var extraColumns = []string{"tokens", "keywords", "error"}

// Accumulator merges records into a persistent CSV while keeping a
// stable, superset column schema across incremental writes.
type Accumulator struct {
	logger *slog.Logger
}

func NewAccumulator(logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulator{logger: logger}
}

// AppendRecord merges record into the CSV at path. A missing or empty
// file is created with the run's fixed header; an existing file keeps
// every column it already has, with new columns appended and prior
// rows backfilled with empty values. The whole file is rewritten so an
// interrupt never leaves a half-written row.
func (a *Accumulator) AppendRecord(record Record, path string, keywords []string) error {
	header, rows := a.loadExisting(path)

	if len(header) == 0 {
		header = append(append([]string{}, BaseColumns...), keywords...)
	}

	// Schema may only grow: ensure the fixed target schema, then any
	// extras the record carries.
	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[col] = true
	}
	grow := func(col string) {
		if !have[col] {
			header = append(header, col)
			have[col] = true
		}
	}
	for _, col := range BaseColumns {
		grow(col)
	}
	for _, kw := range keywords {
		grow(kw)
	}
	for _, col := range extraColumns {
		if _, ok := record[col]; ok {
			grow(col)
		}
	}

	// Backfill prior rows to the grown schema.
	for i, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		rows[i] = row
	}

	newRow := make([]string, len(header))
	for i, col := range header {
		newRow[i] = record[col]
	}
	rows = append(rows, newRow)

	return writeCSV(path, append([][]string{header}, rows...))
}

// loadExisting returns the current header and rows, or empty values
// when the file is absent, empty, or unparseable. An unparseable file
// is reported and treated as a fresh start rather than failing the
// run.
func (a *Accumulator) loadExisting(path string) ([]string, [][]string) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		a.logger.Warn("report.existing_unparseable", "path", path, "error", err)
		return nil, nil
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], all[1:]
}

func writeCSV(path string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
