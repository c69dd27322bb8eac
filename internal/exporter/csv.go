package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"epipulse/internal/config"
)

// utf8BOM lets spreadsheet applications detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes report tables as BOM-prefixed UTF-8 CSV files. Relative
// destinations land in the reports directory.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a writer anchored at the given paths. A nil paths
// writes relative destinations into the working directory.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteSimpleCSV writes one header row followed by the records, replacing
// any existing file at the destination.
func (w *CSVWriter) WriteSimpleCSV(path string, headers []string, records [][]string) error {
	dest := w.resolvePath(path)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

func (w *CSVWriter) resolvePath(path string) string {
	if w.paths == nil || filepath.IsAbs(path) {
		return path
	}
	return w.paths.GetReportPath(path)
}
