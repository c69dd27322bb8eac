package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"epipulse/internal/config"
	"epipulse/internal/errors"
	"epipulse/pkg/contracts/domain"
)

// snapshotHeaders are the columns written to CSV and XLSX exports, source
// column names first, derived fields last.
var snapshotHeaders = []string{
	"iso_code", "continent", "location", "date",
	"total_cases", "new_cases", "total_deaths", "new_deaths",
	"icu_patients", "hosp_patients", "weekly_icu_admissions",
	"population", "people_vaccinated", "people_fully_vaccinated",
	"death_rate", "pct_vaccinated", "pct_fully_vaccinated",
}

// SnapshotExporter renders the latest-per-country snapshot as report files.
type SnapshotExporter struct {
	logger    *slog.Logger
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewSnapshotExporter creates an exporter. A nil logger falls back to
// slog.Default().
func NewSnapshotExporter(logger *slog.Logger, paths *config.Paths) *SnapshotExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotExporter{
		logger:    logger.With(slog.String("component", "exporter")),
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// ExportAll writes the snapshot to the conventional CSV, JSON and XLSX
// report paths. The first failing format aborts the rest.
func (e *SnapshotExporter) ExportAll(ctx context.Context, snapshot domain.LatestSnapshot) error {
	if err := e.ExportCSV(ctx, snapshot, e.paths.SnapshotCSV); err != nil {
		return err
	}
	if err := e.ExportJSON(ctx, snapshot, e.paths.SnapshotJSON); err != nil {
		return err
	}
	return e.ExportXLSX(ctx, snapshot, e.paths.SnapshotXLSX)
}

// ExportCSV writes the snapshot as a BOM-prefixed CSV file.
func (e *SnapshotExporter) ExportCSV(ctx context.Context, snapshot domain.LatestSnapshot, path string) error {
	records := make([][]string, 0, snapshot.Len())
	for _, entry := range snapshot.Entries {
		records = append(records, entryToCSVRow(entry))
	}

	if err := e.csvWriter.WriteSimpleCSV(path, snapshotHeaders, records); err != nil {
		return errors.NewPresentationError("export", "failed to write snapshot CSV", err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "snapshot exported",
		slog.String("format", "csv"),
		slog.String("path", path),
		slog.Int("countries", snapshot.Len()))
	return nil
}

// ExportJSON writes the snapshot as indented JSON with generation metadata.
func (e *SnapshotExporter) ExportJSON(ctx context.Context, snapshot domain.LatestSnapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewPresentationError("export", "failed to create directory for snapshot JSON", err).
			WithContext("path", path)
	}

	payload := map[string]interface{}{
		"countries":    snapshot.Entries,
		"count":        snapshot.Len(),
		"generated_at": snapshot.GeneratedAt.Format(time.RFC3339),
		"format":       "latest_snapshot_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewPresentationError("export", "failed to create snapshot JSON file", err).
			WithContext("path", path)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return errors.NewPresentationError("export", "failed to encode snapshot JSON", err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "snapshot exported",
		slog.String("format", "json"),
		slog.String("path", path),
		slog.Int("countries", snapshot.Len()))
	return nil
}

// ExportXLSX writes the snapshot as a single-sheet workbook.
func (e *SnapshotExporter) ExportXLSX(ctx context.Context, snapshot domain.LatestSnapshot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewPresentationError("export", "failed to create directory for snapshot workbook", err).
			WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Latest"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.NewPresentationError("export", "failed to prepare snapshot workbook", err).
			WithContext("path", path)
	}

	header := make([]interface{}, len(snapshotHeaders))
	for i, name := range snapshotHeaders {
		header[i] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewPresentationError("export", "failed to write snapshot workbook header", err).
			WithContext("path", path)
	}

	for i, entry := range snapshot.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewPresentationError("export", "failed to address snapshot workbook row", err).
				WithContext("path", path)
		}
		row := entryToSheetRow(entry)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.NewPresentationError(
				"export", fmt.Sprintf("failed to write snapshot workbook row %d", i+2), err).
				WithContext("path", path)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewPresentationError("export", "failed to save snapshot workbook", err).
			WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "snapshot exported",
		slog.String("format", "xlsx"),
		slog.String("path", path),
		slog.Int("countries", snapshot.Len()))
	return nil
}

// entryToCSVRow converts one snapshot entry to a CSV row.
func entryToCSVRow(o domain.Observation) []string {
	return []string{
		o.ISOCode,
		o.Continent,
		o.Location,
		o.Date.Format("2006-01-02"),
		formatCount(o.TotalCases),
		formatCount(o.NewCases),
		formatCount(o.TotalDeaths),
		formatCount(o.NewDeaths),
		formatCount(o.ICUPatients),
		formatCount(o.HospPatients),
		formatCount(o.WeeklyICUAdmissions),
		formatCount(o.Population),
		formatCount(o.PeopleVaccinated),
		formatCount(o.PeopleFullyVaccinated),
		formatRatio(o.DeathRate),
		formatPercent(o.PctVaccinated),
		formatPercent(o.PctFullyVaccinated),
	}
}

// entryToSheetRow converts one snapshot entry to a workbook row. Absent
// values leave their cells empty.
func entryToSheetRow(o domain.Observation) []interface{} {
	row := []interface{}{
		o.ISOCode,
		o.Continent,
		o.Location,
		o.Date.Format("2006-01-02"),
	}
	for _, v := range []*float64{
		o.TotalCases, o.NewCases, o.TotalDeaths, o.NewDeaths,
		o.ICUPatients, o.HospPatients, o.WeeklyICUAdmissions,
		o.Population, o.PeopleVaccinated, o.PeopleFullyVaccinated,
		o.DeathRate, o.PctVaccinated, o.PctFullyVaccinated,
	} {
		if v == nil {
			row = append(row, nil)
		} else {
			row = append(row, *v)
		}
	}
	return row
}
