// Package exporter writes the latest-per-country snapshot to report files.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers and a
// UTF-8 BOM for Excel compatibility.
//
// SnapshotExporter: Renders a LatestSnapshot as CSV, JSON (with generation
// metadata) or a native XLSX workbook.
//
// Example usage:
//
//	exp := exporter.NewSnapshotExporter(logger, paths)
//
//	// Export one format to an explicit path
//	err := exp.ExportCSV(ctx, snapshot, "data/reports/latest-snapshot.csv")
//
//	// Or all three formats to their conventional report paths
//	err = exp.ExportAll(ctx, snapshot)
//
// Export failures are presentation errors; they never abort the pipeline.
package exporter
