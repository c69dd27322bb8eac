// Package dataset implements the epidemiological data pipeline.
// It consolidates loading, cleaning, and aggregation into a cohesive package
// that handles the complete data lifecycle from CSV ingestion to the
// latest-per-country snapshot consumed by the presentation surfaces.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Loader: reads the OWID CSV file and projects the tracked columns
// 2. Cleaner: drops aggregate rows and computes derived metrics
// 3. Aggregator: builds the latest-per-country snapshot and global trends
// 4. Pipeline: orchestrates the stages with caching and metrics
//
// # Data Flow
//
// The typical data flow through this package:
//
//	CSV File → Loader → Dataset → Cleaner → Cleaned Dataset → Aggregator → Snapshot / Trends
//
// Each stage returns a new value; no stage mutates its input. The Pipeline
// caches the cleaned dataset keyed by source path and modification time, and
// always hands out independent copies.
//
// # Error Handling
//
// The Loader surfaces three error types from internal/errors: file access
// failures, empty datasets, and parse faults (malformed dates, missing
// required columns). Callers decide whether these are fatal; the pipeline
// never recovers into partial data.
package dataset
