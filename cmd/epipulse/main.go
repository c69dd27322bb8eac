// Command epipulse loads the OWID COVID-19 dataset and presents it as a
// static global trend chart, an interactive browser dashboard, a per-country
// text table or a set of snapshot reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"epipulse/internal/app"
	"epipulse/internal/chart"
	"epipulse/internal/config"
	"epipulse/internal/dataset"
	"epipulse/internal/display"
	"epipulse/internal/exporter"
	"epipulse/internal/fetch"
	"epipulse/internal/infrastructure"
	"epipulse/pkg/contracts"
)

// options holds the mode selections parsed from the command line. Flags pick
// the mode; configuration shapes the environment.
type options struct {
	download  bool
	dashboard bool
	display   string
	export    bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.download, "download", false, "force a fresh dataset download before running")
	flag.BoolVar(&opts.dashboard, "dashboard", false, "serve the interactive dashboard and open the browser")
	flag.StringVar(&opts.display, "display", "", "print all rows for the named country")
	flag.BoolVar(&opts.export, "export", false, "write snapshot CSV, JSON and XLSX reports")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("failed to resolve application paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("failed to create application directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}
	if !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetRelativePath(cfg.Logging.FilePath)
	}

	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	} else {
		defer logCloser.Close()
	}

	ctx := infrastructure.EnsureTraceID(context.Background())

	if err := run(ctx, logger, cfg, paths, os.Stdout, opts); err != nil {
		logger.ErrorContext(ctx, "run failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "epipulse: %v\n", err)
		os.Exit(1)
	}
}

// run fetches the dataset when needed, runs the pipeline and drives the
// selected presentation surfaces. Fetch and pipeline failures are fatal;
// presentation failures after a complete pipeline run are logged and
// reported without failing the process. stdout carries only data output,
// everything else goes to the logger or stderr.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths, stdout io.Writer, opts options) error {
	logger.InfoContext(ctx, "starting run",
		slog.String("version", contracts.Version),
		slog.Bool("download", opts.download),
		slog.Bool("dashboard", opts.dashboard),
		slog.String("display", opts.display),
		slog.Bool("export", opts.export))

	dataFile := paths.ResolveDataFile(logger)

	// A forced download always fetches; a missing file fetches once without
	// force so first runs work out of the box.
	if opts.download || !config.FileExists(dataFile) {
		downloader := fetch.NewDownloader(logger, nil, cfg.Dataset)
		fetched, err := downloader.Ensure(ctx, paths.DataFile, opts.download)
		if err != nil {
			return err
		}
		if fetched {
			dataFile = paths.DataFile
		}
	}

	if opts.dashboard {
		application, err := app.NewApplication(cfg, paths, logger, dataFile)
		if err != nil {
			return fmt.Errorf("failed to initialize dashboard: %w", err)
		}
		return application.Run()
	}

	pipeline := dataset.NewPipeline(logger, nil)
	result, err := pipeline.Run(ctx, dataFile)
	if err != nil {
		return err
	}

	notice := func(surface string, err error) {
		logger.ErrorContext(ctx, "presentation surface failed",
			slog.String("surface", surface),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "epipulse: %s failed; see the log for details\n", surface)
	}

	ranMode := false

	if opts.display != "" {
		ranMode = true
		printer := display.NewConsolePrinter(logger, stdout)
		if err := printer.PrintCountry(ctx, result.Clean, opts.display); err != nil {
			notice("country display", err)
		}
	}

	if opts.export {
		ranMode = true
		snapshotExporter := exporter.NewSnapshotExporter(logger, paths)
		if err := snapshotExporter.ExportAll(ctx, result.Snapshot); err != nil {
			notice("snapshot export", err)
		} else {
			fmt.Fprintf(os.Stderr, "Snapshot reports written to %s\n", paths.ReportsDir)
		}
	}

	if ranMode {
		return nil
	}

	// Default mode: the static global trend chart.
	renderer := chart.NewTrendRenderer(logger)
	if err := renderer.WriteFile(ctx, paths.TrendsChartHTML, result.Trends); err != nil {
		notice("trend chart", err)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Trend chart written to %s\n", paths.TrendsChartHTML)

	if cfg.Server.OpenBrowser {
		if err := app.OpenBrowser(logger, paths.TrendsChartHTML); err != nil {
			logger.WarnContext(ctx, "could not open browser",
				slog.String("path", paths.TrendsChartHTML),
				slog.String("error", err.Error()))
		}
	}

	return nil
}
