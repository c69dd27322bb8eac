// Package chart renders the static global trend chart. Rendering failures
// are presentation errors: the caller reports them and keeps the process
// alive, unlike data loading failures.
package chart

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"epipulse/internal/errors"
	"epipulse/pkg/contracts/domain"
)

const (
	chartTitle    = "COVID-19 Global Trends"
	chartSubtitle = "Cumulative cases and deaths summed across all countries"
)

// TrendRenderer draws the global cases/deaths line chart as a standalone
// HTML page.
type TrendRenderer struct {
	logger *slog.Logger
}

// NewTrendRenderer creates a renderer. A nil logger falls back to
// slog.Default().
func NewTrendRenderer(logger *slog.Logger) *TrendRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendRenderer{
		logger: logger.With(slog.String("component", "chart")),
	}
}

// RenderHTML writes the chart page to w. The trend points must already be
// grouped to one point per date; this renderer plots them as-is.
func (r *TrendRenderer) RenderHTML(w io.Writer, trends []domain.TrendPoint) error {
	if len(trends) == 0 {
		return errors.NewPresentationError("chart", "no trend data to plot", nil)
	}

	dates := make([]string, 0, len(trends))
	cases := make([]opts.LineData, 0, len(trends))
	deaths := make([]opts.LineData, 0, len(trends))
	for _, point := range trends {
		dates = append(dates, point.Date.Format("2006-01-02"))
		cases = append(cases, opts.LineData{Value: point.TotalCases})
		deaths = append(deaths, opts.LineData{Value: point.TotalDeaths})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: chartTitle,
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    chartTitle,
			Subtitle: chartSubtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)

	line.SetXAxis(dates).
		AddSeries("Total cases", cases).
		AddSeries("Total deaths", deaths)

	if err := line.Render(w); err != nil {
		return errors.NewPresentationError("chart", "failed to render trend chart", err)
	}
	return nil
}

// WriteFile renders the chart into an HTML file at path, creating parent
// directories as needed.
func (r *TrendRenderer) WriteFile(ctx context.Context, path string, trends []domain.TrendPoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewPresentationError("chart", "failed to create report directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewPresentationError("chart", "failed to create chart file", err)
	}
	defer file.Close()

	if err := r.RenderHTML(file, trends); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "trend chart written",
		slog.String("path", path),
		slog.Int("points", len(trends)))
	return nil
}
