// Package display renders per-country observations as an aligned text table
// on standard output.
package display

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"epipulse/internal/errors"
	"epipulse/pkg/contracts/domain"
)

// ConsolePrinter writes country tables to a single output stream. Log
// messages go to the logger, which keeps the output stream clean for data.
type ConsolePrinter struct {
	logger *slog.Logger
	out    io.Writer
}

// NewConsolePrinter creates a printer. A nil logger falls back to
// slog.Default(); a nil out writes to os.Stdout.
func NewConsolePrinter(logger *slog.Logger, out io.Writer) *ConsolePrinter {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = os.Stdout
	}
	return &ConsolePrinter{
		logger: logger.With(slog.String("component", "display")),
		out:    out,
	}
}

// PrintCountry renders every observation for the named country in date
// order. When the country has no rows, it warns and prints nothing; that is
// not an error.
func (p *ConsolePrinter) PrintCountry(ctx context.Context, clean domain.Dataset, name string) error {
	rows := clean.FilterLocation(name)
	if rows.IsEmpty() {
		p.logger.WarnContext(ctx, "no data for country", slog.String("country", name))
		return nil
	}

	// FilterLocation hands back a copy, so sorting cannot disturb the input.
	sort.SliceStable(rows.Observations, func(i, j int) bool {
		return rows.Observations[i].Date.Before(rows.Observations[j].Date)
	})

	if _, err := fmt.Fprintf(p.out, "%s: %d observations\n\n", name, rows.Len()); err != nil {
		return errors.NewPresentationError("display", "failed to write country table", err)
	}

	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCASES\tNEW\tDEATHS\tNEW\tICU\tHOSP\tDEATH RATE\tVACC %\tFULLY VACC %")
	for _, o := range rows.Observations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Date.Format("2006-01-02"),
			formatCount(o.TotalCases),
			formatCount(o.NewCases),
			formatCount(o.TotalDeaths),
			formatCount(o.NewDeaths),
			formatCount(o.ICUPatients),
			formatCount(o.HospPatients),
			formatRatio(o.DeathRate),
			formatPercent(o.PctVaccinated),
			formatPercent(o.PctFullyVaccinated),
		)
	}
	if err := w.Flush(); err != nil {
		return errors.NewPresentationError("display", "failed to write country table", err)
	}

	p.logger.InfoContext(ctx, "country table printed",
		slog.String("country", name),
		slog.Int("rows", rows.Len()))
	return nil
}

// formatCount renders a count cell; absent values print as a dash.
func formatCount(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// formatRatio renders a derived ratio with fixed precision.
func formatRatio(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// formatPercent renders a derived percentage with fixed precision.
func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
