package dataset

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"epipulse/pkg/contracts/domain"
)

// Aggregator builds the per-country views consumed by the dashboard, the
// exporters and the trend chart.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to
// slog.Default().
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger: logger.With(slog.String("component", "aggregator")),
	}
}

// LatestPerCountry groups the cleaned observations by ISO code and keeps the
// chronologically last row per country. When two rows share the maximum
// date, the one later in file order wins. Entries are ordered descending by
// total cases; countries without a case count sort last, and equal counts
// keep their original grouping order.
func (a *Aggregator) LatestPerCountry(ctx context.Context, clean domain.Dataset) domain.LatestSnapshot {
	latest := make(map[string]domain.Observation)
	order := make([]string, 0)

	for _, o := range clean.Observations {
		current, seen := latest[o.ISOCode]
		if !seen {
			order = append(order, o.ISOCode)
			latest[o.ISOCode] = o
			continue
		}
		if !o.Date.Before(current.Date) {
			latest[o.ISOCode] = o
		}
	}

	snapshot := domain.LatestSnapshot{
		Entries:     make([]domain.Observation, 0, len(order)),
		GeneratedAt: time.Now(),
	}
	for _, code := range order {
		snapshot.Entries = append(snapshot.Entries, latest[code].Clone())
	}

	sort.SliceStable(snapshot.Entries, func(i, j int) bool {
		vi, oki := caseCount(snapshot.Entries[i])
		vj, okj := caseCount(snapshot.Entries[j])
		if oki != okj {
			return oki
		}
		return vi > vj
	})

	a.logger.InfoContext(ctx, "latest-per-country snapshot built",
		slog.Int("countries", snapshot.Len()))

	return snapshot
}

// caseCount extracts the total case count for ranking. The second return is
// false when the country has no count at all.
func caseCount(o domain.Observation) (float64, bool) {
	if o.TotalCases == nil {
		return 0, false
	}
	return *o.TotalCases, true
}
