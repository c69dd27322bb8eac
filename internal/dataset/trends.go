package dataset

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"epipulse/pkg/contracts/domain"
)

// GlobalTrends sums total cases and total deaths per date across every
// country in the cleaned dataset, returning one point per date in ascending
// date order. Missing counts contribute nothing to a date's sum. The chart
// renderer must only ever see this grouped form; handing it multi-country
// rows would sum unrelated countries into one axis point.
func (a *Aggregator) GlobalTrends(ctx context.Context, clean domain.Dataset) []domain.TrendPoint {
	byDate := make(map[time.Time]*domain.TrendPoint)

	for _, o := range clean.Observations {
		point, ok := byDate[o.Date]
		if !ok {
			point = &domain.TrendPoint{Date: o.Date}
			byDate[o.Date] = point
		}
		if o.TotalCases != nil {
			point.TotalCases += *o.TotalCases
		}
		if o.TotalDeaths != nil {
			point.TotalDeaths += *o.TotalDeaths
		}
	}

	trends := make([]domain.TrendPoint, 0, len(byDate))
	for _, point := range byDate {
		trends = append(trends, *point)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Date.Before(trends[j].Date)
	})

	a.logger.InfoContext(ctx, "global trends computed",
		slog.Int("dates", len(trends)))

	return trends
}
