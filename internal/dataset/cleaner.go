package dataset

import (
	"context"
	"log/slog"

	"epipulse/internal/infrastructure"
	"epipulse/pkg/contracts/domain"
)

// Cleaner filters aggregate rows out of a raw Dataset and computes the
// derived per-row metrics.
type Cleaner struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default();
// metrics may be nil when instrumentation is not wired.
func NewCleaner(logger *slog.Logger, metrics *infrastructure.Metrics) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger:  logger.With(slog.String("component", "cleaner")),
		metrics: metrics,
	}
}

// Clean returns a new Dataset built from raw:
//
//  1. Rows without a continent (world, continent and income-group
//     aggregates) are dropped.
//  2. DeathRate is TotalDeaths/TotalCases, nil when cases are zero or
//     either count is missing. Zero and nil stay distinct.
//  3. PctVaccinated and PctFullyVaccinated are count/Population*100, nil
//     when the population is zero or missing. Percentages above 100 from
//     inconsistent source data pass through unclamped.
//  4. Missing ICU and hospitalization counts become zero. No other field
//     is defaulted.
//
// The input Dataset is not touched; callers may keep using it.
func (c *Cleaner) Clean(ctx context.Context, raw domain.Dataset) domain.Dataset {
	clean := domain.Dataset{
		Observations: make([]domain.Observation, 0, raw.Len()),
	}

	dropped := 0
	for _, o := range raw.Observations {
		if !o.HasContinent() {
			dropped++
			continue
		}
		clean.Observations = append(clean.Observations, derive(o.Clone()))
	}

	if c.metrics != nil {
		c.metrics.AddRowsDropped(dropped)
	}
	c.logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("rows_kept", clean.Len()),
		slog.Int("rows_dropped", dropped))

	return clean
}

// derive fills the computed fields of one observation.
func derive(o domain.Observation) domain.Observation {
	if o.TotalCases != nil && *o.TotalCases > 0 && o.TotalDeaths != nil {
		o.DeathRate = domain.Float(*o.TotalDeaths / *o.TotalCases)
	}

	if o.Population != nil && *o.Population > 0 {
		if o.PeopleVaccinated != nil {
			o.PctVaccinated = domain.Float(*o.PeopleVaccinated / *o.Population * 100)
		}
		if o.PeopleFullyVaccinated != nil {
			o.PctFullyVaccinated = domain.Float(*o.PeopleFullyVaccinated / *o.Population * 100)
		}
	}

	if o.ICUPatients == nil {
		o.ICUPatients = domain.Float(0)
	}
	if o.HospPatients == nil {
		o.HospPatients = domain.Float(0)
	}

	return o
}
