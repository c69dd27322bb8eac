package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"epipulse/internal/dataset"
	"epipulse/pkg/contracts"
	"epipulse/pkg/contracts/domain"
)

// CountryOption is one entry of the dashboard country selector. Entries keep
// the latest-snapshot order: cumulative case count descending.
type CountryOption struct {
	ISOCode    string   `json:"iso_code"`
	Location   string   `json:"location"`
	Continent  string   `json:"continent"`
	TotalCases *float64 `json:"total_cases,omitempty"`
}

// CountrySeries is the per-date series payload for one country. The four
// value slices are index-aligned with Dates; a nil element means the source
// row had no value for that date.
type CountrySeries struct {
	ISOCode  string   `json:"iso_code"`
	Location string   `json:"location"`
	Dates    []string `json:"dates"`

	TotalCases         []*float64 `json:"total_cases"`
	TotalDeaths        []*float64 `json:"total_deaths"`
	ICUPatients        []*float64 `json:"icu_patients"`
	PctFullyVaccinated []*float64 `json:"pct_fully_vaccinated"`

	// MaxPctFullyVaccinated is the peak coverage over the whole series; nil
	// when no row carries a vaccination value.
	MaxPctFullyVaccinated *float64 `json:"max_pct_fully_vaccinated,omitempty"`
}

// HealthStatus is the /api/healthz payload.
type HealthStatus struct {
	Status        string     `json:"status"`
	Timestamp     time.Time  `json:"timestamp"`
	Name          string     `json:"name"`
	Version       string     `json:"version"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	Rows          int        `json:"rows"`
	Countries     int        `json:"countries"`
	Source        string     `json:"source,omitempty"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
}

// DashboardService serves pipeline output to the dashboard API. The stored
// result is treated as immutable; readers share it without copying.
type DashboardService struct {
	logger    *slog.Logger
	startTime time.Time

	mu     sync.RWMutex
	result *dataset.Result
}

// NewDashboardService creates a dashboard service with no data installed
// yet. A nil logger falls back to slog.Default().
func NewDashboardService(logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		logger:    logger.With(slog.String("component", "dashboard_service")),
		startTime: time.Now(),
	}
}

// SetResult installs the pipeline output the API serves. Safe to call again
// after a re-run; in-flight readers keep the result they already hold.
func (s *DashboardService) SetResult(result *dataset.Result) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

// Ready reports whether pipeline output has been installed.
func (s *DashboardService) Ready() bool {
	return s.current() != nil
}

// Countries returns the selector entries in snapshot order.
func (s *DashboardService) Countries(ctx context.Context) ([]CountryOption, error) {
	result := s.current()
	if result == nil {
		return nil, ErrDataNotReady
	}

	options := make([]CountryOption, 0, result.Snapshot.Len())
	for _, o := range result.Snapshot.Entries {
		options = append(options, CountryOption{
			ISOCode:    o.ISOCode,
			Location:   o.Location,
			Continent:  o.Continent,
			TotalCases: o.TotalCases,
		})
	}

	s.logger.DebugContext(ctx, "country selector served", slog.Int("count", len(options)))
	return options, nil
}

// Series returns the per-date series for one country, ordered by date
// ascending. Unknown locations return ErrCountryNotFound.
func (s *DashboardService) Series(ctx context.Context, location string) (*CountrySeries, error) {
	result := s.current()
	if result == nil {
		return nil, ErrDataNotReady
	}

	rows := result.Clean.FilterLocation(location)
	if rows.IsEmpty() {
		return nil, ErrCountryNotFound
	}

	// FilterLocation hands back a copy, so sorting here cannot disturb the
	// shared result.
	sort.SliceStable(rows.Observations, func(i, j int) bool {
		return rows.Observations[i].Date.Before(rows.Observations[j].Date)
	})

	series := &CountrySeries{
		ISOCode:            rows.Observations[0].ISOCode,
		Location:           location,
		Dates:              make([]string, 0, rows.Len()),
		TotalCases:         make([]*float64, 0, rows.Len()),
		TotalDeaths:        make([]*float64, 0, rows.Len()),
		ICUPatients:        make([]*float64, 0, rows.Len()),
		PctFullyVaccinated: make([]*float64, 0, rows.Len()),
	}
	for _, o := range rows.Observations {
		series.Dates = append(series.Dates, o.Date.Format("2006-01-02"))
		series.TotalCases = append(series.TotalCases, o.TotalCases)
		series.TotalDeaths = append(series.TotalDeaths, o.TotalDeaths)
		series.ICUPatients = append(series.ICUPatients, o.ICUPatients)
		series.PctFullyVaccinated = append(series.PctFullyVaccinated, o.PctFullyVaccinated)

		if o.PctFullyVaccinated != nil &&
			(series.MaxPctFullyVaccinated == nil || *o.PctFullyVaccinated > *series.MaxPctFullyVaccinated) {
			series.MaxPctFullyVaccinated = o.PctFullyVaccinated
		}
	}

	s.logger.DebugContext(ctx, "country series served",
		slog.String("country", location),
		slog.Int("points", len(series.Dates)))
	return series, nil
}

// Trends returns the global trend series for the trends endpoint.
func (s *DashboardService) Trends(ctx context.Context) ([]domain.TrendPoint, error) {
	result := s.current()
	if result == nil {
		return nil, ErrDataNotReady
	}
	if len(result.Trends) == 0 {
		return nil, ErrNoTrendData
	}
	return result.Trends, nil
}

// Health returns the liveness payload. It never fails: before data is
// installed the status reads "starting" with zero counts.
func (s *DashboardService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:        "ok",
		Timestamp:     time.Now(),
		Name:          contracts.AppName,
		Version:       contracts.Version,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
	}

	result := s.current()
	if result == nil {
		status.Status = "starting"
		return status
	}

	loadedAt := result.LoadedAt
	status.Rows = result.Clean.Len()
	status.Countries = result.Snapshot.Len()
	status.Source = result.Source
	status.LoadedAt = &loadedAt
	return status
}

func (s *DashboardService) current() *dataset.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}
