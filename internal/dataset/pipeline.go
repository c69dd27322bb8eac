package dataset

import (
	"context"
	"log/slog"
	"os"
	"time"

	"epipulse/internal/errors"
	"epipulse/internal/infrastructure"
	"epipulse/pkg/contracts/domain"
)

// Result is the immutable product of one pipeline run. Presentation
// surfaces read it and never write back.
type Result struct {
	// Clean is the filtered dataset with derived fields computed.
	Clean domain.Dataset

	// Snapshot holds the latest observation per country, ordered by total
	// cases descending.
	Snapshot domain.LatestSnapshot

	// Trends holds the per-date global sums feeding the trend chart.
	Trends []domain.TrendPoint

	// Source is the file the data came from; LoadedAt is when this run
	// finished.
	Source   string
	LoadedAt time.Time
}

// Pipeline wires the loading, cleaning and aggregation stages together with
// a result cache keyed by source file identity.
type Pipeline struct {
	logger     *slog.Logger
	metrics    *infrastructure.Metrics
	loader     *Loader
	cleaner    *Cleaner
	aggregator *Aggregator
	cache      *Cache
}

// NewPipeline creates a pipeline. A nil logger falls back to slog.Default();
// metrics may be nil when instrumentation is not wired.
func NewPipeline(logger *slog.Logger, metrics *infrastructure.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:     logger.With(slog.String("component", "pipeline")),
		metrics:    metrics,
		loader:     NewLoader(logger, metrics),
		cleaner:    NewCleaner(logger, metrics),
		aggregator: NewAggregator(logger),
		cache:      NewCache(),
	}
}

// Run executes load, clean and aggregate for the dataset at path. The
// cleaned dataset is cached keyed by path and modification time; a cache hit
// skips loading and cleaning but recomputes the cheap snapshot and trends
// views. The returned Result shares nothing with the cache.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileAccessError(path, err)
	}

	clean, cached := p.cache.Get(path, info.ModTime())
	if cached {
		if p.metrics != nil {
			p.metrics.CacheHit()
		}
		p.logger.InfoContext(ctx, "pipeline cache hit", slog.String("path", path))
	} else {
		if p.metrics != nil {
			p.metrics.CacheMiss()
		}

		raw, err := p.loader.Load(ctx, path)
		if err != nil {
			return nil, err
		}

		clean = p.cleaner.Clean(ctx, *raw)
		p.cache.Put(path, info.ModTime(), clean)
	}

	result := &Result{
		Clean:    clean,
		Snapshot: p.aggregator.LatestPerCountry(ctx, clean),
		Trends:   p.aggregator.GlobalTrends(ctx, clean),
		Source:   path,
		LoadedAt: time.Now(),
	}

	elapsed := time.Since(start)
	if p.metrics != nil {
		p.metrics.ObservePipelineDuration(elapsed)
	}
	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.String("path", path),
		slog.Int("rows", result.Clean.Len()),
		slog.Int("countries", result.Snapshot.Len()),
		slog.Duration("elapsed", elapsed))

	return result, nil
}

// InvalidateCache drops cached results for path, forcing the next Run to
// reload from disk. Called after a fresh download replaces the file.
func (p *Pipeline) InvalidateCache(path string) {
	p.cache.Invalidate(path)
}
