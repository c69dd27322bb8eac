package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epipulse/internal/errors"
	"epipulse/internal/infrastructure"
)

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()
	pipeline := NewPipeline(nil, infrastructure.NewMetrics())

	path := writeDataFile(t,
		validHeader,
		"OWID_WRL,,World,2021-03-01,114000000,350000,2500000,8000,,,,7794798729,,",
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
		"AFG,Asia,Afghanistan,2021-03-02,55876,29,2454,5,,,,38928341,55000,11000",
		"FRA,Europe,France,2021-03-01,3760671,4703,86803,359,3918,25195,1570,67564251,3050000,1600000",
	)

	result, err := pipeline.Run(ctx, path)
	require.NoError(t, err)

	// The world aggregate row is gone; per-country rows survive.
	assert.Equal(t, 3, result.Clean.Len())

	// One snapshot entry per country, France first by case count.
	require.Equal(t, 2, result.Snapshot.Len())
	assert.Equal(t, "FRA", result.Snapshot.Entries[0].ISOCode)
	assert.Equal(t, "AFG", result.Snapshot.Entries[1].ISOCode)
	assert.Equal(t, obsDate(2), result.Snapshot.Entries[1].Date)

	// One trend point per date, ascending.
	require.Len(t, result.Trends, 2)
	assert.Equal(t, obsDate(1), result.Trends[0].Date)
	assert.InDelta(t, 3760671+55847, result.Trends[0].TotalCases, 1e-6)

	assert.Equal(t, path, result.Source)
	assert.False(t, result.LoadedAt.IsZero())
}

func TestPipeline_Run_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	pipeline := NewPipeline(nil, nil)

	path := writeDataFile(t,
		validHeader,
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
	)

	first, err := pipeline.Run(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, pipeline.cache.Len())

	// Gut the file but keep its modification time. A cache hit serves the
	// original rows; a reload would fail with an empty dataset.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(validHeader+"\n"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	second, err := pipeline.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, first.Clean.Len(), second.Clean.Len())
	assert.Equal(t, "AFG", second.Snapshot.Entries[0].ISOCode)
}

func TestPipeline_InvalidateCache_ForcesReload(t *testing.T) {
	ctx := context.Background()
	pipeline := NewPipeline(nil, nil)

	path := writeDataFile(t,
		validHeader,
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
	)

	_, err := pipeline.Run(ctx, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(validHeader+"\n"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))

	pipeline.InvalidateCache(path)

	_, err = pipeline.Run(ctx, path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeEmptyDataset))
}

func TestPipeline_Run_ResultsAreIndependent(t *testing.T) {
	ctx := context.Background()
	pipeline := NewPipeline(nil, nil)

	path := writeDataFile(t,
		validHeader,
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
	)

	first, err := pipeline.Run(ctx, path)
	require.NoError(t, err)

	*first.Clean.Observations[0].TotalCases = 0

	second, err := pipeline.Run(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, float64(55847), *second.Clean.Observations[0].TotalCases)
}

func TestPipeline_Run_Errors(t *testing.T) {
	ctx := context.Background()
	pipeline := NewPipeline(nil, nil)

	t.Run("missing file", func(t *testing.T) {
		_, err := pipeline.Run(ctx, filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeFileAccess))
	})

	t.Run("empty dataset", func(t *testing.T) {
		path := writeDataFile(t, validHeader)
		_, err := pipeline.Run(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeEmptyDataset))
	})
}
