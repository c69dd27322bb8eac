package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epipulse/internal/errors"
)

const validHeader = "iso_code,continent,location,date,total_cases,new_cases,total_deaths,new_deaths,icu_patients,hosp_patients,weekly_icu_admissions,population,people_vaccinated,people_fully_vaccinated"

// writeDataFile writes a CSV fixture and returns its path.
func writeDataFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "owid-covid-data.csv")
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil, nil)

	path := writeDataFile(t,
		validHeader,
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
		"FRA,Europe,France,2021-03-01,3760671,4703,86803,359,3918,25195,1570,67564251,3050000,1600000",
	)

	ds, err := loader.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	afg := ds.Observations[0]
	assert.Equal(t, "AFG", afg.ISOCode)
	assert.Equal(t, "Asia", afg.Continent)
	assert.Equal(t, "Afghanistan", afg.Location)
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), afg.Date)
	require.NotNil(t, afg.TotalCases)
	assert.Equal(t, float64(55847), *afg.TotalCases)
	assert.Nil(t, afg.ICUPatients)
	assert.Nil(t, afg.HospPatients)
	assert.Nil(t, afg.WeeklyICUAdmissions)

	fra := ds.Observations[1]
	require.NotNil(t, fra.ICUPatients)
	assert.Equal(t, float64(3918), *fra.ICUPatients)
	require.NotNil(t, fra.Population)
	assert.Equal(t, float64(67564251), *fra.Population)
}

func TestLoader_Load_IgnoresExtraColumns(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil, nil)

	path := writeDataFile(t,
		validHeader+",stringency_index,handwashing_facilities",
		"AFG,Asia,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000,12.5,37.7",
	)

	ds, err := loader.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "AFG", ds.Observations[0].ISOCode)
}

func TestLoader_Load_KeepsAggregateRows(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil, nil)

	// World aggregates have an empty continent; the loader keeps them and
	// leaves dropping to the cleaner.
	path := writeDataFile(t,
		validHeader,
		"OWID_WRL,,World,2021-03-01,114000000,350000,2500000,8000,,,,7794798729,,",
	)

	ds, err := loader.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.False(t, ds.Observations[0].HasContinent())
}

func TestLoader_Load_BlankAndJunkCountsAreNil(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil, nil)

	path := writeDataFile(t,
		validHeader,
		"AFG,Asia,Afghanistan,2021-03-01,,23,n/a,5,,,,38928341,,",
	)

	ds, err := loader.Load(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())

	obs := ds.Observations[0]
	assert.Nil(t, obs.TotalCases)
	assert.Nil(t, obs.TotalDeaths)
	assert.Nil(t, obs.PeopleVaccinated)
	require.NotNil(t, obs.NewCases)
	assert.Equal(t, float64(23), *obs.NewCases)
}

func TestLoader_Load_Errors(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(nil, nil)

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "absent.csv"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeFileAccess))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeDataFile(t)
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeEmptyDataset))
	})

	t.Run("header only", func(t *testing.T) {
		path := writeDataFile(t, validHeader)
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeEmptyDataset))
	})

	t.Run("missing required column", func(t *testing.T) {
		path := writeDataFile(t,
			strings.Replace(validHeader, "continent,", "", 1),
			"AFG,Afghanistan,2021-03-01,55847,23,2449,5,,,,38928341,54000,10000",
		)
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParse))
		assert.Contains(t, err.Error(), "continent")
	})

	t.Run("malformed date", func(t *testing.T) {
		path := writeDataFile(t,
			validHeader,
			"AFG,Asia,Afghanistan,03/01/2021,55847,23,2449,5,,,,38928341,54000,10000",
		)
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParse))
	})
}
