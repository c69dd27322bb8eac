package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epipulse/internal/errors"
	"epipulse/pkg/contracts/domain"
)

func sampleTrends() []domain.TrendPoint {
	return []domain.TrendPoint{
		{Date: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), TotalCases: 100, TotalDeaths: 5},
		{Date: time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC), TotalCases: 150, TotalDeaths: 7},
	}
}

func TestTrendRenderer_RenderHTML(t *testing.T) {
	renderer := NewTrendRenderer(nil)

	var buf bytes.Buffer
	err := renderer.RenderHTML(&buf, sampleTrends())
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Total cases")
	assert.Contains(t, html, "Total deaths")
	assert.Contains(t, html, "2021-03-01")
	assert.Contains(t, html, chartTitle)
}

func TestTrendRenderer_RenderHTML_NoData(t *testing.T) {
	renderer := NewTrendRenderer(nil)

	var buf bytes.Buffer
	err := renderer.RenderHTML(&buf, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePresentation))
	assert.Zero(t, buf.Len())
}

func TestTrendRenderer_WriteFile(t *testing.T) {
	renderer := NewTrendRenderer(nil)

	path := filepath.Join(t.TempDir(), "reports", "global-trends.html")
	err := renderer.WriteFile(context.Background(), path, sampleTrends())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Total cases")
}

func TestTrendRenderer_WriteFile_NoData(t *testing.T) {
	renderer := NewTrendRenderer(nil)

	path := filepath.Join(t.TempDir(), "global-trends.html")
	err := renderer.WriteFile(context.Background(), path, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePresentation))
}
