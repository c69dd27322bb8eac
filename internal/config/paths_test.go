package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/opt/epipulse", "/home/user/work")

	assert.Equal(t, "/opt/epipulse", p.ExecutableDir)
	assert.Equal(t, "/home/user/work", p.WorkingDir)
	assert.Equal(t, filepath.Join("/opt/epipulse", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/opt/epipulse", "data", "reports"), p.ReportsDir)
	assert.Equal(t, filepath.Join("/opt/epipulse", "logs"), p.LogsDir)
	assert.Equal(t, filepath.Join("/opt/epipulse", "data", DataFileName), p.DataFile)
	assert.Equal(t, filepath.Join("/home/user/work", "data", DataFileName), p.WorkingDataFile)
	assert.Equal(t, filepath.Join("/opt/epipulse", "data", "reports", TrendsChartFileName), p.TrendsChartHTML)
	assert.Equal(t, filepath.Join("/opt/epipulse", "data", "reports", SnapshotCSVFileName), p.SnapshotCSV)
}

func TestGetPaths(t *testing.T) {
	p, err := GetPaths()
	require.NoError(t, err)

	assert.NotEmpty(t, p.ExecutableDir)
	assert.NotEmpty(t, p.WorkingDir)
	assert.True(t, filepath.IsAbs(p.DataFile))
}

func TestResolveDataFile(t *testing.T) {
	logger := discardLogger()

	writeFile := func(t *testing.T, path string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("iso_code\n"), 0644))
	}

	t.Run("prefers install data file when both exist", func(t *testing.T) {
		exeDir := t.TempDir()
		workDir := t.TempDir()
		p := NewPaths(exeDir, workDir)
		writeFile(t, p.DataFile)
		writeFile(t, p.WorkingDataFile)

		assert.Equal(t, p.DataFile, p.ResolveDataFile(logger))
	})

	t.Run("falls back to working directory file", func(t *testing.T) {
		exeDir := t.TempDir()
		workDir := t.TempDir()
		p := NewPaths(exeDir, workDir)
		writeFile(t, p.WorkingDataFile)

		assert.Equal(t, p.WorkingDataFile, p.ResolveDataFile(logger))
	})

	t.Run("returns working directory candidate when neither exists", func(t *testing.T) {
		exeDir := t.TempDir()
		workDir := t.TempDir()
		p := NewPaths(exeDir, workDir)

		assert.Equal(t, p.WorkingDataFile, p.ResolveDataFile(logger))
	})
}

func TestEnsureDirectories(t *testing.T) {
	exeDir := t.TempDir()
	p := NewPaths(exeDir, t.TempDir())

	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.csv")))
}

func TestGetReportPath(t *testing.T) {
	p := NewPaths("/opt/epipulse", "/work")

	assert.Equal(t, filepath.Join("/opt/epipulse", "data", "reports", "trends.html"), p.GetReportPath("trends.html"))
}
