package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for file locations. Directories are
// anchored at the executable so the layout survives being launched from a
// different working directory; the one exception is WorkingDataFile, which
// gives `epipulse` run from a checkout a second place to find the dataset.
type Paths struct {
	ExecutableDir string
	WorkingDir    string
	DataDir       string
	ReportsDir    string
	LogsDir       string

	// DataFile is the conventional dataset location under the install
	// directory; WorkingDataFile is the working-directory candidate.
	DataFile        string
	WorkingDataFile string

	// Well-known report files
	TrendsChartHTML string
	SnapshotCSV     string
	SnapshotJSON    string
	SnapshotXLSX    string
}

// GetPaths returns the path layout for the running binary.
func GetPaths() (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	return NewPaths(exeDir, wd), nil
}

// executableDir resolves the directory holding the real binary, following
// symlinks so a linked install still anchors next to the actual file.
func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// NewPaths builds the path layout from explicit anchor directories. GetPaths
// is the production entry; tests use NewPaths directly.
func NewPaths(exeDir, workingDir string) *Paths {
	dataDir := filepath.Join(exeDir, DefaultDataDir)
	reportsDir := filepath.Join(exeDir, DefaultReportsDir)

	return &Paths{
		ExecutableDir: exeDir,
		WorkingDir:    workingDir,
		DataDir:       dataDir,
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(exeDir, DefaultLogsDir),

		DataFile:        filepath.Join(dataDir, DataFileName),
		WorkingDataFile: filepath.Join(workingDir, DefaultDataDir, DataFileName),

		TrendsChartHTML: filepath.Join(reportsDir, TrendsChartFileName),
		SnapshotCSV:     filepath.Join(reportsDir, SnapshotCSVFileName),
		SnapshotJSON:    filepath.Join(reportsDir, SnapshotJSONFileName),
		SnapshotXLSX:    filepath.Join(reportsDir, SnapshotXLSXFileName),
	}
}

// ResolveDataFile locates the dataset file. It tries the install-directory
// candidate first, then the working-directory candidate, and returns the
// first that exists. When neither exists it returns the working-directory
// candidate without failing; callers that require the file must check for
// existence themselves. Pure lookup, no side effects.
func (p *Paths) ResolveDataFile(logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	for _, candidate := range []string{p.DataFile, p.WorkingDataFile} {
		if FileExists(candidate) {
			logger.Debug("dataset file resolved",
				slog.String("path", candidate))
			return candidate
		}
	}

	logger.Debug("dataset file not found in any candidate location",
		slog.String("fallback", p.WorkingDataFile))
	return p.WorkingDataFile
}

// EnsureDirectories creates the data, reports and logs directories. Safe to
// call repeatedly.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetRelativePath resolves subpath against the executable directory.
func (p *Paths) GetRelativePath(subpath string) string {
	return filepath.Join(p.ExecutableDir, subpath)
}

// GetReportPath returns the location of a named report file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists reports whether path is present on disk.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the path layout for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}

	logger.Debug("path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("working", p.WorkingDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("dataset",
			slog.String("install_candidate", p.DataFile),
			slog.String("working_candidate", p.WorkingDataFile),
		))
}
