// Package fetch retrieves the OWID dataset file from its upstream source.
// The download is a one-shot best-effort operation: no retries, no partial
// resume. A failed fetch leaves any existing file untouched.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"epipulse/internal/config"
	"epipulse/internal/errors"
	"epipulse/internal/infrastructure"
	"epipulse/pkg/contracts"
)

// Downloader fetches the dataset CSV over HTTP.
type Downloader struct {
	logger  *slog.Logger
	metrics *infrastructure.Metrics
	client  *http.Client
	url     string
}

// NewDownloader creates a downloader for the configured source URL. A nil
// logger falls back to slog.Default(); metrics may be nil when
// instrumentation is not wired.
func NewDownloader(logger *slog.Logger, metrics *infrastructure.Metrics, cfg config.DatasetConfig) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		logger:  logger.With(slog.String("component", "downloader")),
		metrics: metrics,
		client:  &http.Client{Timeout: cfg.DownloadTimeout},
		url:     cfg.DownloadURL,
	}
}

// Ensure makes the dataset file available at dest. When the file already
// exists and force is false, nothing is fetched. Otherwise the file is
// downloaded to a temporary sibling and renamed into place, so dest is never
// left half-written. Returns whether a download happened.
func (d *Downloader) Ensure(ctx context.Context, dest string, force bool) (bool, error) {
	if !force {
		if _, err := os.Stat(dest); err == nil {
			d.logger.DebugContext(ctx, "dataset file already present, skipping download",
				slog.String("path", dest))
			return false, nil
		}
	}

	start := time.Now()
	d.logger.InfoContext(ctx, "downloading dataset",
		slog.String("url", d.url),
		slog.String("dest", dest))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return false, errors.NewNetworkError("failed to build dataset request", err).
			WithContext("url", d.url)
	}
	req.Header.Set("User-Agent", contracts.UserAgent())

	resp, err := d.client.Do(req)
	if err != nil {
		return false, errors.NewNetworkError("failed to fetch dataset", err).
			WithContext("url", d.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, errors.NewNetworkError(
			fmt.Sprintf("dataset source returned status %d", resp.StatusCode), nil).
			WithContext("url", d.url).
			WithContext("status", resp.StatusCode)
	}

	written, err := d.writeAtomic(dest, resp.Body)
	if err != nil {
		return false, err
	}

	if d.metrics != nil {
		d.metrics.AddDownloadBytes(written)
	}
	d.logger.InfoContext(ctx, "dataset downloaded",
		slog.String("dest", dest),
		slog.Int64("bytes", written),
		slog.Duration("elapsed", time.Since(start)))

	return true, nil
}

// writeAtomic streams body into a temporary file next to dest and renames it
// into place once the copy completes.
func (d *Downloader) writeAtomic(dest string, body io.Reader) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.NewFileAccessError(dest, err)
	}

	tmp, err := os.CreateTemp(dir, ".owid-download-*.csv")
	if err != nil {
		return 0, errors.NewFileAccessError(dest, err)
	}

	written, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, errors.NewNetworkError("dataset transfer interrupted", err).
			WithContext("url", d.url)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.NewFileAccessError(dest, err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.NewFileAccessError(dest, err)
	}

	return written, nil
}
