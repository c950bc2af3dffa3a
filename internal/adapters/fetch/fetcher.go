// Package fetch downloads release assets over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher implements ports.Fetcher using net/http.
type Fetcher struct {
	client *http.Client
	logger ports.Logger
}

// NewFetcher creates a new Fetcher. The client carries no overall timeout;
// large assets may legitimately take minutes, and cancellation comes from the
// request context.
func NewFetcher(logger ports.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{},
		logger: logger,
	}
}

// Fetch downloads url into dest, creating parent directories as needed.
// A partial file is removed when the transfer fails or is interrupted, so a
// later run never mistakes it for a finished asset.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to build download request"), "url", url)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to download file"), "url", url)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return zerr.With(zerr.With(zerr.With(domain.ErrDownloadBadStatus,
			"url", url), "status", res.StatusCode), "reason", res.Status)
	}

	if res.ContentLength >= 0 {
		f.logger.Info("downloading asset", "url", url, "size", formatSize(res.ContentLength))
	} else {
		f.logger.Info("downloading asset", "url", url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create download directory"), "path", dest)
	}

	out, err := os.Create(dest) //nolint:gosec // dest comes from the target catalog
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create download file"), "path", dest)
	}

	if _, err := io.Copy(out, res.Body); err != nil {
		_ = out.Close()
		f.rollback(dest)
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to download file"),
			"url", url), "path", dest)
	}
	if err := out.Close(); err != nil {
		f.rollback(dest)
		return zerr.With(zerr.Wrap(err, "failed to finish download file"), "path", dest)
	}

	f.logger.Debug("download complete", "url", url, "path", dest)
	return nil
}

// rollback removes a partially written download.
func (f *Fetcher) rollback(dest string) {
	f.logger.Info("rolling back file download", "path", dest)
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("failed to roll back file", "path", dest, "error", err)
	}
}

// formatSize pretty-prints a byte count in decimal units.
func formatSize(val int64) string {
	switch {
	case val < 1_000:
		return fmt.Sprintf("%d bytes", val)
	case val < 1_000_000:
		return fmt.Sprintf("%.2f KB", float64(val)/1_000)
	case val < 1_000_000_000:
		return fmt.Sprintf("%.2f MB", float64(val)/1_000_000)
	default:
		return fmt.Sprintf("%.2f GB", float64(val)/1_000_000_000)
	}
}

var _ ports.Fetcher = (*Fetcher)(nil)
