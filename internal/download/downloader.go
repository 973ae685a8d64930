// Package download places selected originals into the configured
// library folder and records them in the history store.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"wallgrab/internal/domain"
	"wallgrab/internal/store"
)

// Downloader fetches resolved source URLs into the library folder.
type Downloader struct {
	folder  string
	fetcher domain.Fetcher
	history *store.HistoryStore
	force   bool
	logger  *slog.Logger
}

// New creates a downloader. history may be nil to skip deduplication.
func New(folder string, fetcher domain.Fetcher, history *store.HistoryStore, force bool, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		folder:  folder,
		fetcher: fetcher,
		history: history,
		force:   force,
		logger:  logger,
	}
}

// Fetch downloads every URL into the library folder, skipping ones
// already in history unless force is set. Returns the number saved and
// the first error encountered after attempting every URL.
func (d *Downloader) Fetch(ctx context.Context, urls []string) (int, error) {
	if err := os.MkdirAll(d.folder, 0755); err != nil {
		return 0, fmt.Errorf("failed to create download folder: %w", err)
	}

	saved := 0
	var firstErr error
	for _, sourceURL := range urls {
		if err := ctx.Err(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		filename := domain.CacheFilename(sourceURL)
		if d.history != nil && !d.force && d.history.Has(sourceURL) {
			d.logger.Info("already downloaded, skipping", "file", filename)
			continue
		}

		if err := d.fetchOne(ctx, sourceURL, filename); err != nil {
			d.logger.Error("download failed", "url", sourceURL, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if d.history != nil {
			if err := d.history.Add(sourceURL, filename); err != nil {
				d.logger.Warn("failed to record download history", "error", err)
			}
		}
		d.logger.Info("downloaded", "file", filename)
		saved++
	}
	return saved, firstErr
}

// fetchOne downloads a single URL via temp file + rename so an
// interrupted transfer never leaves a partial file in the library.
func (d *Downloader) fetchOne(ctx context.Context, sourceURL, filename string) error {
	tmp, err := os.CreateTemp(d.folder, filename+".part*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := d.fetcher.Fetch(ctx, sourceURL, tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(d.folder, filename)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move into place: %w", err)
	}
	return nil
}
