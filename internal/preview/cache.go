// Package preview maintains the on-disk preview image cache and the
// bounded-concurrency prefetch pool that warms it.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"wallgrab/internal/domain"
)

// Cache is a content-addressed store of preview images in a single
// directory. Filenames are derived from source URLs. Concurrent
// requests for the same filename share one fetch via singleflight.
type Cache struct {
	dir    string
	logger *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	states map[string]domain.CacheState
}

// NewCache creates the cache directory if needed
func NewCache(dir string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		dir:    dir,
		logger: logger,
		states: make(map[string]domain.CacheState),
	}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the on-disk location for a filename
func (c *Cache) Path(filename string) string {
	return filepath.Join(c.dir, filename)
}

// Get returns the current entry for a filename. A file left behind by a
// previous session is validated on first sight, so a corrupt leftover
// is detected here rather than at render time.
func (c *Cache) Get(filename string) domain.CacheEntry {
	c.mu.Lock()
	state, known := c.states[filename]
	c.mu.Unlock()

	path := c.Path(filename)

	if known {
		return domain.CacheEntry{Filename: filename, Path: path, State: state}
	}

	if _, err := os.Stat(path); err != nil {
		return domain.CacheEntry{Filename: filename, State: domain.CacheMissing}
	}

	state = domain.CacheCorrupt
	if ValidateImage(path) == nil {
		state = domain.CacheValid
	}
	c.setState(filename, state)
	return domain.CacheEntry{Filename: filename, Path: path, State: state}
}

// Put stores data under filename, writing to a temporary name and
// renaming into place so concurrent readers never observe a partial
// file. The data is validated before the entry is marked Valid.
func (c *Cache) Put(filename string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, filename+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, c.Path(filename)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move into place: %w", err)
	}

	state := domain.CacheCorrupt
	if ValidateImage(c.Path(filename)) == nil {
		state = domain.CacheValid
	}
	c.setState(filename, state)
	return nil
}

// Invalidate removes the entry and its file
func (c *Cache) Invalidate(filename string) {
	os.Remove(c.Path(filename))
	c.mu.Lock()
	delete(c.states, filename)
	c.mu.Unlock()
}

// Ensure returns a Valid entry for url, fetching it if necessary. At
// most one fetch per filename is in flight at a time; a second caller
// waits for the first's outcome instead of duplicating the fetch.
//
// A transport failure leaves the entry Missing and returns the error.
// Data that fails validation gets one in-place repair pass; if the
// repair fails the entry is left Corrupt (no refetch here — that
// decision belongs to the caller).
func (c *Cache) Ensure(ctx context.Context, sourceURL string, fetcher domain.Fetcher) (domain.CacheEntry, error) {
	filename := domain.CacheFilename(sourceURL)

	if entry := c.Get(filename); entry.State == domain.CacheValid {
		return entry, nil
	}

	v, err, _ := c.group.Do(filename, func() (interface{}, error) {
		// Re-check under the flight: the previous holder may have
		// resolved this filename already
		if entry := c.Get(filename); entry.State == domain.CacheValid {
			return entry, nil
		}
		return c.fetchLocked(ctx, sourceURL, filename, fetcher)
	})
	if err != nil {
		return domain.CacheEntry{Filename: filename, State: domain.CacheMissing}, err
	}
	return v.(domain.CacheEntry), nil
}

// fetchLocked performs the fetch while holding the filename's flight
func (c *Cache) fetchLocked(ctx context.Context, sourceURL, filename string, fetcher domain.Fetcher) (domain.CacheEntry, error) {
	c.setState(filename, domain.CacheDownloading)

	tmp, err := os.CreateTemp(c.dir, filename+".dl*")
	if err != nil {
		c.setState(filename, domain.CacheMissing)
		return domain.CacheEntry{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := fetcher.Fetch(ctx, sourceURL, tmpName); err != nil {
		os.Remove(tmpName)
		// A failed fetch leaves the entry Missing, not Corrupt
		c.mu.Lock()
		delete(c.states, filename)
		c.mu.Unlock()
		c.logger.Debug("preview fetch failed", "url", sourceURL, "error", err)
		return domain.CacheEntry{}, err
	}

	if err := ValidateImage(tmpName); err != nil {
		c.logger.Warn("preview failed validation", "file", filename, "error", err)
		if rerr := RepairImage(tmpName); rerr != nil {
			c.logger.Debug("preview repair failed", "file", filename, "error", rerr)
		}
	}

	path := c.Path(filename)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		c.setState(filename, domain.CacheMissing)
		return domain.CacheEntry{}, fmt.Errorf("failed to move into place: %w", err)
	}

	state := domain.CacheCorrupt
	if ValidateImage(path) == nil {
		state = domain.CacheValid
	}
	c.setState(filename, state)

	return domain.CacheEntry{Filename: filename, Path: path, State: state}, nil
}

func (c *Cache) setState(filename string, state domain.CacheState) {
	c.mu.Lock()
	c.states[filename] = state
	c.mu.Unlock()
}
