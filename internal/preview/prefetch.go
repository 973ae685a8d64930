package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"wallgrab/internal/domain"
)

// DefaultConcurrency bounds the prefetch worker set
const DefaultConcurrency = 6

// Prefetcher warms the preview cache for a whole page before display.
type Prefetcher struct {
	cache       *Cache
	fetcher     domain.Fetcher
	concurrency int
	progress    io.Writer // Single-line "N/M" progress, nil to disable
	logger      *slog.Logger
}

// NewPrefetcher creates a pool with the given worker bound. progress
// receives the in-place progress line and is typically stderr.
func NewPrefetcher(cache *Cache, fetcher domain.Fetcher, concurrency int, progress io.Writer, logger *slog.Logger) *Prefetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prefetcher{
		cache:       cache,
		fetcher:     fetcher,
		concurrency: concurrency,
		progress:    progress,
		logger:      logger,
	}
}

// Warm fetches every URL whose cache entry is not already Valid, with
// at most the configured number of fetches in flight: a new job is
// admitted as soon as any one completes, so latency tracks the slowest
// job rather than the slowest batch. Individual failures are counted,
// never raised. Returns the number of successfully warmed entries.
func (p *Prefetcher) Warm(ctx context.Context, urls []string) int {
	var pending []string
	for _, u := range urls {
		if p.cache.Get(domain.CacheFilename(u)).State != domain.CacheValid {
			pending = append(pending, u)
		}
	}
	total := len(pending)
	if total == 0 {
		return 0
	}

	var (
		wg        sync.WaitGroup
		sem       = make(chan struct{}, p.concurrency)
		mu        sync.Mutex
		completed int
		warmed    int
	)

	for _, u := range pending {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return warmed
		}

		wg.Add(1)
		go func(sourceURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			entry, err := p.cache.Ensure(ctx, sourceURL, p.fetcher)
			mu.Lock()
			completed++
			if err == nil && entry.State == domain.CacheValid {
				warmed++
			} else {
				p.logger.Warn("prefetch job failed", "url", sourceURL, "error", err)
			}
			// Written under mu: the progress writer is shared by every
			// worker and need not be safe for concurrent use
			if p.progress != nil {
				fmt.Fprintf(p.progress, "\rPrefetching previews %d/%d completed", completed, total)
			}
			mu.Unlock()
		}(u)
	}

	wg.Wait()
	if p.progress != nil {
		fmt.Fprint(p.progress, "\r\033[K")
	}
	p.logger.Info("prefetch complete", "warmed", warmed, "total", total)
	return warmed
}
