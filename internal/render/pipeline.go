package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"wallgrab/internal/browse"
	"wallgrab/internal/domain"
	"wallgrab/internal/preview"
)

const (
	fetchTimeout    = 15 * time.Second
	spinnerInterval = 100 * time.Millisecond
)

// Spinner frames for the in-flight fetch indicator
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const noPreviewPlaceholder = "── no preview ──"

// Pipeline resolves a single display line into terminal output. One
// invocation is active at a time; the selection widget drives it
// serially as the highlight moves.
type Pipeline struct {
	cache    *preview.Cache
	fetcher  domain.Fetcher
	backends []domain.Backend
	out      io.Writer
	region   domain.Region
	logger   *slog.Logger
}

// NewPipeline assembles the render pipeline. backends are tried in
// slice order; out is the terminal the region lives on.
func NewPipeline(cache *preview.Cache, fetcher domain.Fetcher, backends []domain.Backend, out io.Writer, region domain.Region, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cache:    cache,
		fetcher:  fetcher,
		backends: backends,
		out:      out,
		region:   region,
		logger:   logger,
	}
}

// SetRegion moves the display region (e.g. after a terminal resize)
func (p *Pipeline) SetRegion(region domain.Region) {
	p.region = region
}

// Render draws the preview for one display line into the region.
// Errors are terminal for this invocation only: they are shown in the
// region and returned, but never abort the surrounding browse session.
func (p *Pipeline) Render(ctx context.Context, line string) error {
	// Already superseded, don't touch the region
	if err := ctx.Err(); err != nil {
		return err
	}

	// Pagination pseudo-lines get a fixed placeholder, no I/O
	if domain.IsPseudoLine(line) {
		clearRegion(p.out, p.region)
		io.WriteString(p.out, noPreviewPlaceholder)
		return nil
	}

	sourceURL := line
	if url := browse.ExtractURL(line); url != "" {
		sourceURL = url
	}

	entry, err := p.ensureValid(ctx, sourceURL)
	if err != nil {
		// A superseded invocation must leave the region alone
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		clearRegion(p.out, p.region)
		fmt.Fprintf(p.out, "preview unavailable: %v", err)
		return err
	}

	for _, backend := range p.backends {
		if !backend.Available() {
			continue
		}
		clearRegion(p.out, p.region)
		if err := backend.Draw(entry.Path, p.region); err != nil {
			p.logger.Warn("render backend failed", "backend", backend.Name(), "error", err)
			continue
		}
		p.logger.Debug("rendered preview", "backend", backend.Name(), "file", entry.Filename)
		return nil
	}

	clearRegion(p.out, p.region)
	io.WriteString(p.out, "no renderer available")
	return domain.ErrNoRendererAvailable
}

// ensureValid returns a Valid cache entry for the URL, fetching under a
// bounded timeout with a spinner in the region while the fetch is in
// flight. A corrupt result that repair could not save is deleted and
// re-fetched exactly once.
func (p *Pipeline) ensureValid(ctx context.Context, sourceURL string) (domain.CacheEntry, error) {
	filename := domain.CacheFilename(sourceURL)
	if entry := p.cache.Get(filename); entry.State == domain.CacheValid {
		return entry, nil
	}

	entry, err := p.fetchWithSpinner(ctx, sourceURL)
	if err != nil {
		return domain.CacheEntry{}, domain.ErrPreviewFetchFailed
	}

	if entry.State != domain.CacheValid {
		// Repair already ran inside the cache; delete and retry once
		p.logger.Warn("preview corrupt after repair, refetching", "file", filename)
		p.cache.Invalidate(filename)
		entry, err = p.fetchWithSpinner(ctx, sourceURL)
		if err != nil {
			return domain.CacheEntry{}, domain.ErrPreviewFetchFailed
		}
		if entry.State != domain.CacheValid {
			p.cache.Invalidate(filename)
			return domain.CacheEntry{}, domain.ErrInvalidImage
		}
	}
	return entry, nil
}

// fetchWithSpinner runs the cache fetch in the background while
// animating a spinner in the region until it resolves. The spinner
// stops drawing the moment the fetch resolves or ctx is cancelled, so
// a superseded invocation leaves no stray frames behind.
func (p *Pipeline) fetchWithSpinner(ctx context.Context, sourceURL string) (domain.CacheEntry, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	type result struct {
		entry domain.CacheEntry
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		entry, err := p.cache.Ensure(fetchCtx, sourceURL, p.fetcher)
		resultCh <- result{entry, err}
	}()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	frame := 0
	clearRegion(p.out, p.region)
	fmt.Fprintf(p.out, "%s fetching preview...", spinnerFrames[frame])

	for {
		select {
		case res := <-resultCh:
			clearRegion(p.out, p.region)
			if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) {
				return domain.CacheEntry{}, fmt.Errorf("fetch timed out: %w", res.err)
			}
			return res.entry, res.err
		case <-ctx.Done():
			// Superseded: the fetch may still complete in the
			// background and warm the cache, but stop drawing now
			return domain.CacheEntry{}, ctx.Err()
		case <-ticker.C:
			frame = (frame + 1) % len(spinnerFrames)
			moveTo(p.out, p.region.X, p.region.Y)
			fmt.Fprintf(p.out, "%s fetching preview...", spinnerFrames[frame])
		}
	}
}
